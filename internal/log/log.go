// Package log is a small leveled logger with key-value context, shared
// by every package in the service. Lines go to stderr as
//
//	2025-06-02T09:00:00Z [INFO] msg key=value ...
package log

import (
	"fmt"
	stdlog "log"
	"os"
	"sync"
	"time"
)

type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelError Level = "ERROR"
)

var (
	logger     *stdlog.Logger
	loggerOnce sync.Once
	minLevel   = LevelInfo
)

func initLogger() {
	loggerOnce.Do(func() {
		// Timestamps are rendered by emit, so no stdlog flags.
		logger = stdlog.New(os.Stderr, "", 0)
	})
}

// SetLevel sets the minimum level emitted. The default is LevelInfo.
func SetLevel(l Level) {
	initLogger()
	minLevel = l
}

// Debug logs at debug level with optional key-value pairs.
func Debug(msg string, kv ...any) {
	emit(LevelDebug, msg, kv...)
}

// Info logs at info level with optional key-value pairs.
func Info(msg string, kv ...any) {
	emit(LevelInfo, msg, kv...)
}

// Error logs err under the "err" key ahead of any other pairs.
func Error(msg string, err error, kv ...any) {
	emit(LevelError, msg, append([]any{"err", err}, kv...)...)
}

func emit(level Level, msg string, kv ...any) {
	initLogger()
	if !levelEnabled(level) {
		return
	}

	line := time.Now().Format(time.RFC3339Nano) + " [" + string(level) + "] " + msg
	if len(kv) > 0 {
		line += formatKVs(kv...)
	}
	logger.Println(line)
}

func levelEnabled(level Level) bool {
	switch minLevel {
	case LevelDebug:
		return true
	case LevelInfo:
		return level == LevelInfo || level == LevelError
	case LevelError:
		return level == LevelError
	default:
		return true
	}
}

// formatKVs renders kv as " key=value" pairs. Keys that are not
// strings, and an odd trailing value, are dropped.
func formatKVs(kv ...any) string {
	out := ""
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		out += " " + key + "=" + fmt.Sprint(kv[i+1])
	}
	return out
}
