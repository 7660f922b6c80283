package main

import (
	"context"
	"flag"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"

	"ecal/internal/config"
	applog "ecal/internal/log"
	"ecal/internal/store"
	"ecal/internal/sync"
	"ecal/internal/weather"
	"ecal/internal/web"
)

const shutdownTimeout = 30 * time.Second

type flagConfig struct {
	configPath string
	listen     string
	debug      bool
}

func main() {
	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		applog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	if flags.listen != "" {
		conf.Listen = flags.listen
	}
	if flags.debug {
		conf.Debug = true
	}
	if conf.Debug {
		applog.SetLevel(applog.LevelDebug)
	}

	applog.Info("ecal starting",
		"listen", conf.Listen,
		"data_dir", conf.DataDir,
		"sync_cron", conf.SyncCron,
		"debug", conf.Debug,
	)

	if err := os.MkdirAll(conf.DataDir, 0o700); err != nil {
		applog.Error("failed to create data dir", err, "data_dir", conf.DataDir)
		os.Exit(1)
	}

	st, err := store.Open(conf.DatabasePath(), conf.Debug)
	if err != nil {
		applog.Error("failed to open database", err, "path", conf.DatabasePath())
		os.Exit(1)
	}

	weatherClient := weather.NewClient(
		conf.Weather.City,
		conf.Weather.FallbackLat,
		conf.Weather.FallbackLon,
	)
	importer := sync.NewImporter(st, nil)

	var scheduler *sync.Scheduler
	if conf.SyncCron != "" {
		scheduler = sync.NewScheduler(st, importer)
		if err := scheduler.Start(conf.SyncCron); err != nil {
			applog.Error("failed to start sync scheduler", err, "cron", conf.SyncCron)
			os.Exit(1)
		}
	}

	server := web.New(conf, st, weatherClient, importer)
	go func() {
		if err := server.Listen(); err != nil {
			applog.Error("HTTP server stopped", err)
		}
	}()

	ops := map[string]gfshutdown.Operation{
		"http-server": func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
		"database": func(_ context.Context) error {
			return st.Close()
		},
	}
	if scheduler != nil {
		ops["sync-scheduler"] = func(_ context.Context) error {
			scheduler.Stop()
			return nil
		}
	}

	wait := gfshutdown.GracefulShutdown(context.Background(), shutdownTimeout, ops)
	exitCode := <-wait
	applog.Info("ecal exiting", "code", exitCode)
	os.Exit(exitCode)
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "./config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug logging")

	flag.Parse()

	return cfg
}
