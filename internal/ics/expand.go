package ics

import (
	"errors"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	applog "ecal/internal/log"
	"ecal/internal/model"
)

const defaultMaxOccurrences = 1000

// Occurrence is a single concrete instance of an event within a
// requested window, after recurrence expansion.
type Occurrence struct {
	EventID uint      `json:"event_id"`
	Title   string    `json:"title"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	AllDay  bool      `json:"all_day"`
}

// Expand returns the occurrences of an event inside the inclusive
// [rangeStart, rangeEnd] window.
//
// An event without a recurrence rule yields at most one occurrence. An
// event whose recurrence text does not parse as an RRULE is treated
// the same way. Expansion is capped at maxOccurrences per event
// (defaultMaxOccurrences when zero).
func Expand(ev model.Event, rangeStart, rangeEnd time.Time, maxOccurrences int) ([]Occurrence, error) {
	if rangeEnd.Before(rangeStart) {
		return nil, errors.New("expand: range end is before range start")
	}
	if maxOccurrences <= 0 {
		maxOccurrences = defaultMaxOccurrences
	}

	out := make([]Occurrence, 0)

	rule := ""
	if ev.Recurrence != nil {
		rule = normalizeRRule(*ev.Recurrence)
	}
	if rule == "" {
		if rangesOverlap(ev.Start, ev.End, rangeStart, rangeEnd) {
			out = append(out, makeOccurrence(ev, ev.Start, ev.End))
		}
		return out, nil
	}

	r, err := rrule.StrToRRule(rule)
	if err != nil {
		applog.Debug("unparseable recurrence, treating event as single", "event_id", ev.ID, "recurrence", rule, "reason", err)
		if rangesOverlap(ev.Start, ev.End, rangeStart, rangeEnd) {
			out = append(out, makeOccurrence(ev, ev.Start, ev.End))
		}
		return out, nil
	}
	r.DTStart(ev.Start)

	duration := ev.End.Sub(ev.Start)

	// Widen the lower bound so an occurrence that starts before the
	// window but still overlaps it is not lost.
	lower := rangeStart
	if duration > 0 {
		lower = rangeStart.Add(-duration)
	}

	for _, start := range r.Between(lower, rangeEnd, true) {
		end := start.Add(duration)
		if !rangesOverlap(start, end, rangeStart, rangeEnd) {
			continue
		}
		out = append(out, makeOccurrence(ev, start, end))
		if len(out) >= maxOccurrences {
			applog.Debug("occurrence cap reached", "event_id", ev.ID, "cap", maxOccurrences)
			break
		}
	}

	return out, nil
}

func makeOccurrence(ev model.Event, start, end time.Time) Occurrence {
	return Occurrence{
		EventID: ev.ID,
		Title:   ev.Title,
		Start:   start,
		End:     end,
		AllDay:  ev.AllDay,
	}
}

// rangesOverlap reports whether [aStart, aEnd] intersects
// [bStart, bEnd].
func rangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aEnd.Before(bStart) && !aStart.After(bEnd)
}

// normalizeRRule strips an optional "RRULE:" prefix so stored
// recurrence text is accepted with or without it.
func normalizeRRule(s string) string {
	s = strings.TrimSpace(s)
	return strings.TrimPrefix(s, "RRULE:")
}
