package sync

import (
	"context"
	"errors"

	applog "ecal/internal/log"
	"ecal/internal/model"
	"ecal/internal/store"
)

// maxReportedErrors caps the error list returned to callers.
const maxReportedErrors = 5

// EventStore is the slice of the store the importer needs. Lookups for
// absent rows must return an error satisfying
// errors.Is(err, store.ErrNotFound).
type EventStore interface {
	FindEventBySource(ctx context.Context, externalID, source string) (*model.Event, error)
	CreateEvent(ctx context.Context, event *model.Event) error
}

// Result is the outcome of one import run.
type Result struct {
	Imported int      `json:"imported"`
	Errors   []string `json:"errors"`
}

// Importer reconciles events fetched from a CalDAV server against the
// store, inserting only candidates not imported before.
type Importer struct {
	store EventStore
	fetch FetchFunc
}

// NewImporter builds an Importer. A nil fetch uses FetchEvents.
func NewImporter(st EventStore, fetch FetchFunc) *Importer {
	if fetch == nil {
		fetch = FetchEvents
	}
	return &Importer{store: st, fetch: fetch}
}

// Run fetches every event visible to the account and upserts them into
// the store.
//
// The network fetch-and-parse phase runs on its own goroutine; the
// caller is parked on the result channel, so a request-handling path
// that invokes Run never does the blocking I/O itself. A
// connection-level failure aborts the whole run. A candidate that
// matches an existing (external_id, source) pair is skipped without
// update; a candidate whose insert fails is recorded and the run
// continues. No step is ever retried.
func (imp *Importer) Run(ctx context.Context, acct Account) (Result, error) {
	type fetchOutcome struct {
		events []EventData
		err    error
	}
	ch := make(chan fetchOutcome, 1)
	go func() {
		events, err := imp.fetch(ctx, acct)
		ch <- fetchOutcome{events: events, err: err}
	}()
	out := <-ch
	if out.err != nil {
		return Result{}, out.err
	}

	result := Result{Errors: []string{}}
	for _, ev := range out.events {
		_, err := imp.store.FindEventBySource(ctx, ev.ExternalID, model.SourceCalDAV)
		if err == nil {
			// Already imported once; later syncs do not refresh it.
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			result.Errors = append(result.Errors, err.Error())
			continue
		}

		externalID := ev.ExternalID
		source := model.SourceCalDAV
		event := &model.Event{
			Title:       ev.Title,
			Description: ev.Description,
			Start:       ev.Start,
			End:         ev.End,
			AllDay:      ev.AllDay,
			ExternalID:  &externalID,
			Source:      &source,
		}
		if err := imp.store.CreateEvent(ctx, event); err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.Imported++
	}

	if len(result.Errors) > maxReportedErrors {
		result.Errors = result.Errors[:maxReportedErrors]
	}

	applog.Info("caldav import completed", "imported", result.Imported, "error_count", len(result.Errors))
	return result, nil
}
