package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	applog "ecal/internal/log"
	"ecal/internal/model"
)

// SyncStore extends EventStore with access to the configured calendar
// sources the scheduler runs.
type SyncStore interface {
	EventStore
	ListEnabledCalendarSyncs(ctx context.Context) ([]model.CalendarSync, error)
	TouchCalendarSync(ctx context.Context, id uint, at time.Time) error
}

// Scheduler periodically imports every enabled calendar_syncs row.
type Scheduler struct {
	store SyncStore
	imp   *Importer
	cron  *cron.Cron
}

// NewScheduler builds a Scheduler around the given importer.
func NewScheduler(st SyncStore, imp *Importer) *Scheduler {
	return &Scheduler{
		store: st,
		imp:   imp,
		cron:  cron.New(),
	}
}

// Start registers the sync job under the given 5-field cron spec and
// starts the cron loop.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.RunAll); err != nil {
		return fmt.Errorf("invalid sync cron %q: %w", spec, err)
	}
	s.cron.Start()
	applog.Info("sync scheduler started", "cron", spec)
	return nil
}

// Stop stops the cron loop. Running jobs finish on their own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// RunAll imports every enabled CalDAV source once, updating last_sync
// on the rows whose run succeeded. Failures of one source never stop
// the others.
func (s *Scheduler) RunAll() {
	ctx := context.Background()

	syncs, err := s.store.ListEnabledCalendarSyncs(ctx)
	if err != nil {
		applog.Error("scheduled sync: listing sources failed", err)
		return
	}

	for _, cs := range syncs {
		if cs.Source != model.SourceCalDAV || cs.URL == nil {
			continue
		}

		acct := Account{URL: *cs.URL}
		if cs.Username != nil {
			acct.Username = *cs.Username
		}
		if cs.Token != nil {
			acct.Password = *cs.Token
		}

		res, err := s.imp.Run(ctx, acct)
		if err != nil {
			applog.Error("scheduled sync failed", err, "sync_id", cs.ID, "name", cs.Name)
			continue
		}
		if err := s.store.TouchCalendarSync(ctx, cs.ID, time.Now().UTC()); err != nil {
			applog.Error("scheduled sync: updating last_sync failed", err, "sync_id", cs.ID)
		}
		applog.Info("scheduled sync completed",
			"sync_id", cs.ID,
			"name", cs.Name,
			"imported", res.Imported,
			"error_count", len(res.Errors),
		)
	}
}
