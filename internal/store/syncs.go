package store

import (
	"context"
	"time"

	"ecal/internal/model"
)

// CalendarSyncUpdate carries the fields of a partial calendar-sync
// config update.
type CalendarSyncUpdate struct {
	Name     *string `json:"name"`
	Source   *string `json:"source"`
	URL      *string `json:"url"`
	Username *string `json:"username"`
	Token    *string `json:"token"`
	Enabled  *bool   `json:"enabled"`
}

// CreateCalendarSync inserts a new sync config row.
func (s *Store) CreateCalendarSync(ctx context.Context, cs *model.CalendarSync) error {
	if err := s.db.WithContext(ctx).Create(cs).Error; err != nil {
		return wrapErr("create calendar sync", err)
	}
	return nil
}

// GetCalendarSync retrieves a sync config by ID.
func (s *Store) GetCalendarSync(ctx context.Context, id uint) (*model.CalendarSync, error) {
	var cs model.CalendarSync
	if err := s.db.WithContext(ctx).First(&cs, id).Error; err != nil {
		return nil, wrapErr("get calendar sync", err)
	}
	return &cs, nil
}

// ListCalendarSyncs returns all sync configs, oldest first.
func (s *Store) ListCalendarSyncs(ctx context.Context) ([]model.CalendarSync, error) {
	var syncs []model.CalendarSync
	if err := s.db.WithContext(ctx).Order("created_at").Find(&syncs).Error; err != nil {
		return nil, wrapErr("list calendar syncs", err)
	}
	return syncs, nil
}

// ListEnabledCalendarSyncs returns enabled configs that carry a URL;
// these are the ones the background scheduler runs.
func (s *Store) ListEnabledCalendarSyncs(ctx context.Context) ([]model.CalendarSync, error) {
	var syncs []model.CalendarSync
	err := s.db.WithContext(ctx).
		Where("enabled = ? AND url IS NOT NULL AND url != ''", true).
		Order("created_at").
		Find(&syncs).Error
	if err != nil {
		return nil, wrapErr("list enabled calendar syncs", err)
	}
	return syncs, nil
}

// UpdateCalendarSync applies the non-nil fields of upd to the config.
func (s *Store) UpdateCalendarSync(ctx context.Context, id uint, upd CalendarSyncUpdate) (*model.CalendarSync, error) {
	cs, err := s.GetCalendarSync(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		cs.Name = *upd.Name
	}
	if upd.Source != nil {
		cs.Source = *upd.Source
	}
	if upd.URL != nil {
		cs.URL = upd.URL
	}
	if upd.Username != nil {
		cs.Username = upd.Username
	}
	if upd.Token != nil {
		cs.Token = upd.Token
	}
	if upd.Enabled != nil {
		cs.Enabled = *upd.Enabled
	}

	if err := s.db.WithContext(ctx).Save(cs).Error; err != nil {
		return nil, wrapErr("update calendar sync", err)
	}
	return cs, nil
}

// TouchCalendarSync records a successful sync run.
func (s *Store) TouchCalendarSync(ctx context.Context, id uint, at time.Time) error {
	result := s.db.WithContext(ctx).
		Model(&model.CalendarSync{}).
		Where("id = ?", id).
		Update("last_sync", at)
	if result.Error != nil {
		return wrapErr("touch calendar sync", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCalendarSync removes a sync config by ID.
func (s *Store) DeleteCalendarSync(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.CalendarSync{}, id)
	if result.Error != nil {
		return wrapErr("delete calendar sync", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
