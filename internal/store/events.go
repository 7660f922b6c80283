package store

import (
	"context"
	"time"

	"ecal/internal/model"
)

// EventFilter narrows ListEvents to events whose interval overlaps the
// requested window: Event.end >= Start AND Event.start <= End.
type EventFilter struct {
	Start *time.Time
	End   *time.Time
}

// EventUpdate carries the fields of a partial event update. Only
// non-nil fields are applied.
type EventUpdate struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Start       *time.Time `json:"start"`
	End         *time.Time `json:"end"`
	AllDay      *bool      `json:"all_day"`
	Recurrence  *string    `json:"recurrence"`
	CategoryID  *uint      `json:"category_id"`
}

// CreateEvent inserts a new event.
func (s *Store) CreateEvent(ctx context.Context, event *model.Event) error {
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return wrapErr("create event", err)
	}
	return nil
}

// GetEvent retrieves an event by ID.
func (s *Store) GetEvent(ctx context.Context, id uint) (*model.Event, error) {
	var event model.Event
	if err := s.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, wrapErr("get event", err)
	}
	return &event, nil
}

// ListEvents returns events ordered by start time, optionally filtered
// to those overlapping the given window.
func (s *Store) ListEvents(ctx context.Context, filter EventFilter) ([]model.Event, error) {
	q := s.db.WithContext(ctx).Order("`start`")
	if filter.Start != nil {
		q = q.Where("`end` >= ?", *filter.Start)
	}
	if filter.End != nil {
		q = q.Where("`start` <= ?", *filter.End)
	}

	var events []model.Event
	if err := q.Find(&events).Error; err != nil {
		return nil, wrapErr("list events", err)
	}
	return events, nil
}

// FindEventBySource looks up an event by its provenance pair. This is
// the dedup probe used by the CalDAV importer.
func (s *Store) FindEventBySource(ctx context.Context, externalID, source string) (*model.Event, error) {
	var event model.Event
	err := s.db.WithContext(ctx).
		Where("external_id = ? AND source = ?", externalID, source).
		First(&event).Error
	if err != nil {
		return nil, wrapErr("find event by source", err)
	}
	return &event, nil
}

// UpdateEvent applies the non-nil fields of upd to the event and
// returns the updated row.
func (s *Store) UpdateEvent(ctx context.Context, id uint, upd EventUpdate) (*model.Event, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		event.Title = *upd.Title
	}
	if upd.Description != nil {
		event.Description = upd.Description
	}
	if upd.Start != nil {
		event.Start = *upd.Start
	}
	if upd.End != nil {
		event.End = *upd.End
	}
	if upd.AllDay != nil {
		event.AllDay = *upd.AllDay
	}
	if upd.Recurrence != nil {
		event.Recurrence = upd.Recurrence
	}
	if upd.CategoryID != nil {
		event.CategoryID = upd.CategoryID
	}

	if err := s.db.WithContext(ctx).Save(event).Error; err != nil {
		return nil, wrapErr("update event", err)
	}
	return event, nil
}

// DeleteEvent removes an event by ID.
func (s *Store) DeleteEvent(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.Event{}, id)
	if result.Error != nil {
		return wrapErr("delete event", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
