package store

import (
	"context"
	"time"

	"ecal/internal/model"
)

// ChoreFilter narrows ListChores.
type ChoreFilter struct {
	Completed *bool
	DueBefore *time.Time
	Assignee  *string
}

// ChoreUpdate carries the fields of a partial chore update. Only
// non-nil fields are applied. CompletedAt is derived from Completed
// transitions and cannot be set directly.
type ChoreUpdate struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Assignee    *string    `json:"assignee"`
	DueDate     *time.Time `json:"due_date"`
	Completed   *bool      `json:"completed"`
	CategoryID  *uint      `json:"category_id"`
}

// CreateChore inserts a new chore.
func (s *Store) CreateChore(ctx context.Context, chore *model.Chore) error {
	if err := s.db.WithContext(ctx).Create(chore).Error; err != nil {
		return wrapErr("create chore", err)
	}
	return nil
}

// GetChore retrieves a chore by ID.
func (s *Store) GetChore(ctx context.Context, id uint) (*model.Chore, error) {
	var chore model.Chore
	if err := s.db.WithContext(ctx).First(&chore, id).Error; err != nil {
		return nil, wrapErr("get chore", err)
	}
	return &chore, nil
}

// ListChores returns chores ordered by due date (undated last), then
// newest first.
func (s *Store) ListChores(ctx context.Context, filter ChoreFilter) ([]model.Chore, error) {
	q := s.db.WithContext(ctx).
		Order("due_date IS NULL").
		Order("due_date").
		Order("created_at DESC")
	if filter.Completed != nil {
		q = q.Where("completed = ?", *filter.Completed)
	}
	if filter.DueBefore != nil {
		q = q.Where("due_date <= ?", *filter.DueBefore)
	}
	if filter.Assignee != nil {
		q = q.Where("assignee = ?", *filter.Assignee)
	}

	var chores []model.Chore
	if err := q.Find(&chores).Error; err != nil {
		return nil, wrapErr("list chores", err)
	}
	return chores, nil
}

// UpdateChore applies the non-nil fields of upd to the chore. A
// completed false->true transition stamps CompletedAt; true->false
// clears it; an update that omits Completed leaves CompletedAt alone.
func (s *Store) UpdateChore(ctx context.Context, id uint, upd ChoreUpdate) (*model.Chore, error) {
	chore, err := s.GetChore(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Completed != nil {
		switch {
		case *upd.Completed && !chore.Completed:
			now := time.Now().UTC()
			chore.CompletedAt = &now
		case !*upd.Completed:
			chore.CompletedAt = nil
		}
		chore.Completed = *upd.Completed
	}
	if upd.Title != nil {
		chore.Title = *upd.Title
	}
	if upd.Description != nil {
		chore.Description = upd.Description
	}
	if upd.Assignee != nil {
		chore.Assignee = upd.Assignee
	}
	if upd.DueDate != nil {
		chore.DueDate = upd.DueDate
	}
	if upd.CategoryID != nil {
		chore.CategoryID = upd.CategoryID
	}

	if err := s.db.WithContext(ctx).Save(chore).Error; err != nil {
		return nil, wrapErr("update chore", err)
	}
	return chore, nil
}

// DeleteChore removes a chore by ID.
func (s *Store) DeleteChore(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.Chore{}, id)
	if result.Error != nil {
		return wrapErr("delete chore", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
