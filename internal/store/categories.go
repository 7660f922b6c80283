package store

import (
	"context"

	"ecal/internal/model"
)

// CategoryUpdate carries the fields of a partial category update.
type CategoryUpdate struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

// CreateCategory inserts a new category.
func (s *Store) CreateCategory(ctx context.Context, cat *model.Category) error {
	if cat.Color == "" {
		cat.Color = "#6366f1"
	}
	if err := s.db.WithContext(ctx).Create(cat).Error; err != nil {
		return wrapErr("create category", err)
	}
	return nil
}

// GetCategory retrieves a category by ID.
func (s *Store) GetCategory(ctx context.Context, id uint) (*model.Category, error) {
	var cat model.Category
	if err := s.db.WithContext(ctx).First(&cat, id).Error; err != nil {
		return nil, wrapErr("get category", err)
	}
	return &cat, nil
}

// ListCategories returns all categories ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]model.Category, error) {
	var cats []model.Category
	if err := s.db.WithContext(ctx).Order("name").Find(&cats).Error; err != nil {
		return nil, wrapErr("list categories", err)
	}
	return cats, nil
}

// UpdateCategory applies the non-nil fields of upd to the category.
func (s *Store) UpdateCategory(ctx context.Context, id uint, upd CategoryUpdate) (*model.Category, error) {
	cat, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		cat.Name = *upd.Name
	}
	if upd.Color != nil {
		cat.Color = *upd.Color
	}

	if err := s.db.WithContext(ctx).Save(cat).Error; err != nil {
		return nil, wrapErr("update category", err)
	}
	return cat, nil
}

// DeleteCategory removes a category by ID. References from events,
// chores and lists are weak and left untouched.
func (s *Store) DeleteCategory(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.Category{}, id)
	if result.Error != nil {
		return wrapErr("delete category", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
