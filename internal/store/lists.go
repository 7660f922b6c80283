package store

import (
	"context"

	"gorm.io/gorm"

	"ecal/internal/model"
)

// TodoListUpdate carries the fields of a partial list update.
type TodoListUpdate struct {
	Title      *string `json:"title"`
	Color      *string `json:"color"`
	CategoryID *uint   `json:"category_id"`
}

// TodoItemUpdate carries the fields of a partial item update.
type TodoItemUpdate struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
	SortOrder *int    `json:"sort_order"`
}

// CreateTodoList inserts a new list.
func (s *Store) CreateTodoList(ctx context.Context, list *model.TodoList) error {
	if err := s.db.WithContext(ctx).Create(list).Error; err != nil {
		return wrapErr("create list", err)
	}
	return nil
}

// GetTodoList retrieves a list by ID.
func (s *Store) GetTodoList(ctx context.Context, id uint) (*model.TodoList, error) {
	var list model.TodoList
	if err := s.db.WithContext(ctx).First(&list, id).Error; err != nil {
		return nil, wrapErr("get list", err)
	}
	return &list, nil
}

// ListTodoLists returns all lists, oldest first.
func (s *Store) ListTodoLists(ctx context.Context) ([]model.TodoList, error) {
	var lists []model.TodoList
	if err := s.db.WithContext(ctx).Order("created_at").Find(&lists).Error; err != nil {
		return nil, wrapErr("list lists", err)
	}
	return lists, nil
}

// UpdateTodoList applies the non-nil fields of upd to the list.
func (s *Store) UpdateTodoList(ctx context.Context, id uint, upd TodoListUpdate) (*model.TodoList, error) {
	list, err := s.GetTodoList(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		list.Title = *upd.Title
	}
	if upd.Color != nil {
		list.Color = upd.Color
	}
	if upd.CategoryID != nil {
		list.CategoryID = upd.CategoryID
	}

	if err := s.db.WithContext(ctx).Save(list).Error; err != nil {
		return nil, wrapErr("update list", err)
	}
	return list, nil
}

// DeleteTodoList removes a list and all of its items in one
// transaction. Deleting an empty list succeeds.
func (s *Store) DeleteTodoList(ctx context.Context, id uint) error {
	if _, err := s.GetTodoList(ctx, id); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("list_id = ?", id).Delete(&model.TodoItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.TodoList{}, id).Error
	})
	if err != nil {
		return wrapErr("delete list", err)
	}
	return nil
}

// CreateTodoItem inserts an item into the given list. The list must
// exist.
func (s *Store) CreateTodoItem(ctx context.Context, listID uint, item *model.TodoItem) error {
	if _, err := s.GetTodoList(ctx, listID); err != nil {
		return err
	}

	item.ListID = listID
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return wrapErr("create item", err)
	}
	return nil
}

// ListTodoItems returns a list's items in display order: sort_order,
// ties broken by ID.
func (s *Store) ListTodoItems(ctx context.Context, listID uint) ([]model.TodoItem, error) {
	var items []model.TodoItem
	err := s.db.WithContext(ctx).
		Where("list_id = ?", listID).
		Order("sort_order").
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, wrapErr("list items", err)
	}
	return items, nil
}

// getTodoItem retrieves an item scoped to its list.
func (s *Store) getTodoItem(ctx context.Context, listID, itemID uint) (*model.TodoItem, error) {
	var item model.TodoItem
	err := s.db.WithContext(ctx).
		Where("id = ? AND list_id = ?", itemID, listID).
		First(&item).Error
	if err != nil {
		return nil, wrapErr("get item", err)
	}
	return &item, nil
}

// UpdateTodoItem applies the non-nil fields of upd to an item of the
// given list.
func (s *Store) UpdateTodoItem(ctx context.Context, listID, itemID uint, upd TodoItemUpdate) (*model.TodoItem, error) {
	item, err := s.getTodoItem(ctx, listID, itemID)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		item.Title = *upd.Title
	}
	if upd.Completed != nil {
		item.Completed = *upd.Completed
	}
	if upd.SortOrder != nil {
		item.SortOrder = *upd.SortOrder
	}

	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, wrapErr("update item", err)
	}
	return item, nil
}

// DeleteTodoItem removes an item scoped to its list.
func (s *Store) DeleteTodoItem(ctx context.Context, listID, itemID uint) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND list_id = ?", itemID, listID).
		Delete(&model.TodoItem{})
	if result.Error != nil {
		return wrapErr("delete item", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
