package client

import (
	"context"
	"fmt"
)

// Confirmer asks the operator a yes/no question
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm calls f
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) { return f(ctx, prompt) }

// ListView is the visible page of a list screen
type ListView[T any] struct {
	Items []T
	Total int64
	// ID extracts the record ID of an item
	ID func(T) int64
}

// NewListView wraps a page for display
func NewListView[T any](page *Page[T], id func(T) int64) *ListView[T] {
	return &ListView[T]{Items: page.Items, Total: page.Meta.Total, ID: id}
}

// Remove drops the item with the given ID
func (v *ListView[T]) Remove(id int64) bool {
	for i, item := range v.Items {
		if v.ID(item) == id {
			v.Items = append(v.Items[:i], v.Items[i+1:]...)
			if v.Total > 0 {
				v.Total--
			}
			return true
		}
	}
	return false
}

// ConfirmDelete asks before deleting the record id through the delete mode.
// Nothing is sent unless the confirmer answers yes; a successful delete
// removes the row from view. It reports whether the record was deleted.
func ConfirmDelete[T any](ctx context.Context, svc *Service[T], confirm Confirmer, view *ListView[T], id int64, label string, params any) (bool, error) {
	ok, err := confirm.Confirm(ctx, fmt.Sprintf("Delete %s? This cannot be undone.", label))
	if err != nil || !ok {
		return false, err
	}
	if _, err := svc.Delete(ctx, params); err != nil {
		return false, err
	}
	if view != nil {
		view.Remove(id)
	}
	svc.c.notifier.Notify(Notification{Level: LevelSuccess, Message: label + " deleted"})
	return true, nil
}
