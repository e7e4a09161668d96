package ezstorage

import (
	"context"
	"fmt"
)

// Action selects the operation performed by Do.
type Action string

const (
	ActionEnabled Action = "enabled"
	ActionGet     Action = "get"
	ActionSet     Action = "set"
	ActionRemove  Action = "remove"
)

// Do dispatches to Enabled, Get, Set or Remove. key and value are ignored by
// the actions that take no such argument. The result is a bool for Enabled
// and Remove, the serialized text for Set and the stored value for Get.
func (s *Storage) Do(ctx context.Context, action Action, key string, value any, opts ...CallOption) (any, error) {
	switch action {
	case ActionEnabled:
		return s.Enabled(ctx), nil
	case ActionGet:
		return s.Get(ctx, key, opts...)
	case ActionSet:
		return s.Set(ctx, key, value, opts...)
	case ActionRemove:
		return s.Remove(ctx, key, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
}
