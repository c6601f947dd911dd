package resource

import (
	"slices"

	"github.com/me/folio/pkg/model"
)

// State is an immutable snapshot of an Engine.
type State[T model.Item] struct {
	// List is the current page, in server order.
	List []T

	// Detail is the item behind edit/detail views, or nil.
	Detail *T

	// Pagination is the metadata of the last successful list fetch.
	Pagination *model.Pagination

	ListStatus   Status
	DetailStatus Status
	SaveStatus   Status
	DeleteStatus Status

	ListError   string
	DetailError string
	SaveError   string
	DeleteError string

	LastDeleteSucceeded bool
}

// Status returns the status of kind.
func (s State[T]) Status(kind Kind) Status {
	switch kind {
	case KindList:
		return s.ListStatus
	case KindDetail:
		return s.DetailStatus
	case KindSave:
		return s.SaveStatus
	case KindDelete:
		return s.DeleteStatus
	}
	return StatusIdle
}

// Err returns the error message of kind.
func (s State[T]) Err(kind Kind) string {
	switch kind {
	case KindList:
		return s.ListError
	case KindDetail:
		return s.DetailError
	case KindSave:
		return s.SaveError
	case KindDelete:
		return s.DeleteError
	}
	return ""
}

// Loading reports whether any operation is pending.
func (s State[T]) Loading() bool {
	return s.ListStatus == StatusPending || s.DetailStatus == StatusPending ||
		s.SaveStatus == StatusPending || s.DeleteStatus == StatusPending
}

// Find returns the list item with id.
func (s State[T]) Find(id string) (T, bool) {
	i := slices.IndexFunc(s.List, func(it T) bool { return it.ItemID() == id })
	if i < 0 {
		var zero T
		return zero, false
	}
	return s.List[i], true
}

// Empty reports whether a successful list fetch returned nothing.
func (s State[T]) Empty() bool {
	return s.ListStatus == StatusSucceeded && len(s.List) == 0
}

func (s State[T]) clone() State[T] {
	c := s
	c.List = slices.Clone(s.List)
	if s.Detail != nil {
		d := *s.Detail
		c.Detail = &d
	}
	if s.Pagination != nil {
		p := *s.Pagination
		c.Pagination = &p
	}
	return c
}
