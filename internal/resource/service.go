package resource

import (
	"context"
	"errors"

	"github.com/me/folio/pkg/model"
)

// ErrUnsupported is returned for an operation a service does not offer.
var ErrUnsupported = errors.New("resource: operation not supported")

// Service is the set of REST calls an Engine drives. F is the list filter
// type and D the create/update payload.
type Service[T model.Item, F any, D any] interface {
	List(ctx context.Context, filter F) (*model.Page[T], error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, data D) (T, error)
	Update(ctx context.Context, id string, data D) (T, error)
	Delete(ctx context.Context, id string) error
}

// Funcs adapts plain functions to Service. A nil field makes that
// operation fail with ErrUnsupported.
type Funcs[T model.Item, F any, D any] struct {
	ListFunc   func(ctx context.Context, filter F) (*model.Page[T], error)
	GetFunc    func(ctx context.Context, id string) (T, error)
	CreateFunc func(ctx context.Context, data D) (T, error)
	UpdateFunc func(ctx context.Context, id string, data D) (T, error)
	DeleteFunc func(ctx context.Context, id string) error
}

func (f Funcs[T, F, D]) List(ctx context.Context, filter F) (*model.Page[T], error) {
	if f.ListFunc == nil {
		return nil, ErrUnsupported
	}
	return f.ListFunc(ctx, filter)
}

func (f Funcs[T, F, D]) Get(ctx context.Context, id string) (T, error) {
	if f.GetFunc == nil {
		var zero T
		return zero, ErrUnsupported
	}
	return f.GetFunc(ctx, id)
}

func (f Funcs[T, F, D]) Create(ctx context.Context, data D) (T, error) {
	if f.CreateFunc == nil {
		var zero T
		return zero, ErrUnsupported
	}
	return f.CreateFunc(ctx, data)
}

func (f Funcs[T, F, D]) Update(ctx context.Context, id string, data D) (T, error) {
	if f.UpdateFunc == nil {
		var zero T
		return zero, ErrUnsupported
	}
	return f.UpdateFunc(ctx, id, data)
}

func (f Funcs[T, F, D]) Delete(ctx context.Context, id string) error {
	if f.DeleteFunc == nil {
		return ErrUnsupported
	}
	return f.DeleteFunc(ctx, id)
}
