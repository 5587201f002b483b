// Package api defines the remote todo service contract consumed by the client.
package api

import (
	"context"
	"errors"

	"github.com/idilsaglam/tada/internal/model"
)

// Service is the typed request/response contract of the remote todo API.
// Implementations live in the trpc, grpcapi and memory subpackages.
type Service interface {
	// GetAll returns todos whose status is in statuses, in service order.
	// An empty statuses slice means no filter.
	GetAll(ctx context.Context, statuses []model.Status) ([]model.Todo, error)
	Create(ctx context.Context, body string) (model.Todo, error)
	UpdateStatus(ctx context.Context, id int64, status model.Status) (model.Todo, error)
	Delete(ctx context.Context, id int64) error
}

// Sentinel errors transports map their failures onto.
var (
	ErrNotFound        = errors.New("todo not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnavailable     = errors.New("service unavailable")
)
