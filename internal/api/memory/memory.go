// Package memory is an in-process todo service used for offline runs and tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/idilsaglam/tada/internal/api"
	"github.com/idilsaglam/tada/internal/model"
)

// Service keeps todos in creation order behind a mutex.
type Service struct {
	mu    sync.Mutex
	next  int64
	items []model.Todo
}

// New returns a service holding a copy of seed. Ids continue after the
// highest seeded id.
func New(seed ...model.Todo) *Service {
	s := &Service{next: 1}
	for _, t := range seed {
		s.items = append(s.items, t)
		if t.ID >= s.next {
			s.next = t.ID + 1
		}
	}
	return s
}

var _ api.Service = (*Service)(nil)

func (s *Service) GetAll(ctx context.Context, statuses []model.Status) ([]model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Todo, 0, len(s.items))
	for _, t := range s.items {
		if len(statuses) == 0 || slices.Contains(statuses, t.Status) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, body string) (model.Todo, error) {
	body, err := model.ValidateBody(body)
	if err != nil {
		return model.Todo{}, fmt.Errorf("create: %w: %v", api.ErrInvalidArgument, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := model.Todo{ID: s.next, Body: body, Status: model.StatusPending}
	s.next++
	s.items = append(s.items, t)
	return t, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, status model.Status) (model.Todo, error) {
	if !status.Valid() {
		return model.Todo{}, fmt.Errorf("update status: %w: status %q", api.ErrInvalidArgument, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Todo{}, fmt.Errorf("update status %d: %w", id, api.ErrNotFound)
	}
	s.items[i].Status = status
	return s.items[i], nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("delete %d: %w", id, api.ErrNotFound)
	}
	s.items = slices.Delete(s.items, i, i+1)
	return nil
}

func (s *Service) indexOf(id int64) int {
	return slices.IndexFunc(s.items, func(t model.Todo) bool { return t.ID == id })
}
