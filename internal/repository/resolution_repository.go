package repository

import (
	"context"
	"sync"

	"github.com/spec-kit/conversation-service/internal/domain"
)

// ResolutionRepository encapsulates resolution persistence.
type ResolutionRepository interface {
	Create(ctx context.Context, resolution *domain.Resolution) error
	Update(ctx context.Context, resolution *domain.Resolution) error
	GetByID(ctx context.Context, id string) (*domain.Resolution, error)
	List(ctx context.Context, page Page) ([]domain.Resolution, int, error)
}

type memoryResolutionRepository struct {
	mu    sync.RWMutex
	items map[string]*domain.Resolution
	order []string
}

// NewMemoryResolutionRepository builds the in-process backend.
func NewMemoryResolutionRepository() ResolutionRepository {
	return &memoryResolutionRepository{items: make(map[string]*domain.Resolution)}
}

func (r *memoryResolutionRepository) Create(_ context.Context, resolution *domain.Resolution) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := cloneResolution(resolution)
	r.items[resolution.ID] = stored
	r.order = append(r.order, resolution.ID)
	return nil
}

func (r *memoryResolutionRepository) Update(_ context.Context, resolution *domain.Resolution) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[resolution.ID]; !ok {
		return ErrNotFound
	}
	r.items[resolution.ID] = cloneResolution(resolution)
	return nil
}

func (r *memoryResolutionRepository) GetByID(_ context.Context, id string) (*domain.Resolution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneResolution(stored), nil
}

func (r *memoryResolutionRepository) List(_ context.Context, page Page) ([]domain.Resolution, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := len(r.order)
	from, to := page.Slice(total)
	resolutions := make([]domain.Resolution, 0, to-from)
	for _, id := range r.order[from:to] {
		resolutions = append(resolutions, *cloneResolution(r.items[id]))
	}
	return resolutions, total, nil
}

// cloneResolution deep-copies the timeline so callers cannot mutate stored
// state through the returned slice.
func cloneResolution(resolution *domain.Resolution) *domain.Resolution {
	copied := *resolution
	copied.Timeline = make([]domain.TimelineEntry, len(resolution.Timeline))
	copy(copied.Timeline, resolution.Timeline)
	copied.AffectedSystems = append([]string(nil), resolution.AffectedSystems...)
	return &copied
}
