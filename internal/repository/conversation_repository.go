package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/spec-kit/conversation-service/internal/domain"
)

// ConversationFilter captures list parameters. States and Severities are
// OR-sets within a field and AND across fields.
type ConversationFilter struct {
	States     []domain.ConversationState
	Severities []domain.Severity
	Page       Page
}

// ConversationRepository encapsulates conversation persistence.
type ConversationRepository interface {
	Create(ctx context.Context, conversation *domain.Conversation) error
	Update(ctx context.Context, conversation *domain.Conversation) error
	GetByID(ctx context.Context, id string) (*domain.Conversation, error)
	// ListWithFilter returns the page of matching conversations ordered by
	// severity ascending (P0 first, unknown last) and the total match count.
	ListWithFilter(ctx context.Context, filter ConversationFilter) ([]domain.Conversation, int, error)
}

type memoryConversationRepository struct {
	mu    sync.RWMutex
	items map[string]*domain.Conversation
	order []string
}

// NewMemoryConversationRepository builds the in-process backend. Mutations
// are serialized by the lock, so a multi-field update is atomic with respect
// to other requests.
func NewMemoryConversationRepository() ConversationRepository {
	return &memoryConversationRepository{items: make(map[string]*domain.Conversation)}
}

func (r *memoryConversationRepository) Create(_ context.Context, conversation *domain.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *conversation
	r.items[conversation.ID] = &stored
	r.order = append(r.order, conversation.ID)
	return nil
}

func (r *memoryConversationRepository) Update(_ context.Context, conversation *domain.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[conversation.ID]; !ok {
		return ErrNotFound
	}
	stored := *conversation
	r.items[conversation.ID] = &stored
	return nil
}

func (r *memoryConversationRepository) GetByID(_ context.Context, id string) (*domain.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *stored
	return &copied, nil
}

func (r *memoryConversationRepository) ListWithFilter(_ context.Context, filter ConversationFilter) ([]domain.Conversation, int, error) {
	r.mu.RLock()
	matched := make([]domain.Conversation, 0, len(r.order))
	for _, id := range r.order {
		conversation := r.items[id]
		if !matchesFilter(conversation, filter) {
			continue
		}
		matched = append(matched, *conversation)
	}
	r.mu.RUnlock()

	// Stable keeps creation order within a severity tier.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Severity.Rank() < matched[j].Severity.Rank()
	})

	total := len(matched)
	from, to := filter.Page.Slice(total)
	return matched[from:to], total, nil
}

func matchesFilter(conversation *domain.Conversation, filter ConversationFilter) bool {
	if len(filter.States) > 0 {
		found := false
		for _, state := range filter.States {
			if conversation.State == state {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(filter.Severities) > 0 {
		found := false
		for _, severity := range filter.Severities {
			if conversation.Severity == severity {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
