package repository

import (
	"context"
	"sync"

	"github.com/spec-kit/conversation-service/internal/domain"
)

// MessageRepository stores the append-only message sequence per
// conversation. Insertion order is chronological order.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	ListByConversation(ctx context.Context, conversationID string) ([]domain.Message, error)
	CountByConversation(ctx context.Context, conversationID string) (int, error)
}

type memoryMessageRepository struct {
	mu             sync.RWMutex
	byConversation map[string][]domain.Message
}

// NewMemoryMessageRepository builds the in-process backend.
func NewMemoryMessageRepository() MessageRepository {
	return &memoryMessageRepository{byConversation: make(map[string][]domain.Message)}
}

func (r *memoryMessageRepository) Create(_ context.Context, message *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byConversation[message.ConversationID] = append(r.byConversation[message.ConversationID], *message)
	return nil
}

func (r *memoryMessageRepository) ListByConversation(_ context.Context, conversationID string) ([]domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored := r.byConversation[conversationID]
	messages := make([]domain.Message, len(stored))
	copy(messages, stored)
	return messages, nil
}

func (r *memoryMessageRepository) CountByConversation(_ context.Context, conversationID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byConversation[conversationID]), nil
}
