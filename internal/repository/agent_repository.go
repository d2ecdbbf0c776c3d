package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/spec-kit/conversation-service/internal/domain"
)

// AgentRepository holds the login table for support agents.
type AgentRepository interface {
	Create(ctx context.Context, agent *domain.Agent) error
	GetByID(ctx context.Context, id string) (*domain.Agent, error)
	GetByEmail(ctx context.Context, email string) (*domain.Agent, error)
}

type memoryAgentRepository struct {
	mu      sync.RWMutex
	items   map[string]*domain.Agent
	byEmail map[string]string
}

// NewMemoryAgentRepository builds the in-process backend.
func NewMemoryAgentRepository() AgentRepository {
	return &memoryAgentRepository{
		items:   make(map[string]*domain.Agent),
		byEmail: make(map[string]string),
	}
}

func (r *memoryAgentRepository) Create(_ context.Context, agent *domain.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *agent
	r.items[agent.ID] = &stored
	r.byEmail[strings.ToLower(agent.Email)] = agent.ID
	return nil
}

func (r *memoryAgentRepository) GetByID(_ context.Context, id string) (*domain.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *stored
	return &copied, nil
}

func (r *memoryAgentRepository) GetByEmail(_ context.Context, email string) (*domain.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *r.items[id]
	return &copied, nil
}
