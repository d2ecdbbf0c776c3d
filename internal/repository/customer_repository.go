package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/spec-kit/conversation-service/internal/domain"
)

// CustomerRepository encapsulates customer persistence.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	List(ctx context.Context, page Page) ([]domain.Customer, int, error)
}

type memoryCustomerRepository struct {
	mu      sync.RWMutex
	items   map[string]*domain.Customer
	byEmail map[string]string
	order   []string
}

// NewMemoryCustomerRepository builds the in-process backend.
func NewMemoryCustomerRepository() CustomerRepository {
	return &memoryCustomerRepository{
		items:   make(map[string]*domain.Customer),
		byEmail: make(map[string]string),
	}
}

func (r *memoryCustomerRepository) Create(_ context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *customer
	r.items[customer.ID] = &stored
	if customer.Email != "" {
		r.byEmail[strings.ToLower(customer.Email)] = customer.ID
	}
	r.order = append(r.order, customer.ID)
	return nil
}

func (r *memoryCustomerRepository) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *stored
	return &copied, nil
}

func (r *memoryCustomerRepository) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *r.items[id]
	return &copied, nil
}

func (r *memoryCustomerRepository) List(_ context.Context, page Page) ([]domain.Customer, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := len(r.order)
	from, to := page.Slice(total)
	customers := make([]domain.Customer, 0, to-from)
	for _, id := range r.order[from:to] {
		customers = append(customers, *r.items[id])
	}
	return customers, total, nil
}
