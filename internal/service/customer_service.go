package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spec-kit/conversation-service/internal/domain"
	"github.com/spec-kit/conversation-service/internal/repository"
	apperrors "github.com/spec-kit/conversation-service/pkg/util"
)

// CustomerService manages the immutable customer identity records.
type CustomerService struct {
	customers repository.CustomerRepository
}

// NewCustomerService constructs the service.
func NewCustomerService(customers repository.CustomerRepository) *CustomerService {
	return &CustomerService{customers: customers}
}

// CustomerCreateInput describes customer creation payload.
type CustomerCreateInput struct {
	Name    string
	Email   string
	Company string
	Tier    domain.CustomerTier
}

// Create registers a customer.
func (s *CustomerService) Create(ctx context.Context, input CustomerCreateInput) (*domain.Customer, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	tier := input.Tier
	if tier == "" {
		tier = domain.TierStandard
	}
	customer := &domain.Customer{
		ID:        newID("cust"),
		Name:      name,
		Email:     strings.TrimSpace(input.Email),
		Company:   input.Company,
		Tier:      tier,
		CreatedAt: time.Now(),
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// Get fetches a customer by id.
func (s *CustomerService) Get(ctx context.Context, id string) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("customer", id)
		}
		return nil, err
	}
	return customer, nil
}

// List returns a page of customers with the total count.
func (s *CustomerService) List(ctx context.Context, page repository.Page) ([]domain.Customer, int, error) {
	return s.customers.List(ctx, page)
}
