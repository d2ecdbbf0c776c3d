package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/conversation-service/internal/api/dto"
	"github.com/spec-kit/conversation-service/internal/api/routing"
	"github.com/spec-kit/conversation-service/internal/domain"
	"github.com/spec-kit/conversation-service/internal/service"
)

// CustomersHandler manages customer endpoints.
type CustomersHandler struct {
	service *service.CustomerService
}

// NewCustomersHandler constructs handler.
func NewCustomersHandler(customerService *service.CustomerService) *CustomersHandler {
	return &CustomersHandler{service: customerService}
}

// Create POST /api/customers.
func (h *CustomersHandler) Create(c *fiber.Ctx, _ routing.Params) error {
	var req dto.CreateCustomerRequest
	parseBody(c, &req)

	customer, err := h.service.Create(c.Context(), service.CustomerCreateInput{
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Tier:    req.Tier,
	})
	if err != nil {
		return err
	}
	return respondData(c, http.StatusCreated, customerResponse(customer))
}

// List GET /api/customers.
func (h *CustomersHandler) List(c *fiber.Ctx, _ routing.Params) error {
	page := parsePage(c)
	customers, total, err := h.service.List(c.Context(), page)
	if err != nil {
		return err
	}
	items := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		items = append(items, customerResponse(&customers[i]))
	}
	return respondList(c, items, page, total)
}

// Get GET /api/customers/:id.
func (h *CustomersHandler) Get(c *fiber.Ctx, params routing.Params) error {
	customer, err := h.service.Get(c.Context(), params["id"])
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, customerResponse(customer))
}

func customerResponse(customer *domain.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:        customer.ID,
		Name:      customer.Name,
		Email:     customer.Email,
		Company:   customer.Company,
		Tier:      customer.Tier,
		CreatedAt: customer.CreatedAt,
	}
}
