package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/conversation-service/internal/api/dto"
	"github.com/spec-kit/conversation-service/internal/api/routing"
	"github.com/spec-kit/conversation-service/internal/domain"
	"github.com/spec-kit/conversation-service/internal/service"
)

// ResolutionsHandler manages resolution workflow endpoints.
type ResolutionsHandler struct {
	service *service.ResolutionService
}

// NewResolutionsHandler constructs handler.
func NewResolutionsHandler(resolutionService *service.ResolutionService) *ResolutionsHandler {
	return &ResolutionsHandler{service: resolutionService}
}

// Create POST /api/resolutions.
func (h *ResolutionsHandler) Create(c *fiber.Ctx, _ routing.Params) error {
	var req dto.CreateResolutionRequest
	parseBody(c, &req)

	resolution, err := h.service.Create(c.Context(), service.ResolutionCreateInput{
		ConversationID: req.ConversationID,
		Title:          req.Title,
		Description:    req.Description,
		IssueType:      req.IssueType,
		Priority:       req.Priority,
	})
	if err != nil {
		return err
	}
	return respondData(c, http.StatusCreated, resolutionResponse(resolution))
}

// List GET /api/resolutions.
func (h *ResolutionsHandler) List(c *fiber.Ctx, _ routing.Params) error {
	page := parsePage(c)
	resolutions, total, err := h.service.List(c.Context(), page)
	if err != nil {
		return err
	}
	items := make([]dto.ResolutionResponse, 0, len(resolutions))
	for i := range resolutions {
		items = append(items, resolutionResponse(&resolutions[i]))
	}
	return respondList(c, items, page, total)
}

// Get GET /api/resolutions/:id.
func (h *ResolutionsHandler) Get(c *fiber.Ctx, params routing.Params) error {
	resolution, err := h.service.Get(c.Context(), params["id"])
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, resolutionResponse(resolution))
}

// UpdateStatus PATCH /api/resolutions/:id/status.
func (h *ResolutionsHandler) UpdateStatus(c *fiber.Ctx, params routing.Params) error {
	var req dto.UpdateResolutionStatusRequest
	parseBody(c, &req)

	resolution, err := h.service.UpdateStatus(c.Context(), params["id"], service.ResolutionUpdateInput{
		Status:             req.Status,
		RootCause:          req.RootCause,
		AffectedSystems:    req.AffectedSystems,
		AssignedTeamID:     req.AssignedTeamID,
		AssignedEngineerID: req.AssignedEngineerID,
	})
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, resolutionResponse(resolution))
}

// Resolve POST /api/resolutions/:id/resolve.
func (h *ResolutionsHandler) Resolve(c *fiber.Ctx, params routing.Params) error {
	var req dto.ResolveResolutionRequest
	parseBody(c, &req)

	resolution, err := h.service.Resolve(c.Context(), params["id"], req.ResolutionNotes)
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, resolutionResponse(resolution))
}

func resolutionResponse(resolution *domain.Resolution) dto.ResolutionResponse {
	timeline := make([]dto.TimelineEntryResponse, 0, len(resolution.Timeline))
	for _, entry := range resolution.Timeline {
		timeline = append(timeline, dto.TimelineEntryResponse{
			Timestamp: entry.Timestamp,
			Event:     entry.Event,
		})
	}
	return dto.ResolutionResponse{
		ID:                 resolution.ID,
		ConversationID:     resolution.ConversationID,
		CustomerID:         resolution.CustomerID,
		Title:              resolution.Title,
		Description:        resolution.Description,
		IssueType:          resolution.IssueType,
		Priority:           resolution.Priority,
		Status:             resolution.Status,
		AssignedTeamID:     resolution.AssignedTeamID,
		AssignedEngineerID: resolution.AssignedEngineerID,
		RootCause:          resolution.RootCause,
		AffectedSystems:    resolution.AffectedSystems,
		Timeline:           timeline,
		CreatedAt:          resolution.CreatedAt,
		UpdatedAt:          resolution.UpdatedAt,
		ResolvedAt:         resolution.ResolvedAt,
	}
}
