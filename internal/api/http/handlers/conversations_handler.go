package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/conversation-service/internal/api/dto"
	"github.com/spec-kit/conversation-service/internal/api/routing"
	"github.com/spec-kit/conversation-service/internal/domain"
	"github.com/spec-kit/conversation-service/internal/service"
)

// ConversationsHandler manages conversation lifecycle endpoints.
type ConversationsHandler struct {
	service *service.ConversationService
}

// NewConversationsHandler constructs handler.
func NewConversationsHandler(conversationService *service.ConversationService) *ConversationsHandler {
	return &ConversationsHandler{service: conversationService}
}

// Create POST /api/conversations.
func (h *ConversationsHandler) Create(c *fiber.Ctx, _ routing.Params) error {
	var req dto.CreateConversationRequest
	parseBody(c, &req)

	conversation, err := h.service.Create(c.Context(), service.ConversationCreateInput{
		CustomerID:     req.CustomerID,
		CustomerName:   req.CustomerName,
		CustomerEmail:  req.CustomerEmail,
		Channel:        req.Channel,
		Subject:        req.Subject,
		InitialMessage: req.InitialMessage,
		Severity:       req.Severity,
		Sentiment:      req.Sentiment,
		Intent:         req.Intent,
		Tags:           req.Tags,
	})
	if err != nil {
		return err
	}
	return respondData(c, http.StatusCreated, conversationResponse(conversation))
}

// List GET /api/conversations.
func (h *ConversationsHandler) List(c *fiber.Ctx, _ routing.Params) error {
	filter := service.ListFilter{Page: parsePage(c)}
	for _, state := range splitCSV(c.Query("state")) {
		filter.States = append(filter.States, domain.ConversationState(state))
	}
	for _, severity := range splitCSV(c.Query("severity")) {
		filter.Severities = append(filter.Severities, domain.Severity(severity))
	}

	conversations, total, err := h.service.List(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.ConversationResponse, 0, len(conversations))
	for i := range conversations {
		items = append(items, conversationResponse(&conversations[i]))
	}
	return respondList(c, items, filter.Page, total)
}

// Get GET /api/conversations/:id.
func (h *ConversationsHandler) Get(c *fiber.Ctx, params routing.Params) error {
	conversation, messages, err := h.service.Get(c.Context(), params["id"])
	if err != nil {
		return err
	}
	detail := dto.ConversationDetailResponse{
		ConversationResponse: conversationResponse(conversation),
		Messages:             messageResponses(messages),
	}
	return respondData(c, http.StatusOK, detail)
}

// PostMessage POST /api/conversations/:id/messages.
func (h *ConversationsHandler) PostMessage(c *fiber.Ctx, params routing.Params) error {
	var req dto.CreateMessageRequest
	parseBody(c, &req)

	message, _, err := h.service.PostMessage(c.Context(), params["id"], service.MessageInput{
		Channel:     req.Channel,
		Direction:   req.Direction,
		SenderType:  req.SenderType,
		SenderID:    req.SenderID,
		Content:     req.Content,
		ContentType: req.ContentType,
	})
	if err != nil {
		return err
	}
	return respondData(c, http.StatusCreated, messageResponse(message))
}

// Assign POST /api/conversations/:id/assign.
func (h *ConversationsHandler) Assign(c *fiber.Ctx, params routing.Params) error {
	var req dto.AssignRequest
	parseBody(c, &req)

	conversation, err := h.service.Assign(c.Context(), params["id"], req.AgentID, req.TeamID)
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, conversationResponse(conversation))
}

// Escalate POST /api/conversations/:id/escalate.
func (h *ConversationsHandler) Escalate(c *fiber.Ctx, params routing.Params) error {
	var req dto.EscalateRequest
	parseBody(c, &req)

	conversation, _, err := h.service.Escalate(c.Context(), params["id"], service.EscalateInput{
		Reason:           req.Reason,
		CreateResolution: req.CreateResolution,
		Priority:         req.Priority,
	})
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, dto.EscalateResponse{
		Conversation: conversationResponse(conversation),
		ResolutionID: conversation.ResolutionID,
	})
}

// Resolve POST /api/conversations/:id/resolve.
func (h *ConversationsHandler) Resolve(c *fiber.Ctx, params routing.Params) error {
	var req dto.ResolveConversationRequest
	parseBody(c, &req)

	conversation, err := h.service.Resolve(c.Context(), params["id"], req.ResolutionNotes)
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, conversationResponse(conversation))
}

func conversationResponse(conversation *domain.Conversation) dto.ConversationResponse {
	return dto.ConversationResponse{
		ID:              conversation.ID,
		CustomerID:      conversation.CustomerID,
		State:           conversation.State,
		Severity:        conversation.Severity,
		Sentiment:       conversation.Sentiment,
		Intent:          conversation.Intent,
		CurrentChannel:  conversation.CurrentChannel,
		ChannelsUsed:    conversation.ChannelsUsed,
		AssignedAgentID: conversation.AssignedAgentID,
		AssignedTeamID:  conversation.AssignedTeamID,
		Subject:         conversation.Subject,
		Tags:            conversation.Tags,
		SLA: dto.SLAResponse{
			FirstResponseDueAt: conversation.SLA.FirstResponseDueAt,
			ResolutionDueAt:    conversation.SLA.ResolutionDueAt,
			Breached:           conversation.SLA.Breached,
		},
		ResolutionID:  conversation.ResolutionID,
		MessageCount:  conversation.MessageCount,
		CreatedAt:     conversation.CreatedAt,
		UpdatedAt:     conversation.UpdatedAt,
		LastMessageAt: conversation.LastMessageAt,
		ResolvedAt:    conversation.ResolvedAt,
	}
}

func messageResponse(message *domain.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:             message.ID,
		ConversationID: message.ConversationID,
		Channel:        message.Channel,
		Direction:      message.Direction,
		SenderType:     message.SenderType,
		SenderID:       message.SenderID,
		Content:        message.Content,
		ContentType:    message.ContentType,
		Status:         message.Status,
		CreatedAt:      message.CreatedAt,
	}
}

func messageResponses(messages []domain.Message) []dto.MessageResponse {
	responses := make([]dto.MessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, messageResponse(&messages[i]))
	}
	return responses
}
