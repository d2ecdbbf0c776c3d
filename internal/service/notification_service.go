package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/conversation-service/internal/config"
	"github.com/spec-kit/conversation-service/internal/events"
)

// NotificationService bridges domain events to external collaborators. The
// swarm notifier and channel adapters live outside this service; here the
// events are logged and the configured webhook target is recorded, never
// called.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService constructs the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, logger: logger, cfg: cfg}
}

// RegisterHandlers subscribes to the events external collaborators care
// about.
func (s *NotificationService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventConversationEscalated,
		events.EventConversationResolved,
		events.EventResolutionCreated,
		events.EventResolutionStatusChanged,
		events.EventResolutionResolved,
	} {
		s.dispatcher.Subscribe(eventType, s.handleEvent)
	}
}

func (s *NotificationService) handleEvent(_ context.Context, event events.Event) error {
	s.logger.Info("notification",
		zap.String("event", string(event.Type)),
		zap.String("conversation_id", event.ConversationID),
		zap.String("resolution_id", event.ResolutionID),
		zap.String("swarm_webhook", s.cfg.SwarmWebhookURL),
	)
	return nil
}
