package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/events"
)

type notifyChannel uint8

const (
	channelEmail notifyChannel = 1 << iota
	channelWebhook
)

type notificationRule struct {
	name     string
	channels notifyChannel
}

var notificationRules = map[events.EventType]notificationRule{
	events.EventTicketCreated:       {name: "TicketCreated", channels: channelEmail | channelWebhook},
	events.EventTicketStatusChanged: {name: "TicketStatusChanged", channels: channelWebhook},
	events.EventTicketMessageAdded:  {name: "TicketMessageAdded", channels: channelEmail},
	events.EventTicketDeleted:       {name: "TicketDeleted", channels: channelWebhook},
}

// NotificationService turns ticket events into customer and integration
// notifications. Delivery is stubbed out as debug log entries.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events for inline delivery.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for eventType := range notificationRules {
		n.dispatcher.Subscribe(eventType, n.Handle)
	}
}

// Handle notifies about a single event. Unknown types are ignored.
func (n *NotificationService) Handle(ctx context.Context, event events.Event) error {
	rule, ok := notificationRules[event.Type]
	if !ok {
		return nil
	}
	n.logger.Info(rule.name,
		zap.String("ticket_id", event.TicketID),
		zap.String("ticket_key", event.TicketKey),
		zap.Any("payload", event.Payload))

	subject := notificationSubject(event)
	if rule.channels&channelEmail != 0 {
		n.sendEmail(ctx, event, subject)
	}
	if rule.channels&channelWebhook != 0 {
		n.sendWebhook(ctx, event, subject)
	}
	return nil
}

func (n *NotificationService) sendEmail(_ context.Context, event events.Event, subject string) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("email notification",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("subject", subject),
		zap.String("ticket_id", event.TicketID))
}

func (n *NotificationService) sendWebhook(_ context.Context, event events.Event, subject string) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("webhook notification",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_type", string(event.Type)),
		zap.String("subject", subject),
		zap.String("ticket_id", event.TicketID))
}

func notificationSubject(event events.Event) string {
	key := event.TicketKey
	if key == "" {
		key = event.TicketID
	}
	switch payload := event.Payload.(type) {
	case events.TicketCreatedPayload:
		return fmt.Sprintf("Ticket %s opened (%s)", key, payload.TicketType)
	case events.TicketStatusChangedPayload:
		return fmt.Sprintf("Ticket %s is now %s", key, payload.NewStatus)
	case events.TicketMessageAddedPayload:
		return fmt.Sprintf("New reply on ticket %s from %s", key, payload.CommentBy)
	case events.TicketDeletedPayload:
		return fmt.Sprintf("Ticket %s deleted", key)
	}
	return fmt.Sprintf("Ticket %s updated", key)
}
