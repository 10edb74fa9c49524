package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/crm-service/internal/config"
	"github.com/spec-kit/crm-service/internal/events"
	"github.com/spec-kit/crm-service/internal/repository"
)

// Publisher delivers a payload on a named channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// Notification is the message published to the sink.
type Notification struct {
	WorkerID int64     `json:"worker_id"`
	Message  string    `json:"message"`
	EventID  string    `json:"event_id,omitempty"`
	SentAt   time.Time `json:"sent_at"`
}

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	workers    repository.WorkerRepository
	publisher  Publisher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service. A nil publisher logs only.
func NewNotificationService(dispatcher events.Dispatcher, workers repository.WorkerRepository, publisher Publisher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		workers:    workers,
		publisher:  publisher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to ticket events and returns the subscribed
// event types.
func (n *NotificationService) RegisterHandlers() []events.EventType {
	if n.dispatcher == nil {
		return nil
	}
	subscriptions := []struct {
		eventType events.EventType
		handler   events.EventHandler
	}{
		{events.EventTicketCreated, n.handleTicketCreated},
		{events.EventTicketStatusChanged, n.handleTicketStatusChanged},
		{events.EventTicketAssigned, n.handleTicketAssigned},
	}
	subscribed := make([]events.EventType, 0, len(subscriptions))
	for _, sub := range subscriptions {
		n.dispatcher.Subscribe(sub.eventType, sub.handler)
		subscribed = append(subscribed, sub.eventType)
	}
	return subscribed
}

// Channel is the pub/sub channel notifications are published on.
func (n *NotificationService) Channel() string {
	return n.cfg.RedisChannel
}

// Notify logs message for the worker and publishes it best-effort. It never
// reports failure to the caller.
func (n *NotificationService) Notify(ctx context.Context, workerID int64, message string) {
	n.notify(ctx, workerID, message, "")
}

func (n *NotificationService) notify(ctx context.Context, workerID int64, message, eventID string) {
	worker, err := n.workers.GetByID(ctx, workerID)
	if err != nil {
		n.logger.Error("notification recipient not found", zap.Int64("worker_id", workerID), zap.Error(err))
		return
	}
	n.logger.Info("notification",
		zap.Int64("worker_id", worker.ID),
		zap.String("email", worker.Email),
		zap.String("message", message),
	)
	if n.publisher == nil || n.cfg.RedisChannel == "" {
		return
	}
	payload, err := json.Marshal(Notification{WorkerID: worker.ID, Message: message, EventID: eventID, SentAt: time.Now().UTC()})
	if err != nil {
		n.logger.Warn("notification encode failed", zap.Error(err))
		return
	}
	if err := n.publisher.Publish(ctx, n.cfg.RedisChannel, payload); err != nil {
		n.logger.Warn("notification publish failed",
			zap.String("channel", n.cfg.RedisChannel),
			zap.Int64("worker_id", worker.ID),
			zap.Error(err),
		)
	}
}

func (n *NotificationService) handleTicketCreated(_ context.Context, event events.Event) error {
	n.logger.Info("TicketCreated", zap.Int64("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleTicketStatusChanged(_ context.Context, event events.Event) error {
	n.logger.Info("TicketStatusChanged", zap.Int64("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleTicketAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketAssignedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	message := fmt.Sprintf("Ticket %d assigned to %s", event.TicketID, payload.WorkerFirstName)
	n.notify(ctx, payload.WorkerID, message, event.ID)
	return nil
}
