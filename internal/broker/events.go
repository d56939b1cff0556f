package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"storefront-gateway/internal/models"
	"storefront-gateway/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher publishes outbound conversation messages
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates an event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishChatMessage publishes an outbound customer message
func (ep *EventPublisher) PublishChatMessage(ctx context.Context, event *models.ChatMessageEvent) error {
	key := event.ConversationID
	if key == "" {
		key = event.EventID
	}
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler routes inbound events to registered handlers
type EventHandler struct {
	logger *zap.Logger

	onChatMessage        func(context.Context, *models.ChatMessageEvent) error
	onChatHistory        func(context.Context, *models.ChatHistoryEvent) error
	onOrderStatusChanged func(context.Context, *models.OrderStatusChangedEvent) error
}

// NewEventHandler creates an event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.GetLogger()}
}

// OnChatMessage registers a handler for live conversation messages
func (eh *EventHandler) OnChatMessage(handler func(context.Context, *models.ChatMessageEvent) error) {
	eh.onChatMessage = handler
}

// OnChatHistory registers a handler for conversation history replays
func (eh *EventHandler) OnChatHistory(handler func(context.Context, *models.ChatHistoryEvent) error) {
	eh.onChatHistory = handler
}

// OnOrderStatusChanged registers a handler for order status changes
func (eh *EventHandler) OnOrderStatusChanged(handler func(context.Context, *models.OrderStatusChangedEvent) error) {
	eh.onOrderStatusChanged = handler
}

// HandleMessage routes one consumed message to the matching handler
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeChatMessage:
		if eh.onChatMessage != nil {
			var event models.ChatMessageEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal chat message event: %w", err)
			}
			return eh.onChatMessage(ctx, &event)
		}

	case models.EventTypeChatHistory:
		if eh.onChatHistory != nil {
			var event models.ChatHistoryEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal chat history event: %w", err)
			}
			return eh.onChatHistory(ctx, &event)
		}

	case models.EventTypeOrderStatusChanged:
		if eh.onOrderStatusChanged != nil {
			var event models.OrderStatusChangedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal order status event: %w", err)
			}
			return eh.onOrderStatusChanged(ctx, &event)
		}

	default:
		eh.logger.Debug("Unhandled event type", zap.String("type", baseEvent.EventType))
	}

	return nil
}
