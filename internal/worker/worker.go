package worker

import (
	"context"

	"storefront-gateway/internal/broker"
	"storefront-gateway/internal/chat"
	"storefront-gateway/internal/models"
	"storefront-gateway/internal/util"

	"go.uber.org/zap"
)

// ChatWorker feeds inbound conversation events to the chat bridge
type ChatWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	bridge       *chat.Bridge
}

// NewChatWorker creates a chat worker
func NewChatWorker(consumer *broker.Consumer, bridge *chat.Bridge) *ChatWorker {
	eventHandler := broker.NewEventHandler()

	eventHandler.OnChatMessage(func(ctx context.Context, event *models.ChatMessageEvent) error {
		bridge.HandleMessage(models.ChatMessage{
			Sender:    event.Sender,
			Content:   event.Content,
			CreatedAt: event.CreatedAt,
		})
		return nil
	})

	eventHandler.OnChatHistory(func(ctx context.Context, event *models.ChatHistoryEvent) error {
		bridge.HandleHistory(event.Messages)
		return nil
	})

	return &ChatWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		bridge:       bridge,
	}
}

// Start starts the worker
func (w *ChatWorker) Start(ctx context.Context) error {
	util.GetLogger().Info("Starting chat worker")
	w.bridge.HandleConnect()
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *ChatWorker) Stop() error {
	util.GetLogger().Info("Stopping chat worker")
	return w.consumer.Close()
}

// SnapshotInvalidator drops a cached tracking snapshot
type SnapshotInvalidator interface {
	InvalidateOrder(ctx context.Context, orderID int64) error
}

// PendingRefresher triggers an immediate pending-order counter refresh
type PendingRefresher interface {
	RefreshPending(ctx context.Context)
}

// StatusWorker reconciles the streamed order-state feed with the
// polled counters: a status change invalidates the cached snapshot
// and refreshes the pending counter without waiting for the next poll
type StatusWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
}

// NewStatusWorker creates a status worker. cache may be nil when no
// snapshot cache is configured.
func NewStatusWorker(consumer *broker.Consumer, cache SnapshotInvalidator, refresher PendingRefresher) *StatusWorker {
	logger := util.GetLogger()
	eventHandler := broker.NewEventHandler()

	eventHandler.OnOrderStatusChanged(func(ctx context.Context, event *models.OrderStatusChangedEvent) error {
		logger.Info("Order status changed",
			zap.Int64("order_id", event.OrderID),
			zap.String("old_status", event.OldStatus),
			zap.String("new_status", event.NewStatus))

		if cache != nil {
			if err := cache.InvalidateOrder(ctx, event.OrderID); err != nil {
				logger.Warn("Failed to invalidate snapshot",
					zap.Int64("order_id", event.OrderID),
					zap.Error(err))
			}
		}

		refresher.RefreshPending(ctx)
		return nil
	})

	return &StatusWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
	}
}

// Start starts the worker
func (w *StatusWorker) Start(ctx context.Context) error {
	util.GetLogger().Info("Starting status worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *StatusWorker) Stop() error {
	util.GetLogger().Info("Stopping status worker")
	return w.consumer.Close()
}
