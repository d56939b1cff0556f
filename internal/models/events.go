package models

import "time"

// Event types
const (
	EventTypeChatMessage        = "CHAT_MESSAGE"
	EventTypeChatHistory        = "CHAT_HISTORY"
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatMessageEvent carries one live conversation message
type ChatMessageEvent struct {
	BaseEvent
	ConversationID string `json:"conversation_id"`
	Sender         string `json:"sender"`
	Content        string `json:"content"`
	CreatedAt      string `json:"created_at"`
}

// ChatHistoryEvent carries a bulk replay of a conversation,
// ordered oldest to newest
type ChatHistoryEvent struct {
	BaseEvent
	ConversationID string        `json:"conversation_id"`
	Messages       []ChatMessage `json:"messages"`
}

// OrderStatusChangedEvent published by the backend when an order
// moves to a new status
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID   int64  `json:"order_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}
