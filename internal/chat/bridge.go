package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"storefront-gateway/internal/models"
	"storefront-gateway/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RedirectMarker is the directive the bot embeds in a message to send
// the customer to the storefront. Substring match, no escaping: a
// literal occurrence in ordinary text is indistinguishable from a
// command. Kept for wire compatibility with the backend.
const RedirectMarker = "[redirect:loja]"

// StorefrontRoute is where a redirect directive navigates to
const StorefrontRoute = "/loja"

// DefaultRedirectDelay is how long after a redirect directive the
// navigation fires
const DefaultRedirectDelay = 2 * time.Second

// ViewEvent types
const (
	EventAppend   = "append"
	EventTyping   = "typing"
	EventNavigate = "navigate"
)

// RenderedMessage is a display-ready conversation message
type RenderedMessage struct {
	Sender     string `json:"sender"`
	HTML       string `json:"html"`
	Time       string `json:"time"`
	Historical bool   `json:"historical"`
}

// ViewEvent is what the bridge emits to presentation consumers
type ViewEvent struct {
	Type    string           `json:"type"`
	Message *RenderedMessage `json:"message,omitempty"`
	Typing  bool             `json:"typing,omitempty"`
	Route   string           `json:"route,omitempty"`
}

// Subscription is one consumer's ordered view-event stream
type Subscription struct {
	C      chan ViewEvent
	cancel func()
}

// Cancel detaches the subscription from the bridge
func (s *Subscription) Cancel() { s.cancel() }

// Publisher sends outbound customer messages
type Publisher interface {
	PublishChatMessage(ctx context.Context, event *models.ChatMessageEvent) error
}

// Bridge adapts inbound conversation events into view events.
// History replay never triggers the redirect side effect; only a live
// bot message does, after a fixed delay.
type Bridge struct {
	publisher     Publisher
	redirectDelay time.Duration
	logger        *zap.Logger

	mu            sync.Mutex
	subs          map[int]*Subscription
	nextSubID     int
	typing        bool
	redirectTimer *time.Timer
	closed        bool
}

// NewBridge creates a chat bridge. A zero redirectDelay means the default.
func NewBridge(publisher Publisher, redirectDelay time.Duration) *Bridge {
	if redirectDelay <= 0 {
		redirectDelay = DefaultRedirectDelay
	}
	return &Bridge{
		publisher:     publisher,
		redirectDelay: redirectDelay,
		logger:        util.GetLogger(),
		subs:          make(map[int]*Subscription),
	}
}

// Subscribe returns an ordered stream of view events. Slow consumers
// drop events rather than block the bridge.
func (b *Bridge) Subscribe() *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextSubID
	b.nextSubID++

	sub := &Subscription{C: make(chan ViewEvent, 64)}
	sub.cancel = func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub.C)
		}
	}
	b.subs[id] = sub
	return sub
}

// HandleConnect handles the channel connect event
func (b *Bridge) HandleConnect() {
	b.logger.Info("Chat channel connected")
}

// HandleHistory replays messages oldest to newest. Redirect directives
// in replayed content are stripped from display but never navigate.
func (b *Bridge) HandleHistory(messages []models.ChatMessage) {
	for _, msg := range messages {
		b.append(msg, true)
	}
}

// HandleMessage handles a single live message
func (b *Bridge) HandleMessage(msg models.ChatMessage) {
	b.setTyping(false)
	b.append(msg, false)
}

func (b *Bridge) append(msg models.ChatMessage, historical bool) {
	content := msg.Content
	redirect := false

	if msg.Sender == models.SenderBot && strings.Contains(content, RedirectMarker) {
		content = strings.Replace(content, RedirectMarker, "", 1)
		if !historical {
			redirect = true
		}
	}

	rendered := &RenderedMessage{
		Sender:     msg.Sender,
		HTML:       RenderContent(content),
		Time:       util.FormatClock(msg.CreatedAt),
		Historical: historical,
	}

	util.ChatMessagesTotal.WithLabelValues(msg.Sender).Inc()
	b.emit(ViewEvent{Type: EventAppend, Message: rendered})

	if redirect {
		b.scheduleRedirect()
	}
}

// Send publishes an outbound customer message. Empty input after
// trimming is a silent no-op. On success the typing indicator shows
// optimistically, not waiting for any acknowledgment.
func (b *Bridge) Send(ctx context.Context, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}

	now := time.Now().UTC()
	event := &models.ChatMessageEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeChatMessage,
			Timestamp: now,
		},
		Sender:    models.SenderCustomer,
		Content:   content,
		CreatedAt: now.Format(time.RFC3339),
	}

	if err := b.publisher.PublishChatMessage(ctx, event); err != nil {
		b.logger.Error("Failed to publish chat message", zap.Error(err))
		return err
	}

	util.ChatMessagesTotal.WithLabelValues(models.SenderCustomer).Inc()
	b.setTyping(true)
	return nil
}

// Typing reports whether the typing indicator is showing
func (b *Bridge) Typing() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.typing
}

// Close cancels any pending redirect and detaches all subscriptions
func (b *Bridge) Close() {
	b.mu.Lock()
	b.closed = true
	if b.redirectTimer != nil {
		b.redirectTimer.Stop()
		b.redirectTimer = nil
	}
	subs := b.subs
	b.subs = make(map[int]*Subscription)
	b.mu.Unlock()

	for _, sub := range subs {
		close(sub.C)
	}
}

func (b *Bridge) setTyping(v bool) {
	b.mu.Lock()
	changed := b.typing != v
	b.typing = v
	b.mu.Unlock()

	if changed {
		b.emit(ViewEvent{Type: EventTyping, Typing: v})
	}
}

func (b *Bridge) scheduleRedirect() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	if b.redirectTimer != nil {
		b.redirectTimer.Stop()
	}
	b.redirectTimer = time.AfterFunc(b.redirectDelay, func() {
		util.ChatRedirectsTotal.Inc()
		b.emit(ViewEvent{Type: EventNavigate, Route: StorefrontRoute})
	})
}

// emit sends under the lock so a concurrent Cancel cannot close a
// channel mid-send; sends never block
func (b *Bridge) emit(event ViewEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subs {
		select {
		case sub.C <- event:
		default:
		}
	}
}
