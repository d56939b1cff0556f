package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront-gateway/internal/chat"
	"storefront-gateway/internal/models"
	"storefront-gateway/internal/notify"
	"storefront-gateway/internal/tracking"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTracker struct {
	snapshot *tracking.Snapshot
	err      error
}

func (f *fakeTracker) Track(ctx context.Context, orderID string) (*tracking.Snapshot, error) {
	return f.snapshot, f.err
}

type fakePoller struct {
	counters []notify.Counter
	clearErr error
	cleared  bool
	cartHits int
}

func (f *fakePoller) Counters() []notify.Counter       { return f.counters }
func (f *fakePoller) RefreshCart(ctx context.Context)  { f.cartHits++ }
func (f *fakePoller) ClearAll(ctx context.Context) error {
	f.cleared = true
	return f.clearErr
}

type fakeChat struct {
	bridge *chat.Bridge
	sent   []string
	err    error
}

func (f *fakeChat) Send(ctx context.Context, content string) error {
	f.sent = append(f.sent, content)
	return f.err
}

func (f *fakeChat) Subscribe() *chat.Subscription { return f.bridge.Subscribe() }

type fakeNotifications struct {
	items   []models.Notification
	listErr error
	read    []string
	readErr error
}

func (f *fakeNotifications) Notifications(ctx context.Context) ([]models.Notification, error) {
	return f.items, f.listErr
}

func (f *fakeNotifications) MarkNotificationRead(ctx context.Context, notificationID string) error {
	f.read = append(f.read, notificationID)
	return f.readErr
}

func setupRouter(tracker Tracker, poller BadgePoller, chatSvc ChatService, notifications NotificationSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(tracker, poller, chatSvc, notifications).SetupRoutes(router)
	return router
}

func perform(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestTrackOrder(t *testing.T) {
	snapshot := &tracking.Snapshot{OrderID: 42, Header: "Pedido #42", Status: "preparing"}
	router := setupRouter(&fakeTracker{snapshot: snapshot}, &fakePoller{}, &fakeChat{}, &fakeNotifications{})

	w := perform(router, http.MethodGet, "/api/track/42", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Pedido #42"`)
}

func TestTrackOrderErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "empty order id",
			err:        tracking.ErrEmptyOrderID,
			wantStatus: http.StatusBadRequest,
			wantBody:   tracking.MsgEmptyOrderID,
		},
		{
			name:       "not found",
			err:        &tracking.NotFoundError{Message: tracking.MsgOrderNotFound},
			wantStatus: http.StatusNotFound,
			wantBody:   tracking.MsgOrderNotFound,
		},
		{
			name:       "superseded",
			err:        tracking.ErrSuperseded,
			wantStatus: http.StatusConflict,
			wantBody:   "superseded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(&fakeTracker{err: tt.err}, &fakePoller{}, &fakeChat{}, &fakeNotifications{})

			w := perform(router, http.MethodGet, "/api/track/x", "")

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestBadges(t *testing.T) {
	poller := &fakePoller{counters: []notify.Counter{
		{Kind: models.CounterPendingOrders, Value: 3, Visible: true},
		{Kind: models.CounterCartItems, Value: 0, Visible: false},
	}}
	router := setupRouter(&fakeTracker{}, poller, &fakeChat{}, &fakeNotifications{})

	w := perform(router, http.MethodGet, "/api/badges", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"pending_orders"`)
	assert.Contains(t, w.Body.String(), `"visible":false`)
}

func TestRefreshCart(t *testing.T) {
	poller := &fakePoller{counters: []notify.Counter{
		{Kind: models.CounterCartItems, Value: 5, Visible: true},
	}}
	router := setupRouter(&fakeTracker{}, poller, &fakeChat{}, &fakeNotifications{})

	w := perform(router, http.MethodPost, "/api/cart/refresh", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, poller.cartHits)
	assert.Contains(t, w.Body.String(), `"count":5`)
}

func TestClearNotifications(t *testing.T) {
	t.Run("requires confirmation", func(t *testing.T) {
		poller := &fakePoller{}
		router := setupRouter(&fakeTracker{}, poller, &fakeChat{}, &fakeNotifications{})

		w := perform(router, http.MethodPost, "/api/notifications/clear", `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Confirmação necessária")
		assert.False(t, poller.cleared)
	})

	t.Run("confirmed", func(t *testing.T) {
		poller := &fakePoller{}
		router := setupRouter(&fakeTracker{}, poller, &fakeChat{}, &fakeNotifications{})

		w := perform(router, http.MethodPost, "/api/notifications/clear", `{"confirm": true}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, poller.cleared)
	})

	t.Run("backend failure", func(t *testing.T) {
		poller := &fakePoller{clearErr: assert.AnError}
		router := setupRouter(&fakeTracker{}, poller, &fakeChat{}, &fakeNotifications{})

		w := perform(router, http.MethodPost, "/api/notifications/clear", `{"confirm": true}`)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "Erro ao limpar notificações")
	})
}

func TestListNotifications(t *testing.T) {
	notifications := &fakeNotifications{items: []models.Notification{
		{ID: "order_5", Message: "Novo pedido #5", Read: false},
	}}
	router := setupRouter(&fakeTracker{}, &fakePoller{}, &fakeChat{}, notifications)

	w := perform(router, http.MethodGet, "/api/notifications", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Novo pedido #5")
}

func TestMarkNotificationRead(t *testing.T) {
	notifications := &fakeNotifications{}
	router := setupRouter(&fakeTracker{}, &fakePoller{}, &fakeChat{}, notifications)

	w := perform(router, http.MethodPost, "/api/notifications/order_5/read", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"order_5"}, notifications.read)
}

func TestSendChatMessage(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		chatSvc := &fakeChat{}
		router := setupRouter(&fakeTracker{}, &fakePoller{}, chatSvc, &fakeNotifications{})

		w := perform(router, http.MethodPost, "/api/chat/messages", `{"content": "Qual o status?"}`)

		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Equal(t, []string{"Qual o status?"}, chatSvc.sent)
	})

	t.Run("publish failure", func(t *testing.T) {
		chatSvc := &fakeChat{err: assert.AnError}
		router := setupRouter(&fakeTracker{}, &fakePoller{}, chatSvc, &fakeNotifications{})

		w := perform(router, http.MethodPost, "/api/chat/messages", `{"content": "oi"}`)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "Erro ao enviar mensagem")
	})
}

type nopPublisher struct{}

func (nopPublisher) PublishChatMessage(ctx context.Context, event *models.ChatMessageEvent) error {
	return nil
}

// streamRecorder adds the CloseNotifier implementation gin's Stream
// requires of the response writer
type streamRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func newStreamRecorder() *streamRecorder {
	return &streamRecorder{httptest.NewRecorder(), make(chan bool, 1)}
}

func (r *streamRecorder) CloseNotify() <-chan bool { return r.closed }

func TestChatStream(t *testing.T) {
	bridge := chat.NewBridge(nopPublisher{}, time.Hour)
	router := setupRouter(&fakeTracker{}, &fakePoller{}, &fakeChat{bridge: bridge}, &fakeNotifications{})

	go func() {
		time.Sleep(50 * time.Millisecond)
		bridge.HandleMessage(models.ChatMessage{
			Sender:    models.SenderBot,
			Content:   "Olá!",
			CreatedAt: "2024-03-10T18:30:00",
		})
		time.Sleep(50 * time.Millisecond)
		bridge.Close()
	}()

	w := newStreamRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/chat/stream", nil)
	router.ServeHTTP(w, req)

	assert.Contains(t, w.Header().Get("Content-Type"), "text/event-stream")
	assert.Contains(t, w.Body.String(), "event:append")
	assert.Contains(t, w.Body.String(), "Olá!")
}
