package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"storefront-gateway/internal/chat"
	"storefront-gateway/internal/models"
	"storefront-gateway/internal/notify"
	"storefront-gateway/internal/tracking"
	"storefront-gateway/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Tracker produces order snapshots
type Tracker interface {
	Track(ctx context.Context, orderID string) (*tracking.Snapshot, error)
}

// BadgePoller exposes the badge counters
type BadgePoller interface {
	Counters() []notify.Counter
	RefreshCart(ctx context.Context)
	ClearAll(ctx context.Context) error
}

// ChatService accepts outbound messages and streams view events
type ChatService interface {
	Send(ctx context.Context, content string) error
	Subscribe() *chat.Subscription
}

// NotificationSource reads the notification panel from the backend
type NotificationSource interface {
	Notifications(ctx context.Context) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, notificationID string) error
}

// Handler contains HTTP handlers
type Handler struct {
	tracker       Tracker
	poller        BadgePoller
	chat          ChatService
	notifications NotificationSource
}

// NewHandler creates a new HTTP handler
func NewHandler(tracker Tracker, poller BadgePoller, chatService ChatService, notifications NotificationSource) *Handler {
	return &Handler{
		tracker:       tracker,
		poller:        poller,
		chat:          chatService,
		notifications: notifications,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/track/:id", h.trackOrder)
		api.GET("/badges", h.badges)
		api.POST("/cart/refresh", h.refreshCart)
		api.GET("/notifications", h.listNotifications)
		api.POST("/notifications/clear", h.clearNotifications)
		api.POST("/notifications/:id/read", h.markNotificationRead)
		api.POST("/chat/messages", h.sendChatMessage)
		api.GET("/chat/stream", h.chatStream)
	}
}

func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// trackOrder returns the computed tracking snapshot for an order
func (h *Handler) trackOrder(c *gin.Context) {
	snapshot, err := h.tracker.Track(c.Request.Context(), c.Param("id"))
	if err != nil {
		var notFound *tracking.NotFoundError
		switch {
		case errors.Is(err, tracking.ErrEmptyOrderID):
			c.JSON(http.StatusBadRequest, gin.H{"error": tracking.MsgEmptyOrderID})
		case errors.As(err, &notFound):
			c.JSON(http.StatusNotFound, gin.H{"error": notFound.Message})
		case errors.Is(err, tracking.ErrSuperseded):
			c.JSON(http.StatusConflict, gin.H{"error": "superseded"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": tracking.MsgOrderNotFound})
		}
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

func (h *Handler) badges(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"counters": h.poller.Counters()})
}

// refreshCart triggers an on-demand cart counter refresh, the hook the
// storefront calls after any cart mutation or visibility regain
func (h *Handler) refreshCart(c *gin.Context) {
	h.poller.RefreshCart(c.Request.Context())

	for _, counter := range h.poller.Counters() {
		if counter.Kind == models.CounterCartItems {
			c.JSON(http.StatusOK, gin.H{"success": true, "count": counter.Value})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) listNotifications(c *gin.Context) {
	notifications, err := h.notifications.Notifications(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Erro ao carregar notificações"})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// clearNotifications is destructive and requires explicit confirmation
func (h *Handler) clearNotifications(c *gin.Context) {
	var req struct {
		Confirm bool `json:"confirm"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !req.Confirm {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Confirmação necessária"})
		return
	}

	if err := h.poller.ClearAll(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Erro ao limpar notificações. Tente novamente."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) markNotificationRead(c *gin.Context) {
	if err := h.notifications.MarkNotificationRead(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// sendChatMessage publishes an outbound customer message. Empty
// content is a silent no-op, mirroring the chat input behavior.
func (h *Handler) sendChatMessage(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.chat.Send(c.Request.Context(), req.Content); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Erro ao enviar mensagem. Tente novamente."})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"success": true})
}

// chatStream streams chat view events over server-sent events
func (h *Handler) chatStream(c *gin.Context) {
	sub := h.chat.Subscribe()
	defer sub.Cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-sub.C:
			if !ok {
				return false
			}
			c.SSEvent(event.Type, event)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
