package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront-gateway/internal/models"
	"storefront-gateway/internal/util"

	"go.uber.org/zap"
)

// ErrOrderNotFound is returned when the backend has no order for the id
var ErrOrderNotFound = errors.New("order not found")

// Client talks to the storefront REST backend. The backend owns every
// payload shape; this client only decodes them.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a backend client
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     util.GetLogger(),
	}
}

// mutationResponse is the success-flag envelope mutations return
type mutationResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// GetOrder fetches an order for tracking.
// Returns ErrOrderNotFound when the backend reports no such order.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	body, status, err := c.get(ctx, "get_order", "/api/track-order/"+url.PathEscape(orderID))
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, ErrOrderNotFound
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("track-order returned status %d", status)
	}

	var errEnvelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &errEnvelope); err == nil && errEnvelope.Error != "" {
		return nil, ErrOrderNotFound
	}

	var order models.Order
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("failed to decode order: %w", err)
	}

	return &order, nil
}

// GetCart fetches the current cart contents
func (c *Client) GetCart(ctx context.Context) ([]models.CartItem, error) {
	body, status, err := c.get(ctx, "get_cart", "/api/cart")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("cart returned status %d", status)
	}

	var items []models.CartItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}

	return items, nil
}

// PendingOrderCount fetches the number of pending orders
func (c *Client) PendingOrderCount(ctx context.Context) (int, error) {
	body, status, err := c.get(ctx, "pending_orders", "/api/admin/orders?status=pending")
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, fmt.Errorf("admin orders returned status %d", status)
	}

	var orders []struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(body, &orders); err != nil {
		return 0, fmt.Errorf("failed to decode pending orders: %w", err)
	}

	return len(orders), nil
}

// NotificationCount fetches the unread notification count
func (c *Client) NotificationCount(ctx context.Context) (int, error) {
	body, status, err := c.get(ctx, "notification_count", "/api/admin/notifications/count")
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, fmt.Errorf("notification count returned status %d", status)
	}

	var resp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("failed to decode notification count: %w", err)
	}

	return resp.Count, nil
}

// Notifications fetches the notification panel contents
func (c *Client) Notifications(ctx context.Context) ([]models.Notification, error) {
	body, status, err := c.get(ctx, "notifications", "/api/admin/notifications")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("notifications returned status %d", status)
	}

	var notifications []models.Notification
	if err := json.Unmarshal(body, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}

	return notifications, nil
}

// MarkNotificationRead marks a single notification as read
func (c *Client) MarkNotificationRead(ctx context.Context, notificationID string) error {
	return c.postMutation(ctx, "mark_notification_read",
		"/api/admin/notifications/"+url.PathEscape(notificationID)+"/read")
}

// ClearNotifications asks the backend to clear all notifications.
// The success flag in the body is authoritative.
func (c *Client) ClearNotifications(ctx context.Context) error {
	return c.postMutation(ctx, "clear_notifications", "/api/admin/notifications/clear")
}

func (c *Client) postMutation(ctx context.Context, operation, path string) error {
	body, status, err := c.do(ctx, operation, http.MethodPost, path)
	if err != nil {
		return err
	}

	var resp mutationResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", operation, err)
	}

	if status != http.StatusOK || !resp.Success {
		if resp.Error != "" {
			return fmt.Errorf("%s failed: %s", operation, resp.Error)
		}
		return fmt.Errorf("%s failed with status %d", operation, status)
	}

	return nil
}

func (c *Client) get(ctx context.Context, operation, path string) ([]byte, int, error) {
	return c.do(ctx, operation, http.MethodGet, path)
}

func (c *Client) do(ctx context.Context, operation, method, path string) ([]byte, int, error) {
	start := time.Now()
	defer func() {
		util.BackendRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, err
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Backend request failed",
			zap.String("operation", operation),
			zap.Error(err))
		return nil, 0, fmt.Errorf("backend request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, res.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, res.StatusCode, nil
}
