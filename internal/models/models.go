package models

// Order statuses as reported by the storefront backend
const (
	OrderStatusPending        = "pending"
	OrderStatusConfirmed      = "confirmed"
	OrderStatusPreparing      = "preparing"
	OrderStatusProcessing     = "processing"
	OrderStatusShipped        = "shipped"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
)

// Payment methods
const (
	PaymentCash    = "dinheiro"
	PaymentCard    = "cartao"
	PaymentPix     = "pix"
	PaymentPending = "pending"
)

// StatusLabels maps backend statuses to customer-facing labels
var StatusLabels = map[string]string{
	OrderStatusPending:        "Pendente",
	OrderStatusConfirmed:      "Confirmado",
	OrderStatusPreparing:      "Em Preparo",
	OrderStatusProcessing:     "Em Preparo",
	OrderStatusShipped:        "Enviado",
	OrderStatusOutForDelivery: "Saiu para Entrega",
	OrderStatusDelivered:      "Entregue",
	OrderStatusCancelled:      "Cancelado",
}

// PaymentLabels maps payment methods to customer-facing labels
var PaymentLabels = map[string]string{
	PaymentCash:    "Dinheiro",
	PaymentCard:    "Cartão",
	PaymentPix:     "PIX",
	PaymentPending: "Pendente",
}

// StatusLabel returns the label for a status, falling back to the raw value
func StatusLabel(status string) string {
	if label, ok := StatusLabels[status]; ok {
		return label
	}
	return status
}

// PaymentLabel returns the label for a payment method, falling back to the raw value
func PaymentLabel(method string) string {
	if label, ok := PaymentLabels[method]; ok {
		return label
	}
	return method
}

// Milestone is one canonical step of the order progress timeline
type Milestone struct {
	Status string
	Label  string
	Icon   string
}

// Milestones is the fixed ordered sequence of timeline steps.
// Cancelled is terminal and deliberately outside the sequence.
var Milestones = []Milestone{
	{Status: OrderStatusPending, Label: "Pedido Recebido", Icon: "fa-check-circle"},
	{Status: OrderStatusConfirmed, Label: "Pedido Confirmado", Icon: "fa-clipboard-check"},
	{Status: OrderStatusPreparing, Label: "Em Preparo", Icon: "fa-box-open"},
	{Status: OrderStatusOutForDelivery, Label: "Saiu para Entrega", Icon: "fa-truck"},
	{Status: OrderStatusDelivered, Label: "Entregue", Icon: "fa-check-double"},
}

// MilestoneIndex returns the position of a status in the milestone
// sequence, or -1 when the status is not a canonical milestone
func MilestoneIndex(status string) int {
	for i, m := range Milestones {
		if m.Status == status {
			return i
		}
	}
	return -1
}

// Order is an order as returned by GET /api/track-order/{id}.
// Timestamps stay as backend strings; parsing happens at render time.
type Order struct {
	ID              int64       `json:"id"`
	Status          string      `json:"status"`
	CreatedAt       string      `json:"created_at"`
	ShippingAddress string      `json:"shipping_address"`
	PaymentMethod   string      `json:"payment_method"`
	Subtotal        float64     `json:"subtotal"`
	Shipping        float64     `json:"shipping"`
	Discount        float64     `json:"discount"`
	Total           float64     `json:"total"`
	Items           []OrderItem `json:"items"`
	Logs            []StatusLog `json:"logs"`
}

// OrderItem is one line of an order
type OrderItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// StatusLog is one append-only status transition record
type StatusLog struct {
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// CartItem is one entry of GET /api/cart
type CartItem struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	ImageURL string  `json:"image_url"`
}

// Notification is one entry of GET /api/admin/notifications
type Notification struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
	Link      string `json:"link"`
	Read      bool   `json:"read"`
}

// Chat message senders
const (
	SenderCustomer = "customer"
	SenderBot      = "bot"
)

// ChatMessage is a single conversation message. Messages are rendered
// and handed off; this layer keeps no transcript.
type ChatMessage struct {
	Sender    string `json:"sender"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// CounterKind identifies one independently refreshed badge counter
type CounterKind string

const (
	CounterPendingOrders       CounterKind = "pending_orders"
	CounterUnreadNotifications CounterKind = "unread_notifications"
	CounterCartItems           CounterKind = "cart_items"
)
