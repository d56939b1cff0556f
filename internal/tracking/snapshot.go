package tracking

import (
	"fmt"

	"storefront-gateway/internal/models"
	"storefront-gateway/internal/util"

	"github.com/shopspring/decimal"
)

// StepState classifies one timeline step relative to the current status
type StepState string

const (
	StepCompleted StepState = "completed"
	StepActive    StepState = "active"
	StepUpcoming  StepState = "upcoming"
)

// TimelineStep is one rendered milestone of the progress timeline
type TimelineStep struct {
	Status     string    `json:"status"`
	Label      string    `json:"label"`
	Icon       string    `json:"icon"`
	State      StepState `json:"state"`
	OccurredAt string    `json:"occurred_at,omitempty"`
}

// ItemLine is one rendered order item with its computed line total
type ItemLine struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

// Snapshot is an immutable, fully computed view of one tracked order,
// safe to render without further lookups
type Snapshot struct {
	OrderID            int64          `json:"order_id"`
	Header             string         `json:"header"`
	Status             string         `json:"status"`
	StatusLabel        string         `json:"status_label"`
	CurrentStatusIndex int            `json:"current_status_index"`
	Timeline           []TimelineStep `json:"timeline"`
	CreatedAt          string         `json:"created_at"`
	ShippingAddress    string         `json:"shipping_address"`
	PaymentLabel       string         `json:"payment_label"`
	Items              []ItemLine     `json:"items"`
	Subtotal           string         `json:"subtotal"`
	Shipping           string         `json:"shipping"`
	Discount           string         `json:"discount"`
	Total              string         `json:"total"`
	TotalDisplay       string         `json:"total_display"`
}

// BuildSnapshot derives a snapshot from a backend order. Pure: same
// order in, same snapshot out.
func BuildSnapshot(order *models.Order) *Snapshot {
	currentIndex := models.MilestoneIndex(order.Status)

	timeline := make([]TimelineStep, 0, len(models.Milestones))
	for i, m := range models.Milestones {
		state := StepUpcoming
		switch {
		case currentIndex >= 0 && i < currentIndex:
			state = StepCompleted
		case currentIndex >= 0 && i == currentIndex:
			state = StepActive
		}

		occurredAt := ""
		for _, log := range order.Logs {
			if log.Status == m.Status {
				occurredAt = util.FormatDateTime(log.CreatedAt)
				break
			}
		}

		timeline = append(timeline, TimelineStep{
			Status:     m.Status,
			Label:      m.Label,
			Icon:       m.Icon,
			State:      state,
			OccurredAt: occurredAt,
		})
	}

	items := make([]ItemLine, 0, len(order.Items))
	for _, item := range order.Items {
		price := decimal.NewFromFloat(item.Price)
		lineTotal := price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		items = append(items, ItemLine{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: amount(price),
			LineTotal: amount(lineTotal),
		})
	}

	address := order.ShippingAddress
	if address == "" {
		address = "Não informado"
	}

	total := decimal.NewFromFloat(order.Total)

	return &Snapshot{
		OrderID:            order.ID,
		Header:             fmt.Sprintf("Pedido #%d", order.ID),
		Status:             order.Status,
		StatusLabel:        models.StatusLabel(order.Status),
		CurrentStatusIndex: currentIndex,
		Timeline:           timeline,
		CreatedAt:          util.FormatDateLong(order.CreatedAt),
		ShippingAddress:    address,
		PaymentLabel:       models.PaymentLabel(order.PaymentMethod),
		Items:              items,
		Subtotal:           amount(decimal.NewFromFloat(order.Subtotal)),
		Shipping:           amount(decimal.NewFromFloat(order.Shipping)),
		Discount:           amount(decimal.NewFromFloat(order.Discount)),
		Total:              amount(total),
		TotalDisplay:       FormatBRL(total),
	}
}
