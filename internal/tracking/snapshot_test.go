package tracking

import (
	"testing"

	"storefront-gateway/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderWithStatus(status string) *models.Order {
	return &models.Order{
		ID:            42,
		Status:        status,
		CreatedAt:     "2024-03-10 18:30:00",
		PaymentMethod: models.PaymentPix,
		Subtotal:      30.00,
		Shipping:      15.00,
		Total:         45.00,
	}
}

func TestBuildSnapshotTimelineClassification(t *testing.T) {
	tests := []struct {
		status    string
		completed int
		activeIdx int
	}{
		{models.OrderStatusPending, 0, 0},
		{models.OrderStatusConfirmed, 1, 1},
		{models.OrderStatusPreparing, 2, 2},
		{models.OrderStatusOutForDelivery, 3, 3},
		{models.OrderStatusDelivered, 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			snapshot := BuildSnapshot(orderWithStatus(tt.status))

			require.Len(t, snapshot.Timeline, 5)
			assert.Equal(t, tt.activeIdx, snapshot.CurrentStatusIndex)

			completed := 0
			active := 0
			for i, step := range snapshot.Timeline {
				switch step.State {
				case StepCompleted:
					completed++
					assert.Less(t, i, tt.activeIdx)
				case StepActive:
					active++
					assert.Equal(t, tt.activeIdx, i)
				}
			}
			assert.Equal(t, tt.completed, completed)
			assert.Equal(t, 1, active)
		})
	}
}

func TestBuildSnapshotCancelledOrder(t *testing.T) {
	snapshot := BuildSnapshot(orderWithStatus(models.OrderStatusCancelled))

	assert.Equal(t, -1, snapshot.CurrentStatusIndex)
	for _, step := range snapshot.Timeline {
		assert.Equal(t, StepUpcoming, step.State)
	}
	assert.Equal(t, "Cancelado", snapshot.StatusLabel)
}

func TestBuildSnapshotUnknownStatusFallsBack(t *testing.T) {
	snapshot := BuildSnapshot(orderWithStatus("weird_status"))

	assert.Equal(t, -1, snapshot.CurrentStatusIndex)
	for _, step := range snapshot.Timeline {
		assert.Equal(t, StepUpcoming, step.State)
	}
	assert.Equal(t, "weird_status", snapshot.StatusLabel)
}

func TestBuildSnapshotLineTotalRounding(t *testing.T) {
	order := orderWithStatus(models.OrderStatusPending)
	order.Items = []models.OrderItem{
		{Name: "X", Quantity: 2, Price: 10.005},
	}
	order.Subtotal = 20.01
	order.Shipping = 15.00
	order.Discount = 0
	order.Total = 35.01

	snapshot := BuildSnapshot(order)

	require.Len(t, snapshot.Items, 1)
	assert.Equal(t, "20.01", snapshot.Items[0].LineTotal)

	// total == subtotal + shipping - discount
	subtotal, err := decimal.NewFromString(snapshot.Subtotal)
	require.NoError(t, err)
	shipping, err := decimal.NewFromString(snapshot.Shipping)
	require.NoError(t, err)
	discount, err := decimal.NewFromString(snapshot.Discount)
	require.NoError(t, err)
	assert.Equal(t, subtotal.Add(shipping).Sub(discount).StringFixed(2), snapshot.Total)
}

func TestBuildSnapshotTimelineDatesFromLogs(t *testing.T) {
	order := orderWithStatus(models.OrderStatusConfirmed)
	order.Logs = []models.StatusLog{
		{Status: models.OrderStatusPending, CreatedAt: "2024-03-10 18:30:00"},
		{Status: models.OrderStatusConfirmed, CreatedAt: "2024-03-10 18:45:00"},
	}

	snapshot := BuildSnapshot(order)

	// 18:30 UTC renders as 15:30 in UTC-3
	assert.Equal(t, "10/03/2024 15:30", snapshot.Timeline[0].OccurredAt)
	assert.Equal(t, "10/03/2024 15:45", snapshot.Timeline[1].OccurredAt)
	assert.Empty(t, snapshot.Timeline[2].OccurredAt)
}

func TestBuildSnapshotHeaderAndFallbacks(t *testing.T) {
	order := orderWithStatus(models.OrderStatusPending)
	order.ShippingAddress = ""
	order.PaymentMethod = "boleto"

	snapshot := BuildSnapshot(order)

	assert.Equal(t, "Pedido #42", snapshot.Header)
	assert.Equal(t, "Não informado", snapshot.ShippingAddress)
	assert.Equal(t, "boleto", snapshot.PaymentLabel)
}

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 20,01", FormatBRL(decimal.NewFromFloat(20.01)))
	assert.Equal(t, "R$ 1.234,56", FormatBRL(decimal.NewFromFloat(1234.56)))
	assert.Equal(t, "R$ 0,00", FormatBRL(decimal.Zero))
	assert.Equal(t, "-R$ 5,50", FormatBRL(decimal.NewFromFloat(-5.5)))
}
