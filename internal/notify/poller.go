package notify

import (
	"context"
	"sync"
	"time"

	"storefront-gateway/internal/models"
	"storefront-gateway/internal/util"

	"go.uber.org/zap"
)

// Backend is the subset of the storefront API the poller reads from
type Backend interface {
	PendingOrderCount(ctx context.Context) (int, error)
	NotificationCount(ctx context.Context) (int, error)
	GetCart(ctx context.Context) ([]models.CartItem, error)
	ClearNotifications(ctx context.Context) error
}

// Counter is an immutable badge counter snapshot
type Counter struct {
	Kind          models.CounterKind `json:"kind"`
	Value         int                `json:"value"`
	Visible       bool               `json:"visible"`
	LastRefreshed time.Time          `json:"last_refreshed"`
}

// Listener receives counter updates. Every registered listener gets
// every update, in lock-step from one authoritative value.
type Listener func(Counter)

type counterState struct {
	value         int
	lastRefreshed time.Time
	nextSeq       uint64
	appliedSeq    uint64
}

// Poller keeps the badge counters fresh: pending orders and unread
// notifications on their own intervals, the cart count on demand.
// Overlapping refreshes are not coalesced; a per-counter request
// sequence discards responses older than the last applied one.
type Poller struct {
	backend              Backend
	pendingInterval      time.Duration
	notificationInterval time.Duration
	logger               *zap.Logger

	mu        sync.Mutex
	counters  map[models.CounterKind]*counterState
	listeners []Listener
	onCleared []func()
	cancel    context.CancelFunc

	wg sync.WaitGroup
}

// NewPoller creates a poller
func NewPoller(backend Backend, pendingInterval, notificationInterval time.Duration) *Poller {
	return &Poller{
		backend:              backend,
		pendingInterval:      pendingInterval,
		notificationInterval: notificationInterval,
		logger:               util.GetLogger(),
		counters: map[models.CounterKind]*counterState{
			models.CounterPendingOrders:       {},
			models.CounterUnreadNotifications: {},
			models.CounterCartItems:           {},
		},
	}
}

// OnUpdate registers a listener for counter updates
func (p *Poller) OnUpdate(l Listener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, l)
}

// OnCleared registers a callback fired after a successful ClearAll,
// so open notification panels can collapse
func (p *Poller) OnCleared(f func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onCleared = append(p.onCleared, f)
}

// Start begins the refresh loops. Each counter gets one immediate
// refresh in the background, then pending orders and notifications
// repeat on their intervals. Start never blocks on the backend; call
// Stop to tear the loops down.
func (p *Poller) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	p.mu.Lock()
	p.cancel = cancel
	p.mu.Unlock()

	initial := []func(context.Context){
		p.RefreshNotifications,
		p.RefreshPending,
		p.RefreshCart,
	}
	p.wg.Add(len(initial))
	for _, refresh := range initial {
		go func(refresh func(context.Context)) {
			defer p.wg.Done()
			refresh(ctx)
		}(refresh)
	}

	p.wg.Add(2)
	go p.loop(ctx, p.pendingInterval, p.RefreshPending)
	go p.loop(ctx, p.notificationInterval, p.RefreshNotifications)
}

// Stop cancels the refresh loops and waits for them to finish
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}

func (p *Poller) loop(ctx context.Context, interval time.Duration, refresh func(context.Context)) {
	defer p.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh(ctx)
		}
	}
}

// RefreshPending refreshes the pending-order counter once
func (p *Poller) RefreshPending(ctx context.Context) {
	p.refresh(ctx, models.CounterPendingOrders, p.backend.PendingOrderCount)
}

// RefreshNotifications refreshes the unread-notification counter once
func (p *Poller) RefreshNotifications(ctx context.Context) {
	p.refresh(ctx, models.CounterUnreadNotifications, p.backend.NotificationCount)
}

// RefreshCart refreshes the cart-item counter once. On-demand only:
// page load, visibility regain, and after any cart mutation.
func (p *Poller) RefreshCart(ctx context.Context) {
	p.refresh(ctx, models.CounterCartItems, func(ctx context.Context) (int, error) {
		items, err := p.backend.GetCart(ctx)
		if err != nil {
			return 0, err
		}
		count := 0
		for _, item := range items {
			count += item.Quantity
		}
		return count, nil
	})
}

func (p *Poller) refresh(ctx context.Context, kind models.CounterKind, fetch func(context.Context) (int, error)) {
	seq := p.issueSeq(kind)

	value, err := fetch(ctx)
	if err != nil {
		util.CounterRefreshFailedTotal.WithLabelValues(string(kind)).Inc()
		p.logger.Warn("Counter refresh failed",
			zap.String("kind", string(kind)),
			zap.Error(err))
		return
	}

	p.apply(kind, seq, value)
}

func (p *Poller) issueSeq(kind models.CounterKind) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	st := p.counters[kind]
	st.nextSeq++
	return st.nextSeq
}

// apply installs a value if its request sequence is newer than the
// last applied one, then broadcasts to every listener
func (p *Poller) apply(kind models.CounterKind, seq uint64, value int) bool {
	p.mu.Lock()
	st := p.counters[kind]
	if seq <= st.appliedSeq {
		p.mu.Unlock()
		util.StaleResponsesDiscardedTotal.WithLabelValues(string(kind)).Inc()
		return false
	}

	st.appliedSeq = seq
	st.value = value
	st.lastRefreshed = time.Now()

	counter := Counter{
		Kind:          kind,
		Value:         value,
		Visible:       value > 0,
		LastRefreshed: st.lastRefreshed,
	}
	listeners := make([]Listener, len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.Unlock()

	util.CounterRefreshTotal.WithLabelValues(string(kind)).Inc()

	for _, l := range listeners {
		l(counter)
	}
	return true
}

// Counters returns the current value of every counter
func (p *Poller) Counters() []Counter {
	p.mu.Lock()
	defer p.mu.Unlock()

	kinds := []models.CounterKind{
		models.CounterPendingOrders,
		models.CounterUnreadNotifications,
		models.CounterCartItems,
	}

	out := make([]Counter, 0, len(kinds))
	for _, kind := range kinds {
		st := p.counters[kind]
		out = append(out, Counter{
			Kind:          kind,
			Value:         st.value,
			Visible:       st.value > 0,
			LastRefreshed: st.lastRefreshed,
		})
	}
	return out
}

// ClearAll issues the backend clear and, only on success, resets the
// local notification counter and signals panels to collapse. On
// failure prior state is left untouched; there is no optimistic clear.
func (p *Poller) ClearAll(ctx context.Context) error {
	ctx, span := util.StartSpan(ctx, "Poller.ClearAll")
	defer span.End()

	if err := p.backend.ClearNotifications(ctx); err != nil {
		p.logger.Error("Failed to clear notifications", zap.Error(err))
		return err
	}

	seq := p.issueSeq(models.CounterUnreadNotifications)
	p.apply(models.CounterUnreadNotifications, seq, 0)

	util.NotificationsClearedTotal.Inc()

	p.mu.Lock()
	cleared := make([]func(), len(p.onCleared))
	copy(cleared, p.onCleared)
	p.mu.Unlock()

	for _, f := range cleared {
		f()
	}
	return nil
}
