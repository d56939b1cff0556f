package tracking

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"storefront-gateway/internal/backend"
	"storefront-gateway/internal/models"
	"storefront-gateway/internal/util"

	"go.uber.org/zap"
)

// User-facing messages, matching what the storefront has always shown
const (
	MsgEmptyOrderID  = "Por favor, digite o número do pedido"
	MsgOrderNotFound = "Pedido não encontrado. Verifique o número e tente novamente."
)

var (
	// ErrEmptyOrderID is returned before any network call when the
	// trimmed order id is empty
	ErrEmptyOrderID = errors.New(MsgEmptyOrderID)

	// ErrSuperseded is returned when a newer Track call replaced this one
	ErrSuperseded = errors.New("tracking request superseded")
)

// NotFoundError covers both "no such order" and transport failures.
// The storefront renders one message for both; callers can only tell
// them apart by the wrapped cause.
type NotFoundError struct {
	Message string
	cause   error
}

func (e *NotFoundError) Error() string { return e.Message }
func (e *NotFoundError) Unwrap() error { return e.cause }

// OrderFetcher fetches a single order from the backend
type OrderFetcher interface {
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
}

// SnapshotCache caches computed snapshots. Get returns (nil, nil) on miss.
type SnapshotCache interface {
	GetSnapshot(ctx context.Context, orderID string) (*Snapshot, error)
	SetSnapshot(ctx context.Context, orderID string, snapshot *Snapshot, ttl time.Duration) error
}

// trackState is the in-flight bookkeeping for one order id
type trackState struct {
	seq    uint64
	cancel context.CancelFunc
}

// ViewModel tracks orders. Supersession is scoped per order id: a new
// Track for the same id cancels any in-flight one, so a slow earlier
// response can never overwrite a newer result, while concurrent tracks
// of different orders do not interfere.
type ViewModel struct {
	fetcher OrderFetcher
	cache   SnapshotCache
	ttl     time.Duration
	logger  *zap.Logger

	mu       sync.Mutex
	inflight map[string]*trackState
}

// NewViewModel creates a tracking view-model. cache may be nil.
func NewViewModel(fetcher OrderFetcher, cache SnapshotCache, ttl time.Duration) *ViewModel {
	return &ViewModel{
		fetcher:  fetcher,
		cache:    cache,
		ttl:      ttl,
		logger:   util.GetLogger(),
		inflight: make(map[string]*trackState),
	}
}

// Track fetches the order and derives its snapshot
func (vm *ViewModel) Track(ctx context.Context, orderID string) (*Snapshot, error) {
	ctx, span := util.StartSpan(ctx, "ViewModel.Track")
	defer span.End()

	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		util.TrackFailuresTotal.WithLabelValues("empty_id").Inc()
		return nil, ErrEmptyOrderID
	}

	util.TrackRequestsTotal.Inc()

	vm.mu.Lock()
	st := vm.inflight[orderID]
	if st == nil {
		st = &trackState{}
		vm.inflight[orderID] = st
	}
	st.seq++
	mySeq := st.seq
	if st.cancel != nil {
		st.cancel()
	}
	callCtx, cancel := context.WithCancel(ctx)
	st.cancel = cancel
	vm.mu.Unlock()

	defer func() {
		cancel()
		vm.mu.Lock()
		if st.seq == mySeq {
			delete(vm.inflight, orderID)
		}
		vm.mu.Unlock()
	}()

	if vm.cache != nil {
		snapshot, err := vm.cache.GetSnapshot(callCtx, orderID)
		if err != nil {
			vm.logger.Warn("Snapshot cache read failed", zap.String("order_id", orderID), zap.Error(err))
		} else if snapshot != nil {
			util.SnapshotCacheHitsTotal.Inc()
			return snapshot, nil
		}
		util.SnapshotCacheMissesTotal.Inc()
	}

	order, err := vm.fetcher.GetOrder(callCtx, orderID)
	if err != nil {
		if vm.superseded(st, mySeq) {
			return nil, ErrSuperseded
		}

		reason := "network"
		if errors.Is(err, backend.ErrOrderNotFound) {
			reason = "not_found"
		}
		util.TrackFailuresTotal.WithLabelValues(reason).Inc()
		vm.logger.Warn("Order tracking failed",
			zap.String("order_id", orderID),
			zap.String("reason", reason),
			zap.Error(err))

		return nil, &NotFoundError{Message: MsgOrderNotFound, cause: err}
	}

	if vm.superseded(st, mySeq) {
		return nil, ErrSuperseded
	}

	snapshot := BuildSnapshot(order)

	if vm.cache != nil {
		if err := vm.cache.SetSnapshot(ctx, orderID, snapshot, vm.ttl); err != nil {
			vm.logger.Warn("Snapshot cache write failed", zap.String("order_id", orderID), zap.Error(err))
		}
	}

	return snapshot, nil
}

func (vm *ViewModel) superseded(st *trackState, mySeq uint64) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return st.seq != mySeq
}
