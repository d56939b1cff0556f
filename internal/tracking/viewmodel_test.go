package tracking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"storefront-gateway/internal/backend"
	"storefront-gateway/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	mu      sync.Mutex
	calls   int
	order   *models.Order
	err     error
	release chan struct{} // when set, GetOrder blocks until closed or ctx done
}

func (f *fakeFetcher) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	f.mu.Lock()
	f.calls++
	release := f.release
	f.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if f.err != nil {
		return nil, f.err
	}
	return f.order, nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestTrackEmptyInputShortCircuits(t *testing.T) {
	fetcher := &fakeFetcher{}
	vm := NewViewModel(fetcher, nil, 0)

	for _, input := range []string{"", "   ", "\t\n"} {
		_, err := vm.Track(context.Background(), input)
		assert.ErrorIs(t, err, ErrEmptyOrderID)
	}

	assert.Zero(t, fetcher.callCount(), "validation failures must not reach the network")
}

func TestTrackSuccess(t *testing.T) {
	fetcher := &fakeFetcher{
		order: &models.Order{ID: 7, Status: models.OrderStatusPreparing, Total: 45.00},
	}
	vm := NewViewModel(fetcher, nil, 0)

	snapshot, err := vm.Track(context.Background(), "  7  ")
	require.NoError(t, err)

	assert.Equal(t, int64(7), snapshot.OrderID)
	assert.Equal(t, 2, snapshot.CurrentStatusIndex)
	assert.Equal(t, 1, fetcher.callCount())
}

func TestTrackNotFoundAndNetworkFailureRenderTheSame(t *testing.T) {
	// The storefront has never distinguished a typo from a transient
	// failure; both collapse into the same recoverable message.
	for _, cause := range []error{backend.ErrOrderNotFound, errors.New("connection refused")} {
		vm := NewViewModel(&fakeFetcher{err: cause}, nil, 0)

		_, err := vm.Track(context.Background(), "99")
		require.Error(t, err)

		var notFound *NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, MsgOrderNotFound, notFound.Message)
		assert.ErrorIs(t, err, cause)
	}
}

func TestTrackSupersededByNewerCallForSameOrder(t *testing.T) {
	release := make(chan struct{})
	fetcher := &fakeFetcher{
		order:   &models.Order{ID: 1, Status: models.OrderStatusPending},
		release: release,
	}
	vm := NewViewModel(fetcher, nil, 0)

	firstDone := make(chan error, 1)
	go func() {
		_, err := vm.Track(context.Background(), "1")
		firstDone <- err
	}()

	// Wait for the first call to be in flight
	require.Eventually(t, func() bool { return fetcher.callCount() == 1 },
		time.Second, time.Millisecond)

	fetcher.mu.Lock()
	fetcher.release = nil
	fetcher.mu.Unlock()

	snapshot, err := vm.Track(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), snapshot.OrderID)

	close(release)
	assert.ErrorIs(t, <-firstDone, ErrSuperseded)
}

func TestTrackDifferentOrdersDoNotSupersedeEachOther(t *testing.T) {
	release := make(chan struct{})
	fetcher := &fakeFetcher{
		order:   &models.Order{ID: 1, Status: models.OrderStatusPending},
		release: release,
	}
	vm := NewViewModel(fetcher, nil, 0)

	firstDone := make(chan error, 1)
	go func() {
		_, err := vm.Track(context.Background(), "1")
		firstDone <- err
	}()

	require.Eventually(t, func() bool { return fetcher.callCount() == 1 },
		time.Second, time.Millisecond)

	// A concurrent track of another order must not cancel the first
	fetcher.mu.Lock()
	fetcher.release = nil
	fetcher.mu.Unlock()

	_, err := vm.Track(context.Background(), "2")
	require.NoError(t, err)

	close(release)
	assert.NoError(t, <-firstDone)
}

type fakeCache struct {
	mu        sync.Mutex
	snapshots map[string]*Snapshot
	sets      int
}

func newFakeCache() *fakeCache {
	return &fakeCache{snapshots: make(map[string]*Snapshot)}
}

func (c *fakeCache) GetSnapshot(ctx context.Context, orderID string) (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshots[orderID], nil
}

func (c *fakeCache) SetSnapshot(ctx context.Context, orderID string, snapshot *Snapshot, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshots[orderID] = snapshot
	c.sets++
	return nil
}

func TestTrackUsesCache(t *testing.T) {
	fetcher := &fakeFetcher{
		order: &models.Order{ID: 3, Status: models.OrderStatusDelivered},
	}
	cache := newFakeCache()
	vm := NewViewModel(fetcher, cache, time.Minute)

	first, err := vm.Track(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.callCount())
	assert.Equal(t, 1, cache.sets)

	second, err := vm.Track(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.callCount(), "second call must be served from cache")
	assert.Equal(t, first, second)
}
