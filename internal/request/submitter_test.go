package request

import (
	"context"
	"errors"
	"testing"

	"farmbasket_back_end/internal/cart"
	"farmbasket_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrders struct {
	calls int
	fail  bool
	last  Payload
}

func (f *fakeOrders) CreateRequest(ctx context.Context, userID string, p Payload) (models.Request, error) {
	f.calls++
	f.last = p
	if f.fail {
		return models.Request{}, errors.New("order service unreachable")
	}
	return models.Request{
		ID:          gocql.TimeUUID(),
		UserID:      userID,
		Items:       p.Items,
		DeliveryDay: p.DeliveryDay,
		AddressID:   p.AddressID,
		TotalAmount: p.TotalAmount,
		Status:      models.RequestPending,
	}, nil
}

type fakeAddresses struct {
	has bool
}

func (f fakeAddresses) HasAddress(ctx context.Context, userID string) (bool, error) {
	return f.has, nil
}

func product(name string, price float64) models.Product {
	return models.Product{
		ID:    gocql.UUID(uuid.New()),
		Name:  name,
		Unit:  models.UnitKg,
		Price: price,
	}
}

func seedCart(t *testing.T, store cart.Store, userID string, build func(*cart.Aggregate)) {
	t.Helper()
	agg := cart.New()
	build(agg)
	require.NoError(t, store.Save(context.Background(), userID, agg))
}

func TestSubmitEmptyCart(t *testing.T) {
	store := cart.NewMemoryStore()
	orders := &fakeOrders{}
	sub := NewSubmitter(store, orders, fakeAddresses{has: true}, cart.NopNotifier{})

	_, err := sub.Submit(context.Background(), "user-1", "Friday", "addr-1")

	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, orders.calls, "empty cart must not reach the order service")
}

func TestSubmitWithoutAddress(t *testing.T) {
	store := cart.NewMemoryStore()
	seedCart(t, store, "user-1", func(agg *cart.Aggregate) {
		agg.Add(product("Tomato", 50), 2, cart.AddOptions{})
	})
	orders := &fakeOrders{}
	sub := NewSubmitter(store, orders, fakeAddresses{has: false}, cart.NopNotifier{})

	_, err := sub.Submit(context.Background(), "user-1", "Friday", "addr-1")

	require.ErrorIs(t, err, ErrMissingAddress)
	assert.Zero(t, orders.calls)
}

func TestSubmitBadDeliveryDay(t *testing.T) {
	store := cart.NewMemoryStore()
	orders := &fakeOrders{}
	sub := NewSubmitter(store, orders, fakeAddresses{has: true}, cart.NopNotifier{})

	_, err := sub.Submit(context.Background(), "user-1", "Yesterday", "addr-1")

	require.ErrorIs(t, err, ErrBadDeliveryDay)
	assert.Zero(t, orders.calls)
}

func TestSubmitFailureLeavesCartUntouched(t *testing.T) {
	ctx := context.Background()
	store := cart.NewMemoryStore()
	seedCart(t, store, "user-1", func(agg *cart.Aggregate) {
		agg.Add(product("Tomato", 50), 2, cart.AddOptions{})
		agg.Add(product("Rice", 80), 1, cart.AddOptions{})
	})
	orders := &fakeOrders{fail: true}
	sub := NewSubmitter(store, orders, fakeAddresses{has: true}, cart.NopNotifier{})

	_, err := sub.Submit(ctx, "user-1", "Friday", "addr-1")
	require.Error(t, err)
	assert.Equal(t, 1, orders.calls)

	agg, err := store.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 3, agg.ItemCount(), "failed submission must not change the cart")
}

func TestSubmitSuccessClearsCart(t *testing.T) {
	ctx := context.Background()
	store := cart.NewMemoryStore()
	seedCart(t, store, "user-1", func(agg *cart.Aggregate) {
		agg.Add(product("Tomato", 50), 2, cart.AddOptions{})
		agg.Add(product("Rice", 80), 1, cart.AddOptions{})
	})
	orders := &fakeOrders{}
	sub := NewSubmitter(store, orders, fakeAddresses{has: true}, cart.NopNotifier{})

	req, err := sub.Submit(ctx, "user-1", "Friday", "addr-1")
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, req.Status)
	assert.InDelta(t, 180.0, req.TotalAmount, 1e-9)

	agg, err := store.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, agg.Empty())
}

func TestSubmitPayload(t *testing.T) {
	ctx := context.Background()
	store := cart.NewMemoryStore()
	tomato := product("Tomato", 50)
	rice := product("Rice", 80)
	seedCart(t, store, "user-1", func(agg *cart.Aggregate) {
		agg.Add(tomato, 2, cart.AddOptions{DeliveryDay: "Tuesday"})
		agg.Add(rice, 3, cart.AddOptions{})
	})
	orders := &fakeOrders{}
	sub := NewSubmitter(store, orders, fakeAddresses{has: true}, cart.NopNotifier{})

	_, err := sub.Submit(ctx, "user-1", "Friday", "addr-1")
	require.NoError(t, err)

	p := orders.last
	require.Len(t, p.Items, 2)
	// Per-line day wins over the global one.
	assert.Equal(t, "Tuesday", p.Items[0].DeliveryDay)
	assert.Equal(t, "Friday", p.Items[1].DeliveryDay)
	assert.Equal(t, "Friday", p.DeliveryDay)
	assert.Equal(t, "addr-1", p.AddressID)
	assert.InDelta(t, 340.0, p.TotalAmount, 1e-9)
	assert.NotEmpty(t, p.IdempotencyKey)
}

func TestSubmitGeneratesFreshIdempotencyKeys(t *testing.T) {
	ctx := context.Background()
	store := cart.NewMemoryStore()
	orders := &fakeOrders{fail: true}
	sub := NewSubmitter(store, orders, fakeAddresses{has: true}, cart.NopNotifier{})

	seedCart(t, store, "user-1", func(agg *cart.Aggregate) {
		agg.Add(product("Tomato", 50), 1, cart.AddOptions{})
	})

	_, err := sub.Submit(ctx, "user-1", "Friday", "addr-1")
	require.Error(t, err)
	firstKey := orders.last.IdempotencyKey

	_, err = sub.Submit(ctx, "user-1", "Friday", "addr-1")
	require.Error(t, err)

	// Each user-initiated attempt is its own intent; the key must differ so
	// the order service only dedups true wire-level retries.
	assert.NotEqual(t, firstKey, orders.last.IdempotencyKey)
}
