package request

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"farmbasket_back_end/internal/cart"
	"farmbasket_back_end/internal/models"

	"github.com/google/uuid"
)

// Submission failure kinds. All are recoverable by the caller; none clears
// the cart.
var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrMissingAddress = errors.New("no saved delivery address")
	ErrBadDeliveryDay = errors.New("invalid delivery day")
	ErrNotFound       = errors.New("request not found")
)

// Payload is the request as handed to the order service: line items with
// their per-line delivery day resolved, plus the total computed from the
// aggregate at submission time.
type Payload struct {
	Items          []models.RequestItem `json:"items"`
	DeliveryDay    string               `json:"delivery_day"`
	AddressID      string               `json:"address_id"`
	TotalAmount    float64              `json:"total_amount"`
	IdempotencyKey string               `json:"idempotency_key"`
}

// OrderService accepts a submitted request. CreateRequest must be idempotent
// on the payload's idempotency key so a retry after a lost response cannot
// duplicate the request.
type OrderService interface {
	CreateRequest(ctx context.Context, userID string, p Payload) (models.Request, error)
}

// AddressBook answers the has-a-saved-address precondition.
type AddressBook interface {
	HasAddress(ctx context.Context, userID string) (bool, error)
}

const orderServiceTimeout = 5 * time.Second

// Submitter turns the current cart into exactly one weekly request.
type Submitter struct {
	carts     cart.Store
	orders    OrderService
	addresses AddressBook
	notifier  cart.Notifier

	// AfterSubmit, if set, runs in its own goroutine once a request has been
	// accepted. Used for the confirmation email; failures there never affect
	// the submission result.
	AfterSubmit func(req models.Request)
}

func NewSubmitter(carts cart.Store, orders OrderService, addresses AddressBook, notifier cart.Notifier) *Submitter {
	return &Submitter{
		carts:     carts,
		orders:    orders,
		addresses: addresses,
		notifier:  notifier,
	}
}

// Submit checks the preconditions, builds the payload and calls the order
// service exactly once. On success the stored cart is cleared; on any failure
// the cart is left untouched for the user to retry.
func (s *Submitter) Submit(ctx context.Context, userID, deliveryDay, addressID string) (models.Request, error) {
	if !cart.ValidDeliveryDay(deliveryDay) {
		return models.Request{}, ErrBadDeliveryDay
	}

	agg, err := s.carts.Load(ctx, userID)
	if err != nil {
		return models.Request{}, fmt.Errorf("loading cart: %w", err)
	}
	if agg.Empty() {
		return models.Request{}, ErrEmptyCart
	}

	hasAddress, err := s.addresses.HasAddress(ctx, userID)
	if err != nil {
		return models.Request{}, fmt.Errorf("checking addresses: %w", err)
	}
	if !hasAddress {
		return models.Request{}, ErrMissingAddress
	}

	payload := buildPayload(agg, deliveryDay, addressID)

	callCtx, cancel := context.WithTimeout(ctx, orderServiceTimeout)
	defer cancel()

	req, err := s.orders.CreateRequest(callCtx, userID, payload)
	if err != nil {
		return models.Request{}, err
	}

	// Acknowledged: only now does the cart go away.
	if err := s.carts.Delete(ctx, userID); err != nil {
		log.Printf("⚠️ Request %s accepted but cart for %s could not be cleared: %v", req.ID, userID, err)
	}
	s.notifier.Notify(ctx, userID, cart.EventCleared)

	if s.AfterSubmit != nil {
		go s.AfterSubmit(req)
	}
	return req, nil
}

// buildPayload snapshots the aggregate. A line's own delivery day wins over
// the global one.
func buildPayload(agg *cart.Aggregate, deliveryDay, addressID string) Payload {
	items := make([]models.RequestItem, 0, len(agg.Lines))
	for _, line := range agg.Lines {
		day := deliveryDay
		if line.DeliveryDay != "" {
			day = line.DeliveryDay
		}
		items = append(items, models.RequestItem{
			ProductID:   line.ProductID,
			Name:        line.Name,
			Unit:        line.Unit,
			Price:       line.Price,
			Quantity:    line.Quantity,
			DeliveryDay: day,
		})
	}

	return Payload{
		Items:          items,
		DeliveryDay:    deliveryDay,
		AddressID:      addressID,
		TotalAmount:    agg.Total(),
		IdempotencyKey: uuid.NewString(),
	}
}
