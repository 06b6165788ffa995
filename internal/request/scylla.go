package request

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"farmbasket_back_end/internal/database"
	"farmbasket_back_end/internal/models"

	"github.com/gocql/gocql"
)

// ScyllaOrderService persists requests in the requests keyspace. Dedup on the
// idempotency key goes through a lightweight transaction: the key row is
// claimed with IF NOT EXISTS, and a lost claim resolves to the request that
// already owns the key.
type ScyllaOrderService struct{}

func NewScyllaOrderService() *ScyllaOrderService {
	return &ScyllaOrderService{}
}

func (s *ScyllaOrderService) CreateRequest(ctx context.Context, userID string, p Payload) (models.Request, error) {
	session, err := database.GetRequestsSession()
	if err != nil {
		return models.Request{}, fmt.Errorf("requests session: %w", err)
	}

	requestID := gocql.TimeUUID()

	var existingKey string
	var existingID gocql.UUID
	applied, err := session.Query(
		`INSERT INTO requests_by_idempotency_key (idempotency_key, request_id) VALUES (?, ?) IF NOT EXISTS`,
		p.IdempotencyKey, requestID,
	).WithContext(ctx).ScanCAS(&existingKey, &existingID)
	if err != nil {
		return models.Request{}, fmt.Errorf("claiming idempotency key: %w", err)
	}
	if !applied {
		// The same attempt already went through (retry after a lost
		// response). Return the request it created instead of a duplicate.
		log.Printf("🔁 Idempotency key %s already claimed by request %s", p.IdempotencyKey, existingID)
		return s.getByID(ctx, session, userID, existingID)
	}

	itemsJSON, err := json.Marshal(p.Items)
	if err != nil {
		return models.Request{}, err
	}

	now := time.Now().UTC()
	err = session.Query(
		`INSERT INTO requests (request_id, user_id, items, delivery_day, address_id, total_amount, idempotency_key, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		requestID, userID, string(itemsJSON), p.DeliveryDay, p.AddressID, p.TotalAmount,
		p.IdempotencyKey, models.RequestPending, now,
	).WithContext(ctx).Exec()
	if err != nil {
		return models.Request{}, fmt.Errorf("inserting request: %w", err)
	}

	return models.Request{
		ID:             requestID,
		UserID:         userID,
		Items:          p.Items,
		DeliveryDay:    p.DeliveryDay,
		AddressID:      p.AddressID,
		TotalAmount:    p.TotalAmount,
		IdempotencyKey: p.IdempotencyKey,
		Status:         models.RequestPending,
		CreatedAt:      now,
	}, nil
}

// Get returns one request, scoped to its owner.
func (s *ScyllaOrderService) Get(ctx context.Context, userID string, requestID gocql.UUID) (models.Request, error) {
	session, err := database.GetRequestsSession()
	if err != nil {
		return models.Request{}, err
	}
	return s.getByID(ctx, session, userID, requestID)
}

func (s *ScyllaOrderService) getByID(ctx context.Context, session *gocql.Session, userID string, requestID gocql.UUID) (models.Request, error) {
	var req models.Request
	var itemsJSON string

	err := session.Query(
		`SELECT request_id, user_id, items, delivery_day, address_id, total_amount, status, created_at
		 FROM requests WHERE request_id = ?`, requestID,
	).WithContext(ctx).Scan(
		&req.ID, &req.UserID, &itemsJSON, &req.DeliveryDay, &req.AddressID,
		&req.TotalAmount, &req.Status, &req.CreatedAt,
	)
	if err == gocql.ErrNotFound {
		return models.Request{}, ErrNotFound
	}
	if err != nil {
		return models.Request{}, err
	}
	if req.UserID != userID {
		return models.Request{}, ErrNotFound
	}

	if err := json.Unmarshal([]byte(itemsJSON), &req.Items); err != nil {
		return models.Request{}, fmt.Errorf("decoding request items: %w", err)
	}
	return req, nil
}

// ListByUser returns the user's requests, newest first.
func (s *ScyllaOrderService) ListByUser(ctx context.Context, userID string) ([]models.Request, error) {
	session, err := database.GetRequestsSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(
		`SELECT request_id, user_id, items, delivery_day, address_id, total_amount, status, created_at
		 FROM requests WHERE user_id = ? ALLOW FILTERING`, userID,
	).WithContext(ctx).Iter()

	var requests []models.Request
	var req models.Request
	var itemsJSON string
	for iter.Scan(&req.ID, &req.UserID, &itemsJSON, &req.DeliveryDay, &req.AddressID,
		&req.TotalAmount, &req.Status, &req.CreatedAt) {
		if err := json.Unmarshal([]byte(itemsJSON), &req.Items); err != nil {
			log.Printf("⚠️ Skipping request %s: bad items payload: %v", req.ID, err)
			continue
		}
		requests = append(requests, req)
		req = models.Request{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	sortNewestFirst(requests)
	return requests, nil
}

// sortNewestFirst orders by creation time, newest first. The scan above walks
// partitions in token order, which has nothing to do with when a request was
// made.
func sortNewestFirst(requests []models.Request) {
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
}

// Cancel moves a pending request to cancelled. Anything past pending is
// already being packed at the farm and stays as is.
func (s *ScyllaOrderService) Cancel(ctx context.Context, userID string, requestID gocql.UUID) error {
	// Ownership check first.
	if _, err := s.Get(ctx, userID, requestID); err != nil {
		return err
	}

	session, err := database.GetRequestsSession()
	if err != nil {
		return err
	}

	var current string
	applied, err := session.Query(
		`UPDATE requests SET status = ? WHERE request_id = ? IF status = ?`,
		models.RequestCancelled, requestID, models.RequestPending,
	).WithContext(ctx).ScanCAS(&current)
	if err != nil {
		return err
	}
	if !applied {
		return fmt.Errorf("request is %s and can no longer be cancelled", current)
	}
	return nil
}
