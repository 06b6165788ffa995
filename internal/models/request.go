package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Request lifecycle statuses.
const (
	RequestPending   = "pending"
	RequestApproved  = "approved"
	RequestDelivered = "delivered"
	RequestCancelled = "cancelled"
)

// Request is an immutable snapshot of a cart submitted as a weekly request.
type Request struct {
	ID             gocql.UUID    `json:"id" db:"request_id"`
	UserID         string        `json:"user_id" db:"user_id"`
	Items          []RequestItem `json:"items" db:"items"`
	DeliveryDay    string        `json:"delivery_day" db:"delivery_day"`
	AddressID      string        `json:"address_id" db:"address_id"`
	TotalAmount    float64       `json:"total_amount" db:"total_amount"`
	IdempotencyKey string        `json:"-" db:"idempotency_key"`
	Status         string        `json:"status" db:"status"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
}

type RequestItem struct {
	ProductID   string  `json:"product_id"`
	Name        string  `json:"name"`
	Unit        string  `json:"unit"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	DeliveryDay string  `json:"delivery_day"`
}
