package models

import "github.com/gocql/gocql"

// Combo is a curated bundle of catalog products added to the cart together.
type Combo struct {
	ID          gocql.UUID  `json:"id" db:"combo_id"`
	Name        string      `json:"name" db:"name"`
	Description string      `json:"description" db:"description"`
	ImageURL    string      `json:"image_url" db:"image_url"`
	Items       []ComboItem `json:"items" db:"items"`
}

type ComboItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}
