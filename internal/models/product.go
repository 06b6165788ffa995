package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Product categories as stored in the catalog keyspace.
const (
	CategoryVegetables = "vegetables"
	CategoryFruits     = "fruits"
	CategoryGrains     = "grains"
	CategoryDairy      = "dairy"
	CategorySpices     = "spices"
	CategoryOils       = "oils"
	CategoryHoney      = "honey"
)

// Units a product can be sold in.
const (
	UnitKg     = "kg"
	UnitLiter  = "liter"
	UnitDozen  = "dozen"
	UnitBundle = "bundle"
	UnitPiece  = "piece"
	UnitJar    = "jar"
)

type Product struct {
	ID          gocql.UUID `json:"id" db:"product_id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	Category    string     `json:"category" db:"category"`
	Unit        string     `json:"unit" db:"unit"`
	Price       float64    `json:"price" db:"price"`
	ImageURLs   []string   `json:"image_urls" db:"image_urls"`
	Tags        []string   `json:"tags" db:"tags"`
	IsOrganic   bool       `json:"is_organic" db:"is_organic"`
	IsSeasonal  bool       `json:"is_seasonal" db:"is_seasonal"`
	FarmerID    gocql.UUID `json:"farmer_id" db:"farmer_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// ValidUnit reports whether u is one of the selling units above.
func ValidUnit(u string) bool {
	switch u {
	case UnitKg, UnitLiter, UnitDozen, UnitBundle, UnitPiece, UnitJar:
		return true
	}
	return false
}
