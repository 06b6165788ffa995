package models

import "github.com/gocql/gocql"

type Address struct {
	ID            gocql.UUID `json:"id" db:"address_id"`
	UserID        string     `json:"user_id" db:"user_id"`
	Label         string     `json:"label" db:"label"`
	Street        string     `json:"street" db:"street"`
	VillageOrCity string     `json:"village_or_city" db:"village_or_city"`
	District      string     `json:"district" db:"district"`
	Pincode       string     `json:"pincode" db:"pincode"`
	IsDefault     bool       `json:"is_default" db:"is_default"`
}
