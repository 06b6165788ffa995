package models

import "github.com/gocql/gocql"

type Farmer struct {
	ID        gocql.UUID `json:"id" db:"farmer_id"`
	Name      string     `json:"name" db:"name"`
	Village   string     `json:"village" db:"village"`
	District  string     `json:"district" db:"district"`
	Story     string     `json:"story" db:"story"`
	PhotoURLs []string   `json:"photo_urls" db:"photo_urls"`
	Practices []string   `json:"practices" db:"practices"`
}
