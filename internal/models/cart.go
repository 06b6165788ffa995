package models

// CartLine is one entry of a user's weekly cart. Name, price, unit and image
// are denormalized from the catalog at add time for display without a second
// lookup.
type CartLine struct {
	ProductID   string  `json:"product_id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Unit        string  `json:"unit"`
	ImageURL    string  `json:"image_url,omitempty"`
	Quantity    int     `json:"quantity"`
	DeliveryDay string  `json:"delivery_day,omitempty"`
	IsComboItem bool    `json:"is_combo_item,omitempty"`
	ComboID     string  `json:"combo_id,omitempty"`
}
