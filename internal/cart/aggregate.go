package cart

import (
	"fmt"
	"log"

	"farmbasket_back_end/internal/models"
)

// State of the aggregate as seen by the submission flow. Only two states
// matter: an empty cart cannot be submitted.
type State string

const (
	StateEmpty    State = "empty"
	StateNonEmpty State = "non_empty"
)

var weekdays = map[string]bool{
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
	"Friday": true, "Saturday": true, "Sunday": true,
}

// ValidDeliveryDay reports whether day is a weekday name accepted for delivery.
func ValidDeliveryDay(day string) bool {
	return weekdays[day]
}

// Aggregate is the weekly cart of one user: an ordered list of lines with at
// most one non-combo line per product. It is a plain in-memory value; nothing
// here touches storage; persistence is the Store's job, called explicitly by
// whoever mutated the aggregate.
type Aggregate struct {
	Lines []models.CartLine `json:"lines"`
}

func New() *Aggregate {
	return &Aggregate{}
}

// AddOptions carries the optional per-line metadata for Add.
type AddOptions struct {
	DeliveryDay string
	ComboID     string
}

// Add puts qty of the product into the cart. If a non-combo line for the
// product already exists its quantity is incremented; combo-tagged lines are
// always appended as their own entry. qty < 1 is a no-op.
func (a *Aggregate) Add(p models.Product, qty int, opts AddOptions) {
	if qty < 1 {
		log.Printf("⚠️ Add ignored for %s: quantity %d", p.Name, qty)
		return
	}

	if opts.ComboID == "" {
		for i := range a.Lines {
			if a.Lines[i].ProductID == p.ID.String() && !a.Lines[i].IsComboItem {
				a.Lines[i].Quantity += qty
				if opts.DeliveryDay != "" {
					a.Lines[i].DeliveryDay = opts.DeliveryDay
				}
				return
			}
		}
	}

	imageURL := ""
	if len(p.ImageURLs) > 0 {
		imageURL = p.ImageURLs[0]
	}

	a.Lines = append(a.Lines, models.CartLine{
		ProductID:   p.ID.String(),
		Name:        p.Name,
		Price:       p.Price,
		Unit:        p.Unit,
		ImageURL:    imageURL,
		Quantity:    qty,
		DeliveryDay: opts.DeliveryDay,
		IsComboItem: opts.ComboID != "",
		ComboID:     opts.ComboID,
	})
}

// AddCombo appends every item of the combo under the shared comboID. The
// products map must cover all combo items; if any is missing nothing is added.
// Combo lines deliberately do not merge with standalone lines for the same
// product, so removing the combo later stays unambiguous.
func (a *Aggregate) AddCombo(combo models.Combo, products map[string]models.Product, comboID string) error {
	for _, item := range combo.Items {
		if _, ok := products[item.ProductID]; !ok {
			return fmt.Errorf("combo %s references unknown product %s", combo.Name, item.ProductID)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("combo %s has invalid quantity for product %s", combo.Name, item.ProductID)
		}
	}

	for _, item := range combo.Items {
		a.Add(products[item.ProductID], item.Quantity, AddOptions{ComboID: comboID})
	}
	return nil
}

// UpdateQuantity sets the quantity of the non-combo line for productID.
// Values below 1 clamp to 1; removal is only ever the explicit Remove call.
// Returns false when no such line exists.
func (a *Aggregate) UpdateQuantity(productID string, qty int) bool {
	if qty < 1 {
		log.Printf("⚠️ UpdateQuantity(%s, %d) clamped to 1", productID, qty)
		qty = 1
	}
	for i := range a.Lines {
		if a.Lines[i].ProductID == productID && !a.Lines[i].IsComboItem {
			a.Lines[i].Quantity = qty
			return true
		}
	}
	return false
}

// SetDeliveryDay sets the per-line delivery day override. Returns false when
// the product has no line in the cart.
func (a *Aggregate) SetDeliveryDay(productID, day string) bool {
	found := false
	for i := range a.Lines {
		if a.Lines[i].ProductID == productID {
			a.Lines[i].DeliveryDay = day
			found = true
		}
	}
	return found
}

// Remove deletes every line for productID, combo-tagged ones included.
// Removing an absent product is a no-op.
func (a *Aggregate) Remove(productID string) {
	kept := a.Lines[:0]
	for _, line := range a.Lines {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	a.Lines = kept
}

// RemoveCombo deletes all lines tagged with comboID.
func (a *Aggregate) RemoveCombo(comboID string) {
	kept := a.Lines[:0]
	for _, line := range a.Lines {
		if line.ComboID != comboID {
			kept = append(kept, line)
		}
	}
	a.Lines = kept
}

// Clear empties the cart. Called after a confirmed submission.
func (a *Aggregate) Clear() {
	a.Lines = nil
}

// ItemCount is the sum of all line quantities.
func (a *Aggregate) ItemCount() int {
	count := 0
	for _, line := range a.Lines {
		count += line.Quantity
	}
	return count
}

// Total is Σ price × quantity over the current lines, recomputed on every
// call so it can never go stale.
func (a *Aggregate) Total() float64 {
	total := 0.0
	for _, line := range a.Lines {
		total += line.Price * float64(line.Quantity)
	}
	return total
}

func (a *Aggregate) State() State {
	if len(a.Lines) == 0 {
		return StateEmpty
	}
	return StateNonEmpty
}

func (a *Aggregate) Empty() bool {
	return a.State() == StateEmpty
}
