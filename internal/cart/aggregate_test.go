package cart

import (
	"testing"

	"farmbasket_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProduct(name string, price float64) models.Product {
	return models.Product{
		ID:    gocql.UUID(uuid.New()),
		Name:  name,
		Unit:  models.UnitKg,
		Price: price,
	}
}

func TestAddDistinctProducts(t *testing.T) {
	agg := New()
	tomato := newProduct("Tomato", 50)
	rice := newProduct("Rice", 80)
	milk := newProduct("Milk", 60)

	agg.Add(tomato, 2, AddOptions{})
	agg.Add(rice, 1, AddOptions{})
	agg.Add(milk, 3, AddOptions{})

	assert.Equal(t, 6, agg.ItemCount())
	assert.Len(t, agg.Lines, 3)
}

func TestAddSameProductMergesQuantities(t *testing.T) {
	agg := New()
	tomato := newProduct("Tomato", 50)

	agg.Add(tomato, 2, AddOptions{})
	agg.Add(tomato, 3, AddOptions{})

	require.Len(t, agg.Lines, 1)
	assert.Equal(t, 5, agg.Lines[0].Quantity)
	assert.Equal(t, 5, agg.ItemCount())
}

func TestAddNonPositiveQuantityIsNoOp(t *testing.T) {
	agg := New()
	tomato := newProduct("Tomato", 50)

	agg.Add(tomato, 0, AddOptions{})
	agg.Add(tomato, -4, AddOptions{})

	assert.True(t, agg.Empty())
	assert.Equal(t, 0, agg.ItemCount())
}

func TestTotalScenario(t *testing.T) {
	agg := New()
	tomato := newProduct("Tomato", 50)
	rice := newProduct("Rice", 80)

	agg.Add(tomato, 2, AddOptions{})
	agg.Add(rice, 1, AddOptions{})
	assert.InDelta(t, 180.0, agg.Total(), 1e-9)

	require.True(t, agg.UpdateQuantity(rice.ID.String(), 3))
	assert.InDelta(t, 340.0, agg.Total(), 1e-9) // 50*2 + 80*3
}

func TestUpdateQuantityClampsToOne(t *testing.T) {
	agg := New()
	rice := newProduct("Rice", 80)
	agg.Add(rice, 4, AddOptions{})

	require.True(t, agg.UpdateQuantity(rice.ID.String(), 0))

	// The line survives with quantity 1; removal is a separate operation.
	require.Len(t, agg.Lines, 1)
	assert.Equal(t, 1, agg.Lines[0].Quantity)
}

func TestUpdateQuantityUnknownProduct(t *testing.T) {
	agg := New()
	agg.Add(newProduct("Rice", 80), 1, AddOptions{})

	before := agg.ItemCount()
	assert.False(t, agg.UpdateQuantity(uuid.NewString(), 5))
	assert.Equal(t, before, agg.ItemCount())
}

func TestRemoveIsIdempotent(t *testing.T) {
	agg := New()
	tomato := newProduct("Tomato", 50)
	rice := newProduct("Rice", 80)
	agg.Add(tomato, 2, AddOptions{})
	agg.Add(rice, 1, AddOptions{})

	agg.Remove(tomato.ID.String())
	assert.Equal(t, 1, agg.ItemCount())
	assert.InDelta(t, 80.0, agg.Total(), 1e-9)

	// Absent id: no change, no panic
	agg.Remove(tomato.ID.String())
	agg.Remove(uuid.NewString())
	assert.Equal(t, 1, agg.ItemCount())
}

func TestRemoveLastLineDrainsToEmpty(t *testing.T) {
	agg := New()
	rice := newProduct("Rice", 80)
	agg.Add(rice, 1, AddOptions{})
	require.Equal(t, StateNonEmpty, agg.State())

	agg.Remove(rice.ID.String())
	assert.Equal(t, StateEmpty, agg.State())
}

func TestClear(t *testing.T) {
	agg := New()
	agg.Add(newProduct("Tomato", 50), 2, AddOptions{})
	agg.Add(newProduct("Rice", 80), 1, AddOptions{})

	agg.Clear()

	assert.Equal(t, 0, agg.ItemCount())
	assert.InDelta(t, 0.0, agg.Total(), 1e-9)
	assert.Equal(t, StateEmpty, agg.State())
}

func TestComboLinesStaySeparateFromStandalone(t *testing.T) {
	agg := New()
	tomato := newProduct("Tomato", 50)
	spinach := newProduct("Spinach", 30)

	agg.Add(tomato, 2, AddOptions{})

	combo := models.Combo{
		Name: "Salad box",
		Items: []models.ComboItem{
			{ProductID: tomato.ID.String(), Quantity: 1},
			{ProductID: spinach.ID.String(), Quantity: 2},
		},
	}
	products := map[string]models.Product{
		tomato.ID.String():  tomato,
		spinach.ID.String(): spinach,
	}

	comboID := uuid.NewString()
	require.NoError(t, agg.AddCombo(combo, products, comboID))

	// Standalone tomato line untouched, combo tomato line separate.
	require.Len(t, agg.Lines, 3)
	assert.Equal(t, 2, agg.Lines[0].Quantity)
	assert.False(t, agg.Lines[0].IsComboItem)
	assert.True(t, agg.Lines[1].IsComboItem)
	assert.Equal(t, comboID, agg.Lines[1].ComboID)
	assert.Equal(t, 5, agg.ItemCount())
}

func TestAddComboIsAtomic(t *testing.T) {
	agg := New()
	tomato := newProduct("Tomato", 50)

	combo := models.Combo{
		Name: "Broken box",
		Items: []models.ComboItem{
			{ProductID: tomato.ID.String(), Quantity: 1},
			{ProductID: uuid.NewString(), Quantity: 2}, // not resolvable
		},
	}
	products := map[string]models.Product{tomato.ID.String(): tomato}

	err := agg.AddCombo(combo, products, uuid.NewString())
	require.Error(t, err)
	assert.True(t, agg.Empty(), "a failed combo add must not leave partial lines")
}

func TestRemoveComboRemovesAllItsLines(t *testing.T) {
	agg := New()
	tomato := newProduct("Tomato", 50)
	spinach := newProduct("Spinach", 30)

	agg.Add(tomato, 2, AddOptions{})

	combo := models.Combo{
		Items: []models.ComboItem{
			{ProductID: tomato.ID.String(), Quantity: 1},
			{ProductID: spinach.ID.String(), Quantity: 2},
		},
	}
	products := map[string]models.Product{
		tomato.ID.String():  tomato,
		spinach.ID.String(): spinach,
	}
	comboID := uuid.NewString()
	require.NoError(t, agg.AddCombo(combo, products, comboID))

	agg.RemoveCombo(comboID)

	require.Len(t, agg.Lines, 1)
	assert.False(t, agg.Lines[0].IsComboItem)
	assert.Equal(t, 2, agg.ItemCount())
}

func TestRemoveProductAlsoDropsItsComboLines(t *testing.T) {
	agg := New()
	tomato := newProduct("Tomato", 50)

	agg.Add(tomato, 2, AddOptions{})

	combo := models.Combo{Items: []models.ComboItem{{ProductID: tomato.ID.String(), Quantity: 1}}}
	products := map[string]models.Product{tomato.ID.String(): tomato}
	require.NoError(t, agg.AddCombo(combo, products, uuid.NewString()))

	agg.Remove(tomato.ID.String())
	assert.True(t, agg.Empty())
}

func TestSetDeliveryDay(t *testing.T) {
	agg := New()
	rice := newProduct("Rice", 80)
	agg.Add(rice, 1, AddOptions{})

	assert.True(t, agg.SetDeliveryDay(rice.ID.String(), "Friday"))
	assert.Equal(t, "Friday", agg.Lines[0].DeliveryDay)

	assert.False(t, agg.SetDeliveryDay(uuid.NewString(), "Monday"))
}

func TestValidDeliveryDay(t *testing.T) {
	assert.True(t, ValidDeliveryDay("Friday"))
	assert.True(t, ValidDeliveryDay("Sunday"))
	assert.False(t, ValidDeliveryDay("friday"))
	assert.False(t, ValidDeliveryDay("Someday"))
	assert.False(t, ValidDeliveryDay(""))
}
