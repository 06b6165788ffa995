package catalog

import (
	"testing"

	"farmbasket_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRowScan plays the role of an iterator scan: each call fills the dest
// pointers from the next fixture row and exhaustion reports gocql.ErrNotFound,
// the same shape iterScan hands to scanProduct.
func fakeRowScan(rows []models.Product) func(...interface{}) error {
	i := 0
	return func(dest ...interface{}) error {
		if i >= len(rows) {
			return gocql.ErrNotFound
		}
		p := rows[i]
		i++
		*dest[0].(*gocql.UUID) = p.ID
		*dest[1].(*string) = p.Name
		*dest[2].(*string) = p.Description
		*dest[3].(*string) = p.Category
		*dest[4].(*string) = p.Unit
		*dest[5].(*float64) = p.Price
		*dest[6].(*[]string) = p.ImageURLs
		*dest[7].(*[]string) = p.Tags
		*dest[8].(*bool) = p.IsOrganic
		*dest[9].(*bool) = p.IsSeasonal
		*dest[10].(*gocql.UUID) = p.FarmerID
		return nil
	}
}

func TestScanProductDrainsRows(t *testing.T) {
	rows := []models.Product{
		{ID: gocql.UUID(uuid.New()), Name: "Tomato", Category: models.CategoryVegetables, Unit: models.UnitKg, Price: 50},
		{ID: gocql.UUID(uuid.New()), Name: "Rice", Category: models.CategoryGrains, Unit: models.UnitKg, Price: 80},
	}
	scan := fakeRowScan(rows)

	var got []models.Product
	for {
		p, err := scanProduct(scan)
		if err != nil {
			require.ErrorIs(t, err, gocql.ErrNotFound)
			break
		}
		got = append(got, p)
	}

	require.Len(t, got, 2)
	assert.Equal(t, "Tomato", got[0].Name)
	assert.Equal(t, "Rice", got[1].Name)
	assert.Equal(t, rows[1].ID, got[1].ID)
}

func TestMatchesFilter(t *testing.T) {
	farmer := gocql.UUID(uuid.New())
	p := models.Product{
		Name:       "Tomato",
		Category:   models.CategoryVegetables,
		IsOrganic:  true,
		IsSeasonal: false,
		FarmerID:   farmer,
	}

	assert.True(t, matchesFilter(Filter{}, p))
	assert.True(t, matchesFilter(Filter{OrganicOnly: true}, p))
	assert.False(t, matchesFilter(Filter{SeasonalOnly: true}, p))
	assert.True(t, matchesFilter(Filter{FarmerID: farmer.String()}, p))
	assert.False(t, matchesFilter(Filter{FarmerID: uuid.NewString()}, p))
	assert.False(t, matchesFilter(Filter{OrganicOnly: true, SeasonalOnly: true}, p))
}
