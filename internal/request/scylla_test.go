package request

import (
	"testing"
	"time"

	"farmbasket_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortNewestFirst(t *testing.T) {
	now := time.Now().UTC()
	requests := []models.Request{
		{AddressID: "oldest", CreatedAt: now.Add(-48 * time.Hour)},
		{AddressID: "newest", CreatedAt: now},
		{AddressID: "middle", CreatedAt: now.Add(-24 * time.Hour)},
	}

	sortNewestFirst(requests)

	require.Len(t, requests, 3)
	assert.Equal(t, "newest", requests[0].AddressID)
	assert.Equal(t, "middle", requests[1].AddressID)
	assert.Equal(t, "oldest", requests[2].AddressID)
	for i := 1; i < len(requests); i++ {
		assert.False(t, requests[i-1].CreatedAt.Before(requests[i].CreatedAt))
	}
}

func TestSortNewestFirstEmpty(t *testing.T) {
	var requests []models.Request
	sortNewestFirst(requests)
	assert.Empty(t, requests)
}
