package middleware

import (
	"crypto/subtle"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// FarmerKeyRequired guards the catalog write surface. The co-op's back office
// holds a single shared key; there is no per-farmer role matrix here.
func FarmerKeyRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		expected := os.Getenv("FARMER_API_KEY")
		if expected == "" {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Catalog writes disabled"})
			c.Abort()
			return
		}

		got := c.GetHeader("X-Farmer-Key")
		if subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid farmer key"})
			c.Abort()
			return
		}
		c.Next()
	}
}
