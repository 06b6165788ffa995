package handlers

import (
	"log"
	"net/http"

	"farmbasket_back_end/internal/catalog"

	"github.com/gin-gonic/gin"
)

// 🟢 GET /api/farmers
func (h *ProductHandler) ListFarmers(c *gin.Context) {
	farmers, err := h.source.ListFarmers(c.Request.Context())
	if err != nil {
		log.Println("❌ Farmer listing error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load farmers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"farmers": farmers})
}

// 🟢 GET /api/farmers/:id: profile plus their produce
func (h *ProductHandler) GetFarmer(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	farmer, err := h.source.GetFarmer(ctx, id)
	if err == catalog.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Farmer not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load farmer"})
		return
	}

	products, err := h.source.ListProducts(ctx, catalog.Filter{FarmerID: id})
	if err != nil {
		log.Printf("⚠️ Could not load produce for farmer %s: %v", id, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"farmer":   farmer,
		"products": products,
	})
}
