package handlers

import (
	"log"
	"net/http"

	"farmbasket_back_end/internal/catalog"

	"github.com/gin-gonic/gin"
)

// 🟢 GET /api/combos
func (h *ProductHandler) ListCombos(c *gin.Context) {
	combos, err := h.source.ListCombos(c.Request.Context())
	if err != nil {
		log.Println("❌ Combo listing error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load combos"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"combos": combos})
}

// 🟢 GET /api/combos/:id
func (h *ProductHandler) GetCombo(c *gin.Context) {
	combo, err := h.source.GetCombo(c.Request.Context(), c.Param("id"))
	if err == catalog.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Combo not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load combo"})
		return
	}

	c.JSON(http.StatusOK, combo)
}
