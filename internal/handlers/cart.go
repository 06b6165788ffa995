package handlers

import (
	"context"
	"log"
	"net/http"

	"farmbasket_back_end/internal/cart"
	"farmbasket_back_end/internal/catalog"
	"farmbasket_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CartHandler owns the weekly cart endpoints. The aggregate is loaded, mutated
// in memory and saved back explicitly; a failed save degrades to a logged
// warning and the reply still reflects the mutation.
type CartHandler struct {
	carts    cart.Store
	notifier cart.Notifier
	catalog  catalog.Source
}

func NewCartHandler(carts cart.Store, notifier cart.Notifier, source catalog.Source) *CartHandler {
	return &CartHandler{carts: carts, notifier: notifier, catalog: source}
}

func (h *CartHandler) cartReply(agg *cart.Aggregate) gin.H {
	return gin.H{
		"items": agg.Lines,
		"count": agg.ItemCount(),
		"total": agg.Total(),
	}
}

// save persists and signals; never fails the request.
func (h *CartHandler) save(ctx context.Context, userID string, agg *cart.Aggregate, event string) {
	if err := h.carts.Save(ctx, userID, agg); err != nil {
		log.Printf("⚠️ Cart save failed for %s, continuing session-only: %v", userID, err)
		return
	}
	h.notifier.Notify(ctx, userID, event)
}

// 🟢 GET /api/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	agg, err := h.carts.Load(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load cart"})
		return
	}
	c.JSON(http.StatusOK, h.cartReply(agg))
}

// 🟢 POST /api/cart/add
func (h *CartHandler) AddToCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var input struct {
		ProductID   string `json:"productId"`
		Quantity    int    `json:"quantity"`
		DeliveryDay string `json:"deliveryDay"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	if input.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quantity"})
		return
	}
	if input.DeliveryDay != "" && !cart.ValidDeliveryDay(input.DeliveryDay) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid delivery day"})
		return
	}

	ctx := c.Request.Context()

	product, err := h.catalog.GetProduct(ctx, input.ProductID)
	if err == catalog.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Catalog unavailable"})
		return
	}

	agg, err := h.carts.Load(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load cart"})
		return
	}

	agg.Add(product, input.Quantity, cart.AddOptions{DeliveryDay: input.DeliveryDay})
	h.save(ctx, userID, agg, cart.EventUpdated)

	c.JSON(http.StatusOK, h.cartReply(agg))
}

// 🟢 POST /api/cart/combo/:comboId
func (h *CartHandler) AddComboToCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	ctx := c.Request.Context()

	combo, err := h.catalog.GetCombo(ctx, c.Param("comboId"))
	if err == catalog.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Combo not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Catalog unavailable"})
		return
	}

	// Resolve every product before touching the cart so the add is all or
	// nothing.
	products := make(map[string]models.Product, len(combo.Items))
	for _, item := range combo.Items {
		p, err := h.catalog.GetProduct(ctx, item.ProductID)
		if err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Combo references a product that is no longer available"})
			return
		}
		products[item.ProductID] = p
	}

	agg, err := h.carts.Load(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load cart"})
		return
	}

	// Each add of the same combo gets its own instance id, so two of the same
	// box can be removed one at a time.
	comboInstanceID := uuid.NewString()
	if err := agg.AddCombo(combo, products, comboInstanceID); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	h.save(ctx, userID, agg, cart.EventUpdated)

	c.JSON(http.StatusOK, gin.H{
		"combo_instance_id": comboInstanceID,
		"items":             agg.Lines,
		"count":             agg.ItemCount(),
		"total":             agg.Total(),
	})
}

// 🟡 PUT /api/cart/quantity
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var input struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.ProductID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	ctx := c.Request.Context()
	agg, err := h.carts.Load(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load cart"})
		return
	}

	if !agg.UpdateQuantity(input.ProductID, input.Quantity) {
		log.Printf("⚠️ UpdateQuantity: product %s not in cart of %s", input.ProductID, userID)
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not in cart"})
		return
	}
	h.save(ctx, userID, agg, cart.EventUpdated)

	c.JSON(http.StatusOK, h.cartReply(agg))
}

// 🟡 PUT /api/cart/delivery-day
func (h *CartHandler) SetDeliveryDay(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var input struct {
		ProductID   string `json:"productId"`
		DeliveryDay string `json:"deliveryDay"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.ProductID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	if !cart.ValidDeliveryDay(input.DeliveryDay) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid delivery day"})
		return
	}

	ctx := c.Request.Context()
	agg, err := h.carts.Load(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load cart"})
		return
	}

	if !agg.SetDeliveryDay(input.ProductID, input.DeliveryDay) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not in cart"})
		return
	}
	h.save(ctx, userID, agg, cart.EventUpdated)

	c.JSON(http.StatusOK, h.cartReply(agg))
}

// ❌ DELETE /api/cart/:productId
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	ctx := c.Request.Context()
	agg, err := h.carts.Load(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load cart"})
		return
	}

	// Removing an absent product is fine, the reply is the unchanged cart.
	agg.Remove(c.Param("productId"))
	h.save(ctx, userID, agg, cart.EventUpdated)

	c.JSON(http.StatusOK, h.cartReply(agg))
}

// ❌ DELETE /api/cart/combo/:comboInstanceId
func (h *CartHandler) RemoveComboFromCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	ctx := c.Request.Context()
	agg, err := h.carts.Load(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load cart"})
		return
	}

	agg.RemoveCombo(c.Param("comboInstanceId"))
	h.save(ctx, userID, agg, cart.EventUpdated)

	c.JSON(http.StatusOK, h.cartReply(agg))
}

// 🧹 DELETE /api/cart/clear
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	ctx := c.Request.Context()
	if err := h.carts.Delete(ctx, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not clear cart"})
		return
	}
	h.notifier.Notify(ctx, userID, cart.EventCleared)

	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
