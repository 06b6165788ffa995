package handlers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"farmbasket_back_end/internal/database"
	"farmbasket_back_end/internal/request"
	"farmbasket_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// RequestHandler exposes the weekly-request flow.
type RequestHandler struct {
	submitter *request.Submitter
	orders    *request.ScyllaOrderService
}

func NewRequestHandler(submitter *request.Submitter, orders *request.ScyllaOrderService) *RequestHandler {
	return &RequestHandler{submitter: submitter, orders: orders}
}

const submitLockTTL = 10 * time.Second

// 🟢 POST /api/requests
func (h *RequestHandler) SubmitRequest(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var input struct {
		DeliveryDay string `json:"deliveryDay"`
		AddressID   string `json:"addressId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	ctx := c.Request.Context()

	// One in-flight submission per user. A double click hits the lock, not
	// the order service.
	lockKey := "submit_lock:" + userID
	locked, err := database.Redis.SetNX(ctx, lockKey, "1", submitLockTTL).Result()
	if err == nil && !locked {
		c.JSON(http.StatusConflict, gin.H{"error": "A submission is already in progress"})
		return
	}
	defer database.Redis.Del(ctx, lockKey)

	req, err := h.submitter.Submit(ctx, userID, input.DeliveryDay, input.AddressID)
	switch {
	case errors.Is(err, request.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
		return
	case errors.Is(err, request.ErrBadDeliveryDay):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid delivery day"})
		return
	case errors.Is(err, request.ErrMissingAddress):
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": "Add a delivery address before submitting"})
		return
	case err != nil:
		log.Printf("❌ Request submission failed for %s: %v", userID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not submit your request, your cart is unchanged. Please retry."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Weekly request submitted",
		"request_id": req.ID.String(),
		"total":      req.TotalAmount,
		"status":     req.Status,
	})
}

// 🟢 GET /api/requests
func (h *RequestHandler) ListMyRequests(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	requests, err := h.orders.ListByUser(c.Request.Context(), userID)
	if err != nil {
		log.Println("❌ Request listing error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func (h *RequestHandler) requestID(c *gin.Context) (gocql.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request id"})
		return gocql.UUID{}, false
	}
	return gocql.UUID(id), true
}

// 🟢 GET /api/requests/:id
func (h *RequestHandler) GetRequest(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	id, ok := h.requestID(c)
	if !ok {
		return
	}

	req, err := h.orders.Get(c.Request.Context(), userID, id)
	if errors.Is(err, request.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load request"})
		return
	}

	c.JSON(http.StatusOK, req)
}

// ❌ POST /api/requests/:id/cancel
func (h *RequestHandler) CancelRequest(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	id, ok := h.requestID(c)
	if !ok {
		return
	}

	err := h.orders.Cancel(c.Request.Context(), userID, id)
	if errors.Is(err, request.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request cancelled"})
}

// 🟢 GET /api/requests/:id/qr: pickup QR the runner scans at handover
func (h *RequestHandler) RequestQR(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	id, ok := h.requestID(c)
	if !ok {
		return
	}

	req, err := h.orders.Get(c.Request.Context(), userID, id)
	if errors.Is(err, request.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load request"})
		return
	}

	png, err := utils.GeneratePickupQR(req.ID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate QR"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// 🟢 GET /api/requests/:id/pdf: printable summary
func (h *RequestHandler) RequestPDF(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	id, ok := h.requestID(c)
	if !ok {
		return
	}

	req, err := h.orders.Get(c.Request.Context(), userID, id)
	if errors.Is(err, request.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load request"})
		return
	}

	qrDataURI, err := utils.GeneratePickupQRDataURI(req.ID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate QR"})
		return
	}

	frontendURL := os.Getenv("FRONTEND_SUMMARY_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000/request-summary"
	}

	pdf, err := utils.RenderRequestSummaryPDF(frontendURL, req.ID.String(), qrDataURI)
	if err != nil {
		log.Println("❌ PDF rendering error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not render PDF"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=farmbasket_request.pdf")
	c.Data(http.StatusOK, "application/pdf", pdf)
}
