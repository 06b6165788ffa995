package handlers

import (
	"errors"
	"log"
	"net/http"

	"farmbasket_back_end/internal/models"
	"farmbasket_back_end/internal/profile"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// AddressHandler manages delivery addresses. Having at least one is the
// precondition for submitting a weekly request.
type AddressHandler struct {
	store *profile.AddressStore
}

func NewAddressHandler(store *profile.AddressStore) *AddressHandler {
	return &AddressHandler{store: store}
}

type addressInput struct {
	Label         string `json:"label"`
	Street        string `json:"street"`
	VillageOrCity string `json:"villageOrCity"`
	District      string `json:"district"`
	Pincode       string `json:"pincode"`
	IsDefault     bool   `json:"isDefault"`
}

// 🟢 GET /api/addresses/mine
func (h *AddressHandler) ListMyAddresses(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	addresses, err := h.store.List(c.Request.Context(), userID)
	if err != nil {
		log.Println("❌ Address listing error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load addresses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"addresses": addresses})
}

// 🟢 POST /api/addresses
func (h *AddressHandler) CreateAddress(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var input addressInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Street == "" || input.Pincode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	address, err := h.store.Create(c.Request.Context(), models.Address{
		UserID:        userID,
		Label:         input.Label,
		Street:        input.Street,
		VillageOrCity: input.VillageOrCity,
		District:      input.District,
		Pincode:       input.Pincode,
		IsDefault:     input.IsDefault,
	})
	if err != nil {
		log.Println("❌ Address creation error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save address"})
		return
	}

	c.JSON(http.StatusCreated, address)
}

func (h *AddressHandler) addressID(c *gin.Context) (gocql.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address id"})
		return gocql.UUID{}, false
	}
	return gocql.UUID(id), true
}

// 🟡 PUT /api/addresses/:id
func (h *AddressHandler) UpdateAddress(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	id, ok := h.addressID(c)
	if !ok {
		return
	}

	var input addressInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Street == "" || input.Pincode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	err := h.store.Update(c.Request.Context(), models.Address{
		ID:            id,
		UserID:        userID,
		Label:         input.Label,
		Street:        input.Street,
		VillageOrCity: input.VillageOrCity,
		District:      input.District,
		Pincode:       input.Pincode,
		IsDefault:     input.IsDefault,
	})
	if errors.Is(err, profile.ErrAddressNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update address"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Address updated"})
}

// ❌ DELETE /api/addresses/:id
func (h *AddressHandler) DeleteAddress(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	id, ok := h.addressID(c)
	if !ok {
		return
	}

	err := h.store.Delete(c.Request.Context(), userID, id)
	if errors.Is(err, profile.ErrAddressNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete address"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Address deleted"})
}

// 🟡 PUT /api/addresses/:id/default
func (h *AddressHandler) SetDefaultAddress(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	id, ok := h.addressID(c)
	if !ok {
		return
	}

	err := h.store.SetDefault(c.Request.Context(), userID, id)
	if errors.Is(err, profile.ErrAddressNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not set default address"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Default address set"})
}
