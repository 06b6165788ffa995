package handlers

import (
	"errors"
	"log"
	"net/http"
	"regexp"

	"farmbasket_back_end/internal/auth"
	"farmbasket_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler runs the phone OTP exchange and profile endpoints.
type AuthHandler struct {
	otp *auth.OTPService
}

func NewAuthHandler(otp *auth.OTPService) *AuthHandler {
	return &AuthHandler{otp: otp}
}

// Indian mobile numbers, with or without the country code.
var phoneRe = regexp.MustCompile(`^(\+91)?[6-9][0-9]{9}$`)

// 🟢 POST /api/auth/otp/send
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var input struct {
		Phone string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || !phoneRe.MatchString(input.Phone) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid phone number"})
		return
	}

	handle, err := h.otp.SendChallenge(c.Request.Context(), input.Phone)
	if err != nil {
		log.Println("❌ OTP send error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not send the code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Code sent",
		"challenge": handle,
	})
}

// 🟢 POST /api/auth/otp/verify
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var input struct {
		Challenge string `json:"challenge"`
		Code      string `json:"code"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Challenge == "" || input.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	ctx := c.Request.Context()

	phone, err := h.otp.Verify(ctx, input.Challenge, input.Code)
	switch {
	case errors.Is(err, auth.ErrChallengeExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Code expired, request a new one"})
		return
	case errors.Is(err, auth.ErrTooManyAttempts):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Too many wrong codes, request a new one"})
		return
	case errors.Is(err, auth.ErrBadCode):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Wrong code"})
		return
	case err != nil:
		log.Println("❌ OTP verify error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
		return
	}

	user, err := auth.UpsertUserByPhone(ctx, phone)
	if err != nil {
		log.Println("❌ User upsert error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not sign you in"})
		return
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"user_id": user.ID,
		"phone":   user.Phone,
		"name":    user.Name,
	})
}

// 🟢 GET /api/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	user, err := auth.GetUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// 🟡 PUT /api/me
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var input struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	if err := auth.UpdateProfile(c.Request.Context(), userID, input.Name, input.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}
