package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"farmbasket_back_end/internal/database"

	"github.com/gin-gonic/gin"
)

const (
	// OTP issuance limits. Codes cost SMS money and brute-forceable codes
	// cost more.
	OTPPhoneMaxSends = 3
	OTPIPMaxSends    = 10
	APIMaxRequests   = 100 // per minute for general endpoints

	OTPPhoneWindow = 10 * time.Minute
	OTPIPWindow    = 1 * time.Hour
	APICooldown    = 1 * time.Minute
)

// OTPSendRateLimit caps challenge sends per phone number and per client IP.
func OTPSendRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		bodyBytes, _ := io.ReadAll(c.Request.Body)

		var input struct {
			Phone string `json:"phone"`
		}
		if err := json.Unmarshal(bodyBytes, &input); err != nil || input.Phone == "" {
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			c.Next()
			return
		}

		// Hand the body back to the handler
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		ctx := context.Background()

		if blocked, retryAfter := bumpCounter(ctx, "otp_phone:"+input.Phone, OTPPhoneMaxSends, OTPPhoneWindow); blocked {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("Too many codes requested for this number. Try again in %d minutes", int(retryAfter.Minutes())+1),
				"retry_after": int(retryAfter.Seconds()),
			})
			c.Abort()
			return
		}

		if blocked, retryAfter := bumpCounter(ctx, "otp_ip:"+c.ClientIP(), OTPIPMaxSends, OTPIPWindow); blocked {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many codes requested from this address",
				"retry_after": int(retryAfter.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// bumpCounter increments a windowed Redis counter and reports whether the
// caller just went over the limit.
func bumpCounter(ctx context.Context, key string, max int, window time.Duration) (bool, time.Duration) {
	count, _ := database.Redis.Get(ctx, key).Int()
	if count >= max {
		ttl := database.Redis.TTL(ctx, key).Val()
		return true, ttl
	}

	pipe := database.Redis.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Exec(ctx)
	if incr.Val() == 1 {
		database.Redis.Expire(ctx, key, window)
	}
	return false, 0
}

// APIRateLimit is the blanket per-IP limiter on public endpoints.
func APIRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		key := "api_requests:" + c.ClientIP()

		if blocked, retryAfter := bumpCounter(ctx, key, APIMaxRequests, APICooldown); blocked {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests",
				"retry_after": int(retryAfter.Seconds()),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
