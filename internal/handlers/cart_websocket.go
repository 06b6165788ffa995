package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"farmbasket_back_end/internal/cart"
	"farmbasket_back_end/internal/database"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins (tighten in production)
		return true
	},
}

// CartWebSocket keeps open tabs in sync with the cart. It listens on the
// per-user Redis channel the cart notifier publishes to and pushes the
// refreshed cart on every change. Purely cosmetic; the REST replies stay
// authoritative.
func (h *CartHandler) CartWebSocket(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ WebSocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	ctx := context.Background()

	pubsub := database.Redis.Subscribe(ctx, "cart:"+userID)
	defer pubsub.Close()

	ch := pubsub.Channel()

	conn.WriteJSON(map[string]interface{}{
		"type":    "connected",
		"message": "Cart sync active",
	})

	for {
		select {
		case msg := <-ch:
			if msg.Payload != cart.EventUpdated && msg.Payload != cart.EventCleared {
				continue
			}

			agg, err := h.carts.Load(ctx, userID)
			if err != nil {
				log.Printf("⚠️ WebSocket cart load failed for %s: %v", userID, err)
				agg = cart.New()
			}

			response := map[string]interface{}{
				"type":  "cart_updated",
				"items": agg.Lines,
				"total": agg.Total(),
				"count": agg.ItemCount(),
			}
			if err := conn.WriteJSON(response); err != nil {
				log.Printf("❌ WebSocket write error: %v", err)
				return
			}
		case <-time.After(30 * time.Second):
			// Ping to keep the connection alive
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
