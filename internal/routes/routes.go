package routes

import (
	"os"
	"strings"

	"farmbasket_back_end/internal/handlers"
	"farmbasket_back_end/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the route table wires up. Constructed in main
// so nothing here depends on ambient state.
type Handlers struct {
	Auth    *handlers.AuthHandler
	Cart    *handlers.CartHandler
	Request *handlers.RequestHandler
	Product *handlers.ProductHandler
	Address *handlers.AddressHandler
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	allowedOrigins := []string{"http://localhost:3000"}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		allowedOrigins = strings.Split(origins, ",")
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Farmer-Key"},
		AllowCredentials: true,
	}))

	api := r.Group("/api")
	api.Use(middleware.APIRateLimit())

	// Auth
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/otp/send", middleware.OTPSendRateLimit(), h.Auth.SendOTP)
		authGroup.POST("/otp/verify", h.Auth.VerifyOTP)
		authGroup.GET("/:provider", handlers.BeginAuth)
		authGroup.GET("/:provider/callback", handlers.CallbackAuth)
	}

	// Catalog (public)
	api.GET("/products", h.Product.ListProducts)
	api.GET("/products/search", h.Product.SearchProducts)
	api.GET("/products/:id", h.Product.GetProduct)
	api.GET("/farmers", h.Product.ListFarmers)
	api.GET("/farmers/:id", h.Product.GetFarmer)
	api.GET("/combos", h.Product.ListCombos)
	api.GET("/combos/:id", h.Product.GetCombo)
	api.GET("/images/signed-url", handlers.SignedImageURL)

	// Catalog writes (co-op back office)
	farmer := api.Group("/")
	farmer.Use(middleware.FarmerKeyRequired())
	{
		farmer.POST("/products", h.Product.CreateProduct)
		farmer.PUT("/products/:id", h.Product.UpdateProduct)
		farmer.POST("/images/upload", handlers.UploadImage)
	}

	// Everything below needs a signed-in user
	user := api.Group("/")
	user.Use(middleware.AuthRequired())
	{
		user.GET("/me", h.Auth.Me)
		user.PUT("/me", h.Auth.UpdateMe)

		user.GET("/cart", h.Cart.GetCart)
		user.POST("/cart/add", h.Cart.AddToCart)
		user.POST("/cart/combo/:comboId", h.Cart.AddComboToCart)
		user.PUT("/cart/quantity", h.Cart.UpdateQuantity)
		user.PUT("/cart/delivery-day", h.Cart.SetDeliveryDay)
		user.DELETE("/cart/clear", h.Cart.ClearCart)
		user.DELETE("/cart/combo/:comboInstanceId", h.Cart.RemoveComboFromCart)
		user.DELETE("/cart/:productId", h.Cart.RemoveFromCart)
		user.GET("/cart/ws", h.Cart.CartWebSocket)

		user.POST("/requests", h.Request.SubmitRequest)
		user.GET("/requests", h.Request.ListMyRequests)
		user.GET("/requests/:id", h.Request.GetRequest)
		user.POST("/requests/:id/cancel", h.Request.CancelRequest)
		user.GET("/requests/:id/qr", h.Request.RequestQR)
		user.GET("/requests/:id/pdf", h.Request.RequestPDF)

		user.GET("/addresses/mine", h.Address.ListMyAddresses)
		user.POST("/addresses", h.Address.CreateAddress)
		user.PUT("/addresses/:id", h.Address.UpdateAddress)
		user.PUT("/addresses/:id/default", h.Address.SetDefaultAddress)
		user.DELETE("/addresses/:id", h.Address.DeleteAddress)
	}
}
