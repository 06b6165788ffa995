package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"

	"farmbasket_back_end/internal/auth"
	"farmbasket_back_end/internal/cart"
	"farmbasket_back_end/internal/catalog"
	"farmbasket_back_end/internal/config"
	"farmbasket_back_end/internal/database"
	"farmbasket_back_end/internal/handlers"
	"farmbasket_back_end/internal/models"
	"farmbasket_back_end/internal/profile"
	"farmbasket_back_end/internal/request"
	"farmbasket_back_end/internal/routes"
	"farmbasket_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
)

func main() {
	config.Load()

	database.ConnectDatabases()

	// Prepared statements for the auth hot path
	database.InitPreparedStatements()

	warmupRedisCache()

	initOAuthProviders()

	// Core wiring: everything the cart and request flows touch is an explicit
	// dependency, constructed once here.
	carts := cart.NewRedisStore(database.Redis)
	notifier := cart.NewRedisNotifier(database.Redis)
	source := catalog.NewScyllaSource()
	orders := request.NewScyllaOrderService()
	addresses := profile.NewAddressStore()

	submitter := request.NewSubmitter(carts, orders, addresses, notifier)
	submitter.AfterSubmit = sendConfirmationEmail

	otp := auth.NewOTPService(database.Redis, auth.LogSMSSender{})

	r := gin.Default()
	routes.RegisterRoutes(r, routes.Handlers{
		Auth:    handlers.NewAuthHandler(otp),
		Cart:    handlers.NewCartHandler(carts, notifier, source),
		Request: handlers.NewRequestHandler(submitter, orders),
		Product: handlers.NewProductHandler(source),
		Address: handlers.NewAddressHandler(addresses),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 FarmBasket server listening on port", port)
	r.Run(":" + port)
}

// sendConfirmationEmail runs after a request is accepted. Best effort: users
// without an email on file simply do not get one.
func sendConfirmationEmail(req models.Request) {
	user, err := auth.GetUser(context.Background(), req.UserID)
	if err != nil || user.Email == "" {
		return
	}

	html := utils.GenerateRequestConfirmationHTML(req)
	if err := utils.SendConfirmationEmail(user.Email, "Your FarmBasket weekly request", html, nil); err != nil {
		log.Printf("⚠️ Confirmation email for request %s failed: %v", req.ID, err)
	}
}

func initOAuthProviders() {
	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		log.Println("⚠️ SESSION_SECRET missing, social sign-in disabled")
		return
	}

	store := sessions.NewCookieStore([]byte(sessionSecret))
	store.MaxAge(86400 * 30)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   false, // false in dev, true in prod
		SameSite: http.SameSiteLaxMode,
	}

	gothic.Store = store

	// goth needs to find the provider in the request
	gothic.GetProviderName = func(req *http.Request) (string, error) {
		if provider := req.URL.Query().Get("provider"); provider != "" {
			return provider, nil
		}
		if provider := req.FormValue("provider"); provider != "" {
			return provider, nil
		}
		if provider, ok := req.Context().Value(handlers.ProviderKey).(string); ok && provider != "" {
			return provider, nil
		}
		return "", errors.New("provider not found")
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	googleClientID := os.Getenv("GOOGLE_CLIENT_ID")
	googleClientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	if googleClientID == "" || googleClientSecret == "" {
		log.Println("⚠️ No OAuth provider configured")
		return
	}

	goth.UseProviders(google.New(
		googleClientID,
		googleClientSecret,
		baseURL+"/api/auth/google/callback",
	))
	log.Println("✅ Google OAuth enabled")
}

// warmupRedisCache pings Redis so the first request does not pay the
// connection setup
func warmupRedisCache() {
	ctx := context.Background()
	if err := database.Redis.Ping(ctx).Err(); err == nil {
		log.Println("✅ Redis cache warmed up")
	}
}
