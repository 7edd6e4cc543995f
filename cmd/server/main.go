package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/bennettchamberlain/superhot-fab/internal/catalog"
	"github.com/bennettchamberlain/superhot-fab/internal/checkout"
	"github.com/bennettchamberlain/superhot-fab/internal/config"
	h "github.com/bennettchamberlain/superhot-fab/internal/http"
	"github.com/bennettchamberlain/superhot-fab/internal/storage"
)

func main() {
	cfg := config.Load()

	if cfg.StripeSecretKey == "" {
		log.Fatal("STRIPE_SECRET_KEY is required")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")

	cartStorage := storage.NewRedisStorage(redisClient)

	contentClient := catalog.NewHTTPContentClient(cfg.ContentEndpoint, nil)
	productCache := catalog.NewRedisCache(redisClient)
	catalogService := catalog.NewService(contentClient, productCache)

	provider := checkout.NewStripeProvider(cfg.StripeSecretKey)
	returnURL := cfg.BaseURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}"
	checkoutService := checkout.NewService(provider, returnURL)

	cartHandler := h.NewCartHandler(cartStorage, cfg.RequestTimeout)
	checkoutHandler := h.NewCheckoutHandler(checkoutService, cartStorage, cfg.RequestTimeout)
	productHandler := h.NewProductHandler(catalogService, cfg.RequestTimeout)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(h.SessionMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
		})
		r.Post("/checkout", checkoutHandler.CreateSession)
		r.Get("/checkout/session", checkoutHandler.SessionSecret)
		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.ListProducts)
			r.Get("/{slug}", productHandler.GetProduct)
		})
	})
	r.Get("/checkout/success", checkoutHandler.Success)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
