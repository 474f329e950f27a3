package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"

	"github.com/ironwala/ironwala-api/internal/address"
	addressstore "github.com/ironwala/ironwala-api/internal/address/firestore"
	"github.com/ironwala/ironwala-api/internal/geo"
	"github.com/ironwala/ironwala-api/internal/geo/nominatim"
	"github.com/ironwala/ironwala-api/internal/httpx"
	"github.com/ironwala/ironwala-api/internal/identity/firebaseauth"
	"github.com/ironwala/ironwala-api/internal/order"
	orderstore "github.com/ironwala/ironwala-api/internal/order/firestore"
	"github.com/ironwala/ironwala-api/internal/pkg/cache"
	"github.com/ironwala/ironwala-api/internal/pkg/telemetry"
	pricingstore "github.com/ironwala/ironwala-api/internal/pricing/firestore"
)

func main() {
	telemetry.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, getEnv("OTEL_SERVICE_NAME", "ironwala-api"))
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	projectID := getEnv("FIREBASE_PROJECT_ID", "ironwala-db")

	fsClient, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		slog.Error("failed to create firestore client", "error", err)
		os.Exit(1)
	}
	defer fsClient.Close()

	fbApp, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID})
	if err != nil {
		slog.Error("failed to initialise firebase app", "error", err)
		os.Exit(1)
	}
	authClient, err := fbApp.Auth(ctx)
	if err != nil {
		slog.Error("failed to create auth client", "error", err)
		os.Exit(1)
	}

	redisCache := cache.NewRedisCache(getEnv("REDIS_ADDR", "localhost:6379"), "ironwala-api")

	ids := firebaseauth.NewClient(authClient, os.Getenv("FIREBASE_WEB_API_KEY"))

	geocoder := geo.NewCachedGeocoder(
		nominatim.NewClient(os.Getenv("NOMINATIM_BASE_URL"), "ironwala-api/1.0"),
		redisCache,
	)
	resolver := address.NewResolver(geocoder)
	addressRepo := addressstore.NewRepository(fsClient)

	configSource := pricingstore.NewConfigSource(fsClient, redisCache)

	orderRepo := orderstore.NewRepository(fsClient)
	orderService := order.NewService(orderRepo, orderRepo, redisCache)

	handler := httpx.NewHandler(ids, resolver, addressRepo, configSource, orderService)
	router := httpx.NewRouter(handler, ids)

	addr := getEnv("HTTP_ADDR", ":8080")
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("ironwala api listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}
	slog.Info("ironwala api stopped")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
