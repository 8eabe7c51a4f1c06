package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"vitrine/config"
	"vitrine/internal/api"
	"vitrine/internal/catalog"
	"vitrine/internal/db"
	"vitrine/internal/gateway"
	"vitrine/internal/model"
	"vitrine/internal/notification"
	"vitrine/internal/reservation"
	"vitrine/internal/session"
	"vitrine/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "vitrine ", log.LstdFlags)

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
		}
		logger.Printf("no configuration at %s, using defaults", configPath)
		cfg = config.Default()
	} else {
		logger.Printf("configuration loaded successfully from %s", configPath)
	}

	gormDB, err := db.Init(&cfg.State)
	if err != nil {
		logger.Fatalf("failed to initialize state database: %v", err)
	}
	logger.Println("state database initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)

	sessions := session.NewManager(appStore)
	if err := sessions.Initialize(ctx); err != nil {
		logger.Printf("session restore failed: %v", err)
	}

	gw, err := gateway.New(cfg.Backend.BaseURL, cfg.Backend.Timeout, sessions)
	if err != nil {
		logger.Fatalf("failed to initialize backend gateway: %v", err)
	}
	gw.SetUnauthorizedHook(func() {
		logger.Println("backend rejected the session token, logging out")
		sessions.Logout(context.Background())
	})

	pageSize := cfg.Listing.PageSize

	products := catalog.New(ctx, func(ctx context.Context, f catalog.FilterState) (model.Page[model.Product], error) {
		return gw.FilteredProducts(ctx, productQuery(f, pageSize))
	}, cfg.Listing.Debounce)
	defer products.Stop()

	manageProducts := catalog.New(ctx, func(ctx context.Context, f catalog.FilterState) (model.Page[model.Product], error) {
		return gw.ManageProducts(ctx, productQuery(f, pageSize))
	}, cfg.Listing.Debounce)
	defer manageProducts.Stop()

	manageCategories := catalog.New(ctx, func(ctx context.Context, f catalog.FilterState) (model.Page[model.Category], error) {
		return gw.ManageCategories(ctx, gateway.CategoryQuery{
			Nome:     f.Nome,
			Situacao: f.Situacao,
			Page:     f.Page,
			Size:     pageSize,
		})
	}, cfg.Listing.CategoryDebounce)
	defer manageCategories.Stop()

	products.Refresh()

	// Admin listings hit authenticated endpoints, so their first fetch waits
	// for an admin session.
	go func() {
		for st := range sessions.Subscribe() {
			if st.IsAuthenticated && st.Role == session.RoleAdmin {
				manageProducts.Refresh()
				manageCategories.Refresh()
			}
		}
	}()

	reservations := reservation.NewWorkflow(gw, sessions)

	poller := notification.NewPoller(gw)
	go poller.Run(ctx, sessions.Subscribe())

	handler := api.NewHandler(sessions, appStore, gw, products, manageProducts, manageCategories, reservations, poller)
	router := api.NewRouter(&cfg.Server, handler)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}

func productQuery(f catalog.FilterState, size int) gateway.ProductQuery {
	return gateway.ProductQuery{
		Nome:        f.Nome,
		Descricao:   f.Descricao,
		CategoriaID: f.CategoriaID,
		Tamanho:     f.Tamanho,
		Situacao:    f.Situacao,
		Page:        f.Page,
		Size:        size,
	}
}
