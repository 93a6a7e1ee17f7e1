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

	"github.com/hryucha/protein-catalog/app/catalog"
	"github.com/hryucha/protein-catalog/app/filters"
	"github.com/hryucha/protein-catalog/app/middleware"
	"github.com/hryucha/protein-catalog/app/sheet"
	"github.com/hryucha/protein-catalog/config"
	"github.com/hryucha/protein-catalog/models"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	logger, err := zcfg.Build()
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	store, closeStore, err := openStore(cfg)
	if err != nil {
		logger.Fatal("failed to open filter store", zap.Error(err))
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := sheet.NewClient(&http.Client{Timeout: cfg.FetchTimeout}, cfg.SheetURL, cfg.SheetFormat)
	products := catalog.NewService(client, catalog.Options{
		TTL:        cfg.CacheTTL,
		Retries:    cfg.FetchRetries,
		RetryDelay: cfg.FetchRetryDelay,
	}, logger.Named("catalog"))

	session := filters.NewSession(store, logger.Named("filters"))
	session.Restore(ctx, nil)

	// Warm the cache; a failure here is retried on the first request.
	if _, err := products.Refresh(ctx); err != nil {
		logger.Warn("initial product load failed", zap.String("url", client.URL()), zap.Error(err))
	}

	catalogHandler := catalog.NewCatalogHandler(products, logger.Named("http"))
	filtersHandler := filters.NewFiltersHandler(session)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /catalog", catalogHandler.HandleGet)
	mux.HandleFunc("GET /catalog/{id}", catalogHandler.HandleGetProduct)
	mux.HandleFunc("POST /catalog/refresh", catalogHandler.HandleRefresh)
	mux.HandleFunc("GET /filters", filtersHandler.HandleGet)
	mux.HandleFunc("PUT /filters", filtersHandler.HandleUpdate)
	mux.HandleFunc("DELETE /filters", filtersHandler.HandleReset)
	mux.HandleFunc("GET /presets", filtersHandler.HandleGetPresets)
	mux.HandleFunc("POST /presets/{key}", filtersHandler.HandleSelectPreset)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           middleware.Logging(logger.Named("http"), mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func openStore(cfg *config.Config) (models.FilterStatePersistence, func(), error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := models.OpenPostgres(cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		repo := models.NewFiltersRepository(db, cfg.StorageKey)
		if err := repo.Migrate(); err != nil {
			return nil, nil, err
		}
		return repo, func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		}, nil
	case config.StoreSQLite:
		store, err := models.NewSQLiteFilterStore(cfg.SQLitePath, cfg.StorageKey)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	default:
		return models.NewMemoryFilterStore(), func() {}, nil
	}
}
