package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"shopping-cart/config"
	"shopping-cart/handler"
	"shopping-cart/logging"
	"shopping-cart/service"
	"shopping-cart/store"
	"shopping-cart/telemetry"
)

func main() {
	cfg, err := config.LoadBackend(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logging.New("info", os.Stderr).Fatalf("config: %v", err)
	}
	log := logging.New(cfg.LogLevel, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.InitTracerProvider(ctx, "cartbackend", cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("tracer provider: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Printf("Error shutting down tracer provider: %v", err)
		}
	}()

	// --- Store ---
	st, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer st.Close()

	if cfg.Seed {
		if err := st.SeedInventory(ctx, store.DefaultInventory()); err != nil {
			log.Fatalf("seed inventory: %v", err)
		}
	}

	// --- Service / Handlers ---
	svc := service.NewService(st)
	var serviceInterface service.ServiceInterface = svc
	h := handler.NewHandler(serviceInterface, log)

	// --- Router ---
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("cartbackend"))
	h.RegisterRoutes(r)

	// --- Server ---
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("server shutdown failed")
		}
	}()

	log.WithField("store", cfg.Store).Infof("Cart backend running on %s", cfg.Addr())
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}

func openStore(ctx context.Context, cfg config.Backend, log *logrus.Logger) (store.Store, error) {
	switch cfg.Store {
	case "postgres":
		pg, err := store.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, err
		}
		log.Println("Database migrations executed successfully")
		return pg, nil
	case "redis":
		rs := store.NewRedisStore(cfg.RedisAddr, log)
		if err := rs.Initialize(ctx, 10); err != nil {
			rs.Close()
			return nil, err
		}
		return rs, nil
	default:
		return store.NewMemoryStore(), nil
	}
}
