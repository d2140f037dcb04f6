package main

// GET  /                          - the shopping cart page
// POST /inventory/{id}/increment  - raise a row counter
// POST /inventory/{id}/decrement  - lower a row counter
// POST /inventory/{id}/add        - add the counted amount to the cart
// POST /cart/{id}/edit            - open the edit form for a line
// POST /cart/{id}/delete          - remove a line
// POST /edit/save                 - save the edit form
// POST /checkout                  - clear the cart

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopping-cart/api"
	"shopping-cart/config"
	"shopping-cart/controller"
	"shopping-cart/frontend"
	"shopping-cart/logging"
	"shopping-cart/telemetry"
	"shopping-cart/view"
)

func main() {
	cfg, err := config.LoadFrontend(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logging.New("info", os.Stderr).Fatalf("config: %v", err)
	}
	log := logging.New(cfg.LogLevel, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.InitTracerProvider(ctx, "shopping-cart", cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("tracer provider: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Printf("Error shutting down tracer provider: %v", err)
		}
	}()

	// --- Coordinator ---
	client := api.NewClient(cfg.APIURL, api.WithLogger(log))
	page := view.NewPage()
	ctrl := controller.New(client, page, log)
	if err := ctrl.Init(ctx); err != nil {
		// the page still serves whatever loaded
		log.WithError(err).Error("initial load failed")
	}

	// --- Server ---
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      frontend.New(page, log).Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
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

	log.WithField("api_url", cfg.APIURL).Infof("Shopping cart running on %s", cfg.Addr())
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
