package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/auracommerce/storefront/internal/auth"
	"github.com/auracommerce/storefront/internal/cart"
	"github.com/auracommerce/storefront/internal/catalog"
	"github.com/auracommerce/storefront/internal/config"
	"github.com/auracommerce/storefront/internal/events"
	"github.com/auracommerce/storefront/internal/handlers"
	"github.com/auracommerce/storefront/internal/localstore"
	"github.com/auracommerce/storefront/internal/logging"
	"github.com/auracommerce/storefront/internal/middleware"
	"github.com/auracommerce/storefront/internal/promo"
	httpserver "github.com/auracommerce/storefront/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	db, err := config.OpenDB(cfg)
	if err != nil {
		log.Fatalf("storage error: %v", err)
	}

	store, err := localstore.New(db)
	if err != nil {
		log.Fatalf("storage error: %v", err)
	}

	cat, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("catalog error: %v", err)
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.StorageTopic)
	}

	authSvc := &auth.Service{
		Store:     store,
		JWTSecret: []byte(cfg.JWTSecret),
		Events:    publisher,
	}
	session := &middleware.Session{Auth: authSvc}

	carts := cart.NewStore()
	shipping := cart.ShippingPolicy{FreeThreshold: cfg.FreeShippingOver, Fee: cfg.ShippingFee}

	countdown := promo.NewDealCountdown()
	slides := promo.NewRotator(4, 6*time.Second)

	promoCtx, promoCancel := context.WithCancel(context.Background())
	go slides.Run(promoCtx)

	e := echo.New()
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := logging.IntoContext(c.Request().Context(), logger)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})

	deps := httpserver.Deps{
		AuthHandler:     &handlers.AuthHandler{Auth: authSvc},
		ProductHandler:  &handlers.ProductHandler{Catalog: cat},
		CartHandler:     &handlers.CartHandler{Carts: carts, Catalog: cat, Shipping: shipping, Events: publisher},
		EstimateHandler: &handlers.EstimateHandler{Countdown: countdown, Slides: slides},
		Session:         session,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	promoCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := publisher.Close(); err != nil {
		log.Printf("events close error: %v", err)
	}

	log.Println("shutdown complete")
}
