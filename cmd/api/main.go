package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"storefront-backend/internal/checkout"
	"storefront-backend/internal/config"
	"storefront-backend/internal/db"
	"storefront-backend/internal/httpserver"
	"storefront-backend/internal/notify"
	"storefront-backend/internal/payment"
	customerrepo "storefront-backend/internal/repository/customer"
	orderrepo "storefront-backend/internal/repository/order"
	productrepo "storefront-backend/internal/repository/product"
	tokenrepo "storefront-backend/internal/repository/token"
	customersvc "storefront-backend/internal/service/customer"
	productsvc "storefront-backend/internal/service/product"
	"storefront-backend/internal/session"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	productService := productsvc.New(productRepo)
	customerRepo := customerrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	customerService := customersvc.New(customerRepo, tokenRepo)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)

	sessions := session.NewStore(cfg.SessionTTL, logger)
	go sessions.Run(ctx)

	paymentClient := payment.NewClient(cfg.PaymentAPIBase, cfg.PaymentSecretKey, cfg.CheckoutOrigin, logger)
	webhook := payment.NewWebhook(paymentClient, orderRepo, cfg.PaymentWebhookSecret, logger)

	mailer := notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)
	notifyService := notify.NewService(mailer, cfg.OrderNotifyTo, logger)

	machine := checkout.NewMachine(paymentClient, notifyService, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		ProductSvc:     productService,
		CustomerSvc:    customerService,
		Sessions:       sessions,
		Checkout:       machine,
		PaymentSvc:     paymentClient,
		Webhook:        webhook,
		OrderRepo:      orderRepo,
		NotifySvc:      notifyService,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
