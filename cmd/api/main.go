package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"cafepos/internal/config"
	"cafepos/internal/db"
	"cafepos/internal/httpserver"
	activityrepo "cafepos/internal/repository/activity"
	loyaltyrepo "cafepos/internal/repository/loyalty"
	orderrepo "cafepos/internal/repository/order"
	productrepo "cafepos/internal/repository/product"
	staffrepo "cafepos/internal/repository/staff"
	catalogsvc "cafepos/internal/service/catalog"
	loyaltysvc "cafepos/internal/service/loyalty"
	ordersvc "cafepos/internal/service/order"
	reportsvc "cafepos/internal/service/report"
	staffsvc "cafepos/internal/service/staff"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	productRepo := productrepo.NewPostgres(dbpool, logger)
	loyaltyRepo := loyaltyrepo.NewPostgres(dbpool, logger)
	staffRepo := staffrepo.NewPostgres(dbpool, logger)
	activityRepo := activityrepo.NewPostgres(dbpool)

	orderService := ordersvc.New(orderRepo, productRepo, loyaltyRepo, ordersvc.Config{
		PointsDivisor:   cfg.PointsDivisor,
		LargeOrderTotal: cfg.LargeOrderTotal,
		LargeOrderLines: cfg.LargeOrderLines,
	})
	catalogService := catalogsvc.New(productRepo)
	loyaltyService := loyaltysvc.New(loyaltyRepo)
	staffService := staffsvc.New(staffRepo)
	reportService := reportsvc.New(orderRepo, productRepo)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		OrderSvc:     orderService,
		CatalogSvc:   catalogService,
		LoyaltySvc:   loyaltyService,
		StaffSvc:     staffService,
		ReportSvc:    reportService,
		ActivityRepo: activityRepo,
	}, cfg.CORSOrigins)
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

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
