package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kirimaja/shipment-system/internal/api"
	"github.com/kirimaja/shipment-system/internal/core/service"
	"github.com/kirimaja/shipment-system/internal/infrastructure/config"
	mongodb "github.com/kirimaja/shipment-system/internal/infrastructure/db/mongo"
	redisdb "github.com/kirimaja/shipment-system/internal/infrastructure/db/redis"
	"github.com/kirimaja/shipment-system/internal/infrastructure/gateway"
	"github.com/kirimaja/shipment-system/internal/infrastructure/queue"
	"github.com/kirimaja/shipment-system/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})
	log.Info().Str("env", cfg.Env).Msg("starting shipment service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	// --- Repositories ---
	txRunner := mongodb.NewTxRunner(mongoClient)
	shipmentRepo := mongodb.NewShipmentRepository(db)
	paymentRepo := mongodb.NewPaymentRepository(db)
	historyRepo := mongodb.NewHistoryRepository(db)
	branchLogRepo := mongodb.NewBranchLogRepository(db)
	addressRepo := mongodb.NewAddressRepository(db)
	branchRepo := mongodb.NewBranchRepository(db)
	authRepo := mongodb.NewAuthRepository(db)

	for name, ensure := range map[string]func(context.Context) error{
		"shipments":   shipmentRepo.EnsureIndexes,
		"payments":    paymentRepo.EnsureIndexes,
		"history":     historyRepo.EnsureIndexes,
		"branch_logs": branchLogRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("index creation failed")
		}
	}

	// --- External collaborators ---
	geocoder := gateway.NewOpenCageGeocoder(cfg.OpenCage.APIKey, nil)
	invoices := gateway.NewXenditClient(cfg.Xendit.APIKey, nil)
	qrGen, err := gateway.NewQRGenerator("")
	if err != nil {
		log.Fatal().Err(err).Msg("qr output directory unavailable")
	}
	mailer := gateway.NewSMTPMailer(gateway.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		User:     cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		Sender:   cfg.SMTP.Sender,
	})

	// --- Queues ---
	queues := queue.New(rdb, log)
	dedup := redisdb.NewDedupChecker(rdb)

	// --- Services ---
	shipmentService := service.NewShipmentService(service.ShipmentServiceDeps{
		Tx:              txRunner,
		Shipments:       shipmentRepo,
		Payments:        paymentRepo,
		History:         historyRepo,
		Addresses:       addressRepo,
		Geocoder:        geocoder,
		Invoices:        invoices,
		QR:              qrGen,
		Scheduler:       queues,
		Emails:          queues,
		Dedup:           dedup,
		FrontendURL:     cfg.FrontendURL,
		InvoiceDuration: time.Duration(cfg.Xendit.InvoiceDurationSeconds) * time.Second,
	}, log)
	courierService := service.NewCourierService(txRunner, shipmentRepo, historyRepo, branchRepo, log)
	branchService := service.NewBranchService(txRunner, shipmentRepo, historyRepo, branchLogRepo, branchRepo, log)
	authService := service.NewAuthService(authRepo, cfg.JWTSecret, 24*time.Hour)

	expiryProcessor := service.NewExpiryProcessor(txRunner, paymentRepo, shipmentRepo, historyRepo, log)
	emailProcessor := service.NewEmailProcessor(mailer, log)
	queues.Start(ctx, expiryProcessor, emailProcessor)

	// --- HTTP ---
	e := api.NewRouter(api.RouterDeps{
		DB:            db,
		Redis:         rdb,
		JWTSecret:     cfg.JWTSecret,
		CallbackToken: cfg.Xendit.CallbackToken,
		Log:           log,
		Shipments:     shipmentService,
		Couriers:      courierService,
		Branches:      branchService,
		Auth:          authService,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("http server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
		os.Exit(1)
	}
	log.Info().Msg("server exited")
}
