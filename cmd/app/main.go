package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clickboucher/cmd"
	httpin "clickboucher/internal/adapters/in/http"
	"clickboucher/internal/adapters/out/postgres/catalogrepo"
	"clickboucher/internal/adapters/out/postgres/offerrepo"
	"clickboucher/internal/adapters/out/postgres/orderrepo"
	"clickboucher/internal/adapters/out/postgres/shoprepo"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	configs := getConfigs()

	gormDB, err := openDatabase(configs)
	if err != nil {
		logger.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	if err := migrateDatabase(gormDB); err != nil {
		logger.Error("Database migration failed", "error", err)
		os.Exit(1)
	}

	root := cmd.NewCompositionRoot(configs, gormDB, logger)
	defer root.Close()

	jobManager := root.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		logger.Error("Job startup failed", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()

	e := echo.New()
	e.HideBanner = true

	server := httpin.NewServer(
		root.CreateSubmitOrderCommandHandler(),
		root.CreateKitchenActionCommandHandler(),
		root.CreateResolveAlternativesCommandHandler(),
		root.CreateRecordWeighingCommandHandler(),
		root.CreateReviewWeightCommandHandler(),
		root.CreateRateOrderCommandHandler(),
		root.CreateShopStatusCommandHandler(),
		root.CreateGetKitchenBoardQueryHandler(),
		root.CreateGetShopAvailabilityQueryHandler(),
		root.Hub(),
	)
	server.RegisterRoutes(e)

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); err != nil {
			logger.Info("Web server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Web server shutdown failed", "error", err)
	}
}

func getConfigs() cmd.Config {
	// A missing .env is fine in containers; variables come from the
	// environment there.
	_ = godotenv.Load(".env")

	for _, key := range []string{"HTTP_PORT", "DB_HOST", "DB_PORT", "DB_USER",
		"DB_PASSWORD", "DB_NAME", "DB_SSLMODE"} {
		if os.Getenv(key) == "" {
			log.Fatalf("Missing required environment variable %s", key)
		}
	}

	return cmd.Config{
		HTTPPort:               os.Getenv("HTTP_PORT"),
		DBHost:                 os.Getenv("DB_HOST"),
		DBPort:                 os.Getenv("DB_PORT"),
		DBUser:                 os.Getenv("DB_USER"),
		DBPassword:             os.Getenv("DB_PASSWORD"),
		DBName:                 os.Getenv("DB_NAME"),
		DBSslMode:              os.Getenv("DB_SSLMODE"),
		KafkaHost:              os.Getenv("KAFKA_HOST"),
		KafkaOrderChangedTopic: os.Getenv("KAFKA_ORDER_CHANGED_TOPIC"),
		NotifyWebhookURL:       os.Getenv("NOTIFY_WEBHOOK_URL"),
	}
}

func openDatabase(configs cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		configs.DBHost, configs.DBUser, configs.DBPassword,
		configs.DBName, configs.DBPort, configs.DBSslMode)
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

func migrateDatabase(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&orderrepo.TimelineEventDTO{},
		&orderrepo.OrderCounterDTO{},
		&shoprepo.AvailabilityDTO{},
		&offerrepo.OfferDTO{},
		&offerrepo.ReservationDTO{},
		&catalogrepo.ProductDTO{},
	)
}
