package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/tablebooking/config"
	"github.com/Domenick1991/tablebooking/internal/bootstrap"
	"github.com/Domenick1991/tablebooking/internal/cache"
	"github.com/Domenick1991/tablebooking/internal/kafka"
	"github.com/Domenick1991/tablebooking/internal/repository"
	"github.com/Domenick1991/tablebooking/internal/service/availability"
	"github.com/Domenick1991/tablebooking/internal/service/booking"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if err := repository.Migrate(ctx, pool); err != nil {
		log.Fatalf("migrate schema: %v", err)
	}

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Reservations.CatalogCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	catalogRepo := repository.NewCatalogRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool)
	availabilityService := availability.NewAvailabilityService(catalogRepo, reservationRepo, redisCache)
	bookingService := booking.NewBookingService(
		reservationRepo,
		redisCache,
		producer,
		cfg.Kafka.ReservationsTopic,
		time.Duration(cfg.Reservations.SlotLockTTLMinutes)*time.Minute,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	if err := bootstrap.Run(ctx, cfg, availabilityService, bookingService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
