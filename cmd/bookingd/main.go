package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/sports_booking/internal/app"
	"github.com/Freeeeeet/sports_booking/internal/cache"
	"github.com/Freeeeeet/sports_booking/internal/config"
	"github.com/Freeeeeet/sports_booking/internal/controller"
	"github.com/Freeeeeet/sports_booking/internal/controller/handlers"
	"github.com/Freeeeeet/sports_booking/internal/events"
	"github.com/Freeeeeet/sports_booking/internal/notifier"
	"github.com/Freeeeeet/sports_booking/internal/service"
	"github.com/go-telegram/bot"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Booking service stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	if cfg.TelegramToken == "" {
		return errors.New("TELEGRAM_TOKEN is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting sports booking service",
		zap.String("environment", cfg.Environment),
		zap.String("db_driver", cfg.DBDriver))

	shutdownTracer, err := app.InitTracer(ctx, cfg.ServiceName, cfg.Environment, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			logger.Warn("Failed to flush traces", zap.Error(err))
		}
	}()

	stores, err := app.OpenStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer stores.Close()

	migrator, err := app.NewMigrator(stores.DB, cfg.DBDriver, logger)
	if err != nil {
		return err
	}
	defer migrator.Close()
	if err := migrator.Run(ctx); err != nil {
		return err
	}

	// Справочник площадок: через Redis, если он настроен
	var directory service.FacilityDirectory = stores.Facilities
	var invalidator service.DirectoryInvalidator
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()

		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis is unreachable, facility reads will fall through to the store", zap.Error(err))
		}

		facilityCache := cache.NewFacilityCache(client, stores.Facilities, cfg.FacilityCacheTTL, logger)
		directory = facilityCache
		invalidator = facilityCache
		logger.Info("Facility cache enabled", zap.String("addr", cfg.RedisAddr))
	}

	botInstance, err := bot.New(cfg.TelegramToken)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	// Получатели событий бронирования
	recipients := notifier.Multi{notifier.NewTelegram(botInstance, cfg.AdminTelegramIDs)}
	if cfg.RabbitURL != "" {
		publisher, err := events.NewPublisher(cfg.RabbitURL, cfg.BookingExchange)
		if err != nil {
			return err
		}
		defer publisher.Close()
		recipients = append(recipients, publisher)
		logger.Info("Booking events publisher enabled", zap.String("exchange", cfg.BookingExchange))
	}

	userService := service.NewUserService(stores.Users, cfg.AdminTelegramIDs, logger)
	facilityService := service.NewFacilityService(stores.Facilities, directory, invalidator, logger)
	bookingService := service.NewBookingService(stores.Bookings, directory, stores.Users, logger,
		service.WithNotifier(recipients))
	queryService := service.NewQueryService(stores.Bookings, directory, stores.Users, logger)

	cmdHandlers := handlers.NewHandlers(userService, bookingService, queryService, facilityService, logger)
	botController := controller.NewBotController(botInstance, cmdHandlers, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		return err
	}

	// Блокируется до сигнала остановки
	if err := botController.Start(ctx); err != nil {
		return err
	}

	logger.Info("Sports booking service stopped")
	return nil
}
