package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Freeeeeet/sports_booking/internal/config"
	"github.com/Freeeeeet/sports_booking/internal/repository"
	"github.com/Freeeeeet/sports_booking/internal/repository/base"
	"github.com/Freeeeeet/sports_booking/internal/repository/sqlite"
	"github.com/Freeeeeet/sports_booking/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

// Stores хранилища, открытые для выбранного драйвера
type Stores struct {
	Bookings   service.BookingStore
	Facilities service.FacilityStore
	Users      service.UserStore

	// DB *sql.DB для миграций
	DB *sql.DB

	closers []func()
}

// Close освобождает соединения в обратном порядке
func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// OpenStores подключается к PostgreSQL или SQLite в зависимости от DB_DRIVER
func OpenStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		return openSQLite(ctx, cfg, logger)
	default:
		return openPostgres(ctx, cfg, logger)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	repo := base.NewRepository(pool, cfg.StoreTimeout)
	// Goose работает с *sql.DB, поэтому создаём его поверх пула
	db := stdlib.OpenDBFromPool(pool)

	logger.Info("Connected to PostgreSQL")

	return &Stores{
		Bookings:   repository.NewBookingRepository(repo),
		Facilities: repository.NewFacilityRepository(repo),
		Users:      repository.NewUserRepository(repo),
		DB:         db,
		closers: []func(){
			pool.Close,
			func() { _ = db.Close() },
		},
	}, nil
}

func openSQLite(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	db, err := sql.Open(sqlite.DriverName, sqlite.DSN(cfg.DBDSN))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	store := sqlite.NewStore(db, cfg.StoreTimeout)

	logger.Info("Opened SQLite database", zap.String("path", cfg.DBDSN))

	return &Stores{
		Bookings:   sqlite.NewBookingRepository(store),
		Facilities: sqlite.NewFacilityRepository(store),
		Users:      sqlite.NewUserRepository(store),
		DB:         db,
		closers:    []func(){func() { _ = db.Close() }},
	}, nil
}
