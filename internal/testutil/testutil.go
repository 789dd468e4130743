package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Freeeeeet/sports_booking/internal/app"
	"github.com/Freeeeeet/sports_booking/internal/config"
	"github.com/Freeeeeet/sports_booking/internal/model"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// NewTestDB открывает чистую SQLite базу во временном каталоге и применяет миграции
func NewTestDB(t *testing.T) *app.Stores {
	t.Helper()

	ctx := context.Background()
	cfg := &config.Config{
		DBDriver:     config.DriverSQLite,
		DBDSN:        filepath.Join(t.TempDir(), "booking.db"),
		StoreTimeout: 5 * time.Second,
	}

	stores, err := app.OpenStores(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(stores.Close)

	migrator, err := app.NewMigrator(stores.DB, cfg.DBDriver, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, migrator.Run(ctx))

	return stores
}

// CreateUser добавляет пользователя с ролью
func CreateUser(t *testing.T, stores *app.Stores, telegramID int64, role model.Role) *model.User {
	t.Helper()

	user := &model.User{
		TelegramID: telegramID,
		Name:       "user",
		Role:       role,
		CreatedAt:  time.Now(),
	}
	require.NoError(t, stores.Users.Create(context.Background(), user))
	return user
}

// CreateFacility добавляет доступную площадку с ценой за час
func CreateFacility(t *testing.T, stores *app.Stores, name string, sport model.Sport, price int) *model.Facility {
	t.Helper()

	now := time.Now()
	facility := &model.Facility{
		Name:      name,
		Sport:     sport,
		Price:     price,
		Capacity:  "10 players",
		Available: true,
		Features:  []string{"lighting"},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, stores.Facilities.Create(context.Background(), facility))
	return facility
}
