package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Freeeeeet/sports_booking/internal/model"
)

type UserRepository struct {
	*Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{Store: store}
}

// Create создаёт нового пользователя
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO users (telegram_id, name, role, created_at) VALUES (?, ?, ?, ?)`,
		user.TelegramID, user.Name, string(user.Role), user.CreatedAt.UTC(),
	)
	if err != nil {
		return classify("create user", err)
	}

	user.ID, err = result.LastInsertId()
	if err != nil {
		return classify("create user", err)
	}

	return nil
}

// Update обновляет имя и роль пользователя
func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = ?, role = ? WHERE id = ?`,
		user.Name, string(user.Role), user.ID,
	)
	if err != nil {
		return classify("update user", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return classify("update user", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %d: %w", user.ID, model.ErrNotFound)
	}
	return nil
}

// GetByTelegramID получает пользователя по Telegram ID
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	return r.getOne(ctx, "get user by telegram id",
		`SELECT id, telegram_id, name, role, created_at FROM users WHERE telegram_id = ?`, telegramID)
}

// GetByID получает пользователя по ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getOne(ctx, "get user by id",
		`SELECT id, telegram_id, name, role, created_at FROM users WHERE id = ?`, id)
}

func (r *UserRepository) getOne(ctx context.Context, op, query string, arg any) (*model.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var (
		user model.User
		role string
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.TelegramID,
		&user.Name,
		&role,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, classify(op, err)
	}

	user.Role = model.Role(role)
	return &user, nil
}
