package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/sports_booking/internal/model"
	"github.com/Freeeeeet/sports_booking/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

type UserRepository struct {
	*base.Repository
}

func NewUserRepository(repo *base.Repository) *UserRepository {
	return &UserRepository{Repository: repo}
}

// Create создаёт нового пользователя
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO users (telegram_id, name, role, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.QueryRow(
		ctx, query,
		user.TelegramID,
		user.Name,
		string(user.Role),
		user.CreatedAt,
	).Scan(&user.ID)

	return base.Classify("create user", err)
}

// Update обновляет имя и роль пользователя
func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	affected, err := r.ExecAffected(ctx,
		`UPDATE users SET name = $1, role = $2 WHERE id = $3`,
		user.Name, string(user.Role), user.ID,
	)
	if err != nil {
		return base.Classify("update user", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %d: %w", user.ID, model.ErrNotFound)
	}
	return nil
}

// GetByTelegramID получает пользователя по Telegram ID
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	return r.getOne(ctx, "get user by telegram id", `
		SELECT id, telegram_id, name, role, created_at
		FROM users
		WHERE telegram_id = $1
	`, telegramID)
}

// GetByID получает пользователя по ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getOne(ctx, "get user by id", `
		SELECT id, telegram_id, name, role, created_at
		FROM users
		WHERE id = $1
	`, id)
}

func (r *UserRepository) getOne(ctx context.Context, op, query string, arg any) (*model.User, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var (
		user model.User
		role string
	)
	err := r.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.TelegramID,
		&user.Name,
		&role,
		&user.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // Пользователь не найден
		}
		return nil, base.Classify(op, err)
	}

	user.Role = model.Role(role)
	return &user, nil
}
