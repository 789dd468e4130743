package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/sports_booking/internal/model"
	"go.uber.org/zap"
)

type UserService struct {
	userRepo UserStore
	admins   map[int64]bool
	logger   *zap.Logger
	now      func() time.Time
}

// NewUserService создаёт сервис; adminTelegramIDs получают роль администратора при регистрации
func NewUserService(userRepo UserStore, adminTelegramIDs []int64, logger *zap.Logger) *UserService {
	admins := make(map[int64]bool, len(adminTelegramIDs))
	for _, id := range adminTelegramIDs {
		admins[id] = true
	}

	return &UserService{
		userRepo: userRepo,
		admins:   admins,
		logger:   logger,
		now:      time.Now,
	}
}

// Register регистрирует или обновляет пользователя
func (s *UserService) Register(ctx context.Context, telegramID int64, name string) (*model.User, error) {
	name = strings.TrimSpace(name)
	if telegramID == 0 {
		return nil, fmt.Errorf("%w: telegram id is required", model.ErrValidation)
	}

	role := model.RoleUser
	if s.admins[telegramID] {
		role = model.RoleAdmin
	}

	// Проверяем существует ли пользователь
	existingUser, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	// Если пользователь уже существует, обновляем имя и роль
	if existingUser != nil {
		if existingUser.Name == name && existingUser.Role == role {
			return existingUser, nil
		}

		existingUser.Name = name
		existingUser.Role = role

		err = s.userRepo.Update(ctx, existingUser)
		if err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}

		s.logger.Info("User updated",
			zap.Int64("user_id", existingUser.ID),
			zap.Int64("telegram_id", telegramID),
			zap.String("role", string(role)),
		)

		return existingUser, nil
	}

	user := &model.User{
		TelegramID: telegramID,
		Name:       name,
		Role:       role,
		CreatedAt:  s.now(),
	}

	err = s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("New user registered",
		zap.Int64("user_id", user.ID),
		zap.Int64("telegram_id", telegramID),
		zap.String("role", string(role)),
	)

	return user, nil
}

// GetByTelegramID получает пользователя по Telegram ID
func (s *UserService) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	user, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user with telegram id %d: %w", telegramID, model.ErrNotFound)
	}
	return user, nil
}

// GetByID получает пользователя по ID
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", id, model.ErrNotFound)
	}
	return user, nil
}

// IsAdminTelegramID сообщает назначен ли Telegram ID администратором
func (s *UserService) IsAdminTelegramID(telegramID int64) bool {
	return s.admins[telegramID]
}
