package handlers

import (
	"context"
	"errors"

	"github.com/Freeeeeet/sports_booking/internal/model"
	"go.uber.org/zap"
)

// requireUser загружает зарегистрированного пользователя
// Возвращает user и true если OK, nil и false если нет
func (h *Handlers) requireUser(ctx context.Context, b Sender, chatID, telegramID int64) (*model.User, model.Actor, bool) {
	user, err := withRetry(ctx, h, "get user", func(ctx context.Context) (*model.User, error) {
		return h.userService.GetByTelegramID(ctx, telegramID)
	})

	if errors.Is(err, model.ErrNotFound) {
		h.sendError(ctx, b, chatID, "❌ Пользователь не найден. Используйте /start для регистрации.")
		return nil, model.Actor{}, false
	}
	if err != nil {
		h.logger.Error("Failed to get user", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, chatID, model.UserMessage(err))
		return nil, model.Actor{}, false
	}

	return user, model.ActorOf(user), true
}

// requireAdmin проверяет что пользователь является администратором
func (h *Handlers) requireAdmin(ctx context.Context, b Sender, chatID, telegramID int64) (*model.User, model.Actor, bool) {
	user, actor, ok := h.requireUser(ctx, b, chatID, telegramID)
	if !ok {
		return nil, model.Actor{}, false
	}

	if !actor.IsAdmin() {
		h.sendError(ctx, b, chatID, "❌ Эта команда доступна только администраторам.")
		return nil, model.Actor{}, false
	}

	return user, actor, true
}
