package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/sports_booking/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b Sender, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// sendHTML отправляет HTML сообщение с необязательной клавиатурой
func (h *Handlers) sendHTML(ctx context.Context, b Sender, chatID int64, text string, markup *models.InlineKeyboardMarkup) {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}

	if _, err := b.SendMessage(ctx, params); err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// sendPhoto отправляет PNG с подписью
func (h *Handlers) sendPhoto(ctx context.Context, b Sender, chatID int64, filename string, data []byte, caption string) {
	_, err := b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:  chatID,
		Photo:   &models.InputFileUpload{Filename: filename, Data: bytes.NewReader(data)},
		Caption: caption,
	})
	if err != nil {
		h.logger.Error("Failed to send photo",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b Sender, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// replyError показывает пользователю стабильный текст ошибки; неожиданные ошибки логируются
func (h *Handlers) replyError(ctx context.Context, b Sender, chatID int64, op string, err error) {
	if isExpected(err) {
		h.logger.Debug("Command rejected", zap.String("op", op), zap.Error(err))
	} else {
		h.logger.Error("Command failed", zap.String("op", op), zap.Error(err))
	}
	h.sendError(ctx, b, chatID, model.UserMessage(err))
}

// answerCallback отвечает на нажатие кнопки
func (h *Handlers) answerCallback(ctx context.Context, b Sender, callbackID, text string, alert bool) {
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       alert,
	})
	if err != nil {
		h.logger.Error("Failed to answer callback", zap.String("callback_id", callbackID), zap.Error(err))
	}
}

// usage формирует подсказку по формату команды
func usage(format string) error {
	return fmt.Errorf("%w: формат %s", model.ErrValidation, format)
}

func isExpected(err error) bool {
	return errors.Is(err, model.ErrValidation) ||
		errors.Is(err, model.ErrNotFound) ||
		errors.Is(err, model.ErrForbidden) ||
		errors.Is(err, model.ErrSlotUnavailable) ||
		errors.Is(err, model.ErrInvalidTransition)
}
