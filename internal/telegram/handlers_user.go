package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/alareon123/spina-bot/internal/domain"
)

// handleStart registers the user, or refreshes names and re-activates a known one.
func (r *Router) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	u := &domain.User{
		TelegramID: msg.From.ID,
		Username:   msg.From.UserName,
		FirstName:  msg.From.FirstName,
		LastName:   msg.From.LastName,
		IsActive:   true,
		CreatedAt:  r.now(),
	}
	if err := r.Repo.RegisterUser(ctx, u); err != nil {
		r.log.Error("register user failed", zap.Int64("userID", u.TelegramID), zap.Error(err))
		r.out.sendText(msg.Chat.ID, genericErrorText)
		return
	}
	r.log.Info("user registered", zap.Int64("userID", u.TelegramID))
	r.out.sendMarkup(msg.Chat.ID, greetingText(msg.From.FirstName), painKeyboard())
}

// submitRating records a rating and replies with the clip for that level.
func (r *Router) submitRating(ctx context.Context, chatID, userID int64, rating int) {
	item, err := r.Intake.Submit(ctx, userID, rating)
	if err != nil {
		r.log.Error("submit rating failed", zap.Int64("userID", userID), zap.Int("rating", rating), zap.Error(err))
		r.out.sendText(chatID, genericErrorText)
		return
	}
	r.out.sendText(chatID, ratingReplyText(rating, item))
	if item == nil {
		return
	}
	if err := r.out.sendMedia(chatID, item); err != nil {
		r.log.Error("send media failed", zap.Int64("chatID", chatID), zap.Int("level", item.PainLevel), zap.Error(err))
	}
}

func (r *Router) handleStats(ctx context.Context, msg *tgbotapi.Message) {
	st, err := r.Stats.ForUser(ctx, msg.From.ID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		r.out.sendText(msg.Chat.ID, notRegisteredText)
		return
	case err != nil:
		r.log.Error("user stats failed", zap.Int64("userID", msg.From.ID), zap.Error(err))
		r.out.sendText(msg.Chat.ID, genericErrorText)
		return
	}
	if st.Total == 0 {
		r.out.sendText(msg.Chat.ID, noStatsText)
		return
	}
	r.out.sendText(msg.Chat.ID, userStatsText(st, r.Loc))
}

func (r *Router) handleStop(ctx context.Context, msg *tgbotapi.Message) {
	ok, err := r.Repo.SetActive(ctx, msg.From.ID, false)
	if err != nil {
		r.log.Error("deactivate user failed", zap.Int64("userID", msg.From.ID), zap.Error(err))
		r.out.sendText(msg.Chat.ID, genericErrorText)
		return
	}
	if !ok {
		r.out.sendText(msg.Chat.ID, notRegisteredText)
		return
	}
	r.out.sendText(msg.Chat.ID, stoppedText)
}

func (r *Router) handleResume(ctx context.Context, msg *tgbotapi.Message) {
	ok, err := r.Repo.SetActive(ctx, msg.From.ID, true)
	if err != nil {
		r.log.Error("activate user failed", zap.Int64("userID", msg.From.ID), zap.Error(err))
		r.out.sendText(msg.Chat.ID, genericErrorText)
		return
	}
	if !ok {
		r.out.sendText(msg.Chat.ID, notRegisteredText)
		return
	}
	rs, err := r.Settings.Reminder(ctx)
	if err != nil {
		r.log.Error("read reminder settings failed", zap.Error(err))
		r.out.sendText(msg.Chat.ID, genericErrorText)
		return
	}
	r.out.sendText(msg.Chat.ID, resumedText(rs))
}

// handleStatus reports whether reminders will arrive: the user's flag AND the global one.
func (r *Router) handleStatus(ctx context.Context, msg *tgbotapi.Message) {
	u, err := r.Repo.GetUser(ctx, msg.From.ID)
	if errors.Is(err, domain.ErrNotFound) {
		r.out.sendText(msg.Chat.ID, notRegisteredText)
		return
	}
	if err != nil {
		r.log.Error("get user failed", zap.Int64("userID", msg.From.ID), zap.Error(err))
		r.out.sendText(msg.Chat.ID, genericErrorText)
		return
	}
	rs, err := r.Settings.Reminder(ctx)
	if err != nil {
		r.log.Error("read reminder settings failed", zap.Error(err))
		r.out.sendText(msg.Chat.ID, genericErrorText)
		return
	}
	r.out.sendText(msg.Chat.ID, statusText(u, rs))
}
