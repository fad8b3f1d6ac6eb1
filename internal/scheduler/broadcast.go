package scheduler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/alareon123/spina-bot/internal/store"
)

// Prompter sends the daily rating prompt to a chat.
// telegram.Sender implements this (method: SendPrompt).
type Prompter interface {
	SendPrompt(chatID int64) error
}

// Result is the outcome of one broadcast pass.
type Result struct {
	RunID       string
	Total       int
	Sent        int
	Deactivated int
}

// Broadcaster fans the rating prompt out to every active user.
type Broadcaster struct {
	repo    store.Repo
	log     *zap.Logger
	sender  Prompter
	limiter *rate.Limiter
}

// NewBroadcaster creates a Broadcaster; a nil limiter means unthrottled.
func NewBroadcaster(repo store.Repo, log *zap.Logger, sender Prompter, limiter *rate.Limiter) *Broadcaster {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &Broadcaster{repo: repo, log: log, sender: sender, limiter: limiter}
}

// Run sends one prompt per active user. Users whose delivery fails
// permanently are deactivated in a single commit after the pass; other
// delivery errors are logged and the user stays active.
func (b *Broadcaster) Run(ctx context.Context) (Result, error) {
	res := Result{RunID: uuid.NewString()}
	log := b.log.With(zap.String("run_id", res.RunID))

	users, err := b.repo.ListActiveUsers(ctx)
	if err != nil {
		return res, fmt.Errorf("list active users: %w", err)
	}
	res.Total = len(users)

	var blocked []int64
	for _, u := range users {
		if err := b.limiter.Wait(ctx); err != nil {
			log.Warn("broadcast interrupted", zap.Error(err), zap.Int("sent", res.Sent))
			break
		}
		if err := b.sender.SendPrompt(u.TelegramID); err != nil {
			if IsPermanentDeliveryError(err) {
				log.Warn("recipient unreachable, deactivating", zap.Error(err), zap.Int64("chatID", u.TelegramID))
				blocked = append(blocked, u.TelegramID)
				continue
			}
			log.Error("send reminder failed", zap.Error(err), zap.Int64("chatID", u.TelegramID))
			continue
		}
		res.Sent++
	}

	// Commit with a fresh context so an interrupted pass still records what it learned.
	if err := b.repo.DeactivateUsers(context.WithoutCancel(ctx), blocked); err != nil {
		log.Error("deactivate users failed", zap.Error(err), zap.Int("count", len(blocked)))
		return res, fmt.Errorf("deactivate users: %w", err)
	}
	res.Deactivated = len(blocked)

	log.Info("broadcast finished",
		zap.Int("sent", res.Sent),
		zap.Int("total", res.Total),
		zap.Int("deactivated", res.Deactivated),
	)
	return res, nil
}

// Fire adapts Run to the scheduler's Task signature.
func (b *Broadcaster) Fire(ctx context.Context) {
	if _, err := b.Run(ctx); err != nil {
		b.log.Error("broadcast failed", zap.Error(err))
	}
}

// Substrings Telegram uses for recipients that will never accept a message.
var permanentSignatures = []string{
	"blocked",
	"user not found",
	"chat not found",
	"user is deactivated",
	"bot was kicked",
}

// IsPermanentDeliveryError reports whether err means the recipient cannot be
// reached again: a 403 from the Bot API or a known description.
func IsPermanentDeliveryError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusForbidden {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, sig := range permanentSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}
