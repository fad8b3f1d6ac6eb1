package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/alareon123/spina-bot/internal/domain"
)

// Sender wraps outbound Telegram calls. It satisfies scheduler.Prompter.
type Sender struct {
	bot BotAPI
	log *zap.Logger
}

func NewSender(bot BotAPI, log *zap.Logger) *Sender {
	return &Sender{bot: bot, log: log}
}

// SendPrompt sends the daily rating prompt with the rating keyboard.
func (s *Sender) SendPrompt(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, reminderText)
	msg.ReplyMarkup = painKeyboard()
	_, err := s.bot.Send(msg)
	return err
}

func (s *Sender) sendText(chatID int64, text string) {
	s.send(tgbotapi.NewMessage(chatID, text), chatID)
}

func (s *Sender) sendMarkup(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	s.send(msg, chatID)
}

// editScreen replaces an inline menu message in place.
func (s *Sender) editScreen(chatID int64, messageID int, text string, kb tgbotapi.InlineKeyboardMarkup) {
	s.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, kb), chatID)
}

// sendMedia delivers a stored clip by its Telegram file ID.
func (s *Sender) sendMedia(chatID int64, item *domain.MediaItem) error {
	file := tgbotapi.FileID(item.FileID)
	var c tgbotapi.Chattable
	switch item.Kind {
	case domain.MediaAudio:
		cfg := tgbotapi.NewAudio(chatID, file)
		cfg.Title = item.Title
		c = cfg
	case domain.MediaVoice:
		cfg := tgbotapi.NewVoice(chatID, file)
		cfg.Caption = item.Title
		c = cfg
	case domain.MediaVideo:
		cfg := tgbotapi.NewVideo(chatID, file)
		cfg.Caption = item.Title
		c = cfg
	default:
		return fmt.Errorf("unsupported media kind %q", item.Kind)
	}
	_, err := s.bot.Send(c)
	return err
}

func (s *Sender) answer(callbackID, text string) {
	if _, err := s.bot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		s.log.Warn("answer callback failed", zap.Error(err))
	}
}

func (s *Sender) send(c tgbotapi.Chattable, chatID int64) {
	if _, err := s.bot.Send(c); err != nil {
		s.log.Warn("send failed", zap.Int64("chatID", chatID), zap.Error(err))
	}
}
