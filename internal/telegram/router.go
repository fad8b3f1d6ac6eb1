package telegram

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/alareon123/spina-bot/internal/domain"
	"github.com/alareon123/spina-bot/internal/service"
	"github.com/alareon123/spina-bot/internal/store"
)

// Deps are the collaborators the router dispatches to.
type Deps struct {
	Repo     store.Repo
	Intake   *service.Intake
	Catalog  *service.Catalog
	Settings *service.Settings
	Stats    *service.Stats
	Admins   domain.AdminSet
	Loc      *time.Location // display zone for dates and the reminder clock
}

// Router wires Telegram updates to handlers and holds the in-memory wizard state.
type Router struct {
	Deps
	out     *Sender
	log     *zap.Logger
	wizards *wizards
	now     func() time.Time
}

// NewRouter creates a new Telegram router.
func NewRouter(bot BotAPI, log *zap.Logger, d Deps) *Router {
	if d.Loc == nil {
		d.Loc = time.UTC
	}
	if d.Admins == nil {
		d.Admins = domain.NewAdminSet()
	}
	return &Router{
		Deps:    d,
		out:     NewSender(bot, log),
		log:     log,
		wizards: newWizards(),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// HandleUpdate routes a single update to the appropriate handler.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	switch {
	case upd.Message != nil:
		r.handleMessage(ctx, upd.Message)
	case upd.CallbackQuery != nil:
		r.handleCallback(ctx, upd.CallbackQuery)
	}
}

func (r *Router) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}
	if msg.IsCommand() {
		r.handleCommand(ctx, msg)
		return
	}
	if w, ok := r.wizards.get(msg.From.ID); ok {
		r.handleWizardInput(ctx, msg, w, false)
		return
	}

	if rating, err := domain.ParsePainRating(msg.Text); err == nil {
		r.submitRating(ctx, msg.Chat.ID, msg.From.ID, rating)
		return
	}
	r.out.sendText(msg.Chat.ID, notUnderstoodText)
}

func (r *Router) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start":
		r.handleStart(ctx, msg)
	case "help":
		r.out.sendText(chatID, helpText)
	case "rate":
		r.out.sendMarkup(chatID, rateText, painKeyboard())
	case "stats":
		r.handleStats(ctx, msg)
	case "stop":
		r.handleStop(ctx, msg)
	case "resume":
		r.handleResume(ctx, msg)
	case "status":
		r.handleStatus(ctx, msg)
	case "admin":
		r.handleAdmin(msg)
	case "cancel":
		r.handleCancel(msg)
	case "skip":
		w, ok := r.wizards.get(msg.From.ID)
		if !ok {
			r.out.sendText(chatID, nothingToSkip)
			return
		}
		r.handleWizardInput(ctx, msg, w, true)
	default:
		r.out.sendText(chatID, unknownCommandText)
	}
}

func (r *Router) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.From == nil || cb.Message == nil || cb.Message.Chat == nil {
		r.out.answer(cb.ID, "")
		return
	}
	c, ok := parseCallback(cb.Data)
	if !ok {
		r.log.Debug("unknown callback", zap.String("data", cb.Data))
		r.out.answer(cb.ID, "")
		return
	}
	if c.Action.isAdmin() && !r.Admins.Contains(cb.From.ID) {
		r.log.Warn("admin callback rejected", zap.Int64("userID", cb.From.ID), zap.String("data", cb.Data))
		r.out.answer(cb.ID, noAccessText)
		return
	}

	s := screen{chatID: cb.Message.Chat.ID, messageID: cb.Message.MessageID, userID: cb.From.ID}
	ack, err := r.dispatch(ctx, s, c)
	if err != nil {
		r.log.Error("callback failed", zap.String("data", cb.Data), zap.Int64("userID", s.userID), zap.Error(err))
		r.out.answer(cb.ID, "")
		r.out.sendText(s.chatID, genericErrorText)
		return
	}
	r.out.answer(cb.ID, ack)
}

// screen identifies the inline menu message a callback came from.
type screen struct {
	chatID    int64
	messageID int
	userID    int64
}

// dispatch runs a decoded callback and returns the acknowledgement text.
func (r *Router) dispatch(ctx context.Context, s screen, c callback) (string, error) {
	switch c.Action {
	case actPain:
		r.submitRating(ctx, s.chatID, s.userID, c.Level)
		return "", nil
	case actBackToMain:
		r.out.editScreen(s.chatID, s.messageID, adminPanelText, adminPanelKeyboard())
		return "", nil
	case actManageAudio:
		return "", r.showAudioMenu(ctx, s)
	case actEditAudio:
		return r.showMediaDetails(ctx, s, c.Level)
	case actAddAudio, actReplaceAudio:
		r.startUpload(s, c.Level)
		return "", nil
	case actEditTitle:
		return r.startEdit(ctx, s, stepEditTitle, c.Level)
	case actEditText:
		return r.startEdit(ctx, s, stepEditDescription, c.Level)
	case actDeleteAudio:
		return r.deleteMedia(ctx, s, c.Level)
	case actManageTime:
		return "", r.showTimeSettings(ctx, s)
	case actChangeTime:
		r.out.editScreen(s.chatID, s.messageID, changeTimeText, timePresetsKeyboard())
		return "", nil
	case actSetTime:
		return r.setTime(ctx, s, c.Hour, c.Minute)
	case actToggleReminders:
		return r.toggleReminders(ctx, s)
	case actViewStats:
		return "", r.showOverview(ctx, s)
	case actManageUsers:
		return "", r.showUsersMenu(ctx, s)
	case actListUsers:
		return "", r.showUserList(ctx, s)
	}
	return "", nil
}
