package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/alareon123/spina-bot/internal/domain"
)

const userListLimit = 20

func (r *Router) handleAdmin(msg *tgbotapi.Message) {
	if !r.Admins.Contains(msg.From.ID) {
		r.out.sendText(msg.Chat.ID, noAccessPanelText)
		return
	}
	r.out.sendMarkup(msg.Chat.ID, adminPanelText, adminPanelKeyboard())
}

func (r *Router) handleCancel(msg *tgbotapi.Message) {
	if _, ok := r.wizards.get(msg.From.ID); !ok {
		r.out.sendText(msg.Chat.ID, nothingToCancel)
		return
	}
	r.wizards.clear(msg.From.ID)
	r.out.sendText(msg.Chat.ID, cancelledText)
}

// --- Media wizard ---

func (r *Router) startUpload(s screen, level int) {
	r.wizards.set(s.userID, newUploadWizard(level, s.userID))
	r.out.sendText(s.chatID, fmt.Sprintf(askMediaFmt, level))
}

func (r *Router) startEdit(ctx context.Context, s screen, step wizardStep, level int) (string, error) {
	if _, err := r.Catalog.Get(ctx, level); errors.Is(err, domain.ErrNotFound) {
		return mediaNotFoundText, nil
	} else if err != nil {
		return "", err
	}
	r.wizards.set(s.userID, newEditWizard(step, level))
	prompt := askEditTitleFmt
	if step == stepEditDescription {
		prompt = askEditDescFmt
	}
	r.out.sendText(s.chatID, fmt.Sprintf(prompt, level))
	return "", nil
}

// handleWizardInput advances an administrator's dialog by one message.
func (r *Router) handleWizardInput(ctx context.Context, msg *tgbotapi.Message, w wizard, skip bool) {
	userID, chatID := msg.From.ID, msg.Chat.ID
	if !r.Admins.Contains(userID) {
		r.wizards.clear(userID)
		r.out.sendText(chatID, noAccessText)
		return
	}

	if w.Step == stepAwaitMedia {
		in, ok := mediaFromMessage(msg)
		if skip || !ok {
			r.out.sendText(chatID, askMediaAgainText)
			return
		}
		next, err := w.acceptMedia(in)
		if err != nil {
			r.out.sendText(chatID, askMediaAgainText)
			return
		}
		r.wizards.set(userID, next)
		r.out.sendText(chatID, askTitleText)
		return
	}

	text := strings.TrimSpace(msg.Text)
	if !skip && text == "" {
		r.out.sendText(chatID, askTextAgainText)
		return
	}
	next, done, err := w.acceptText(text, skip)
	if err != nil {
		r.wizards.clear(userID)
		r.out.sendText(chatID, genericErrorText)
		return
	}
	if !done {
		r.wizards.set(userID, next)
		r.out.sendText(chatID, askDescText)
		return
	}

	r.wizards.clear(userID)
	reply, err := r.finishWizard(ctx, next)
	if err != nil {
		r.log.Error("save media failed", zap.Int("level", next.Draft.PainLevel), zap.Int64("userID", userID), zap.Error(err))
		r.out.sendText(chatID, genericErrorText)
		return
	}
	r.out.sendText(chatID, reply)
}

func (r *Router) finishWizard(ctx context.Context, w wizard) (string, error) {
	level := w.Draft.PainLevel
	var (
		ok  bool
		err error
	)
	switch w.Step {
	case stepAwaitDescription:
		if err := r.Catalog.Upsert(ctx, &w.Draft); err != nil {
			return "", err
		}
		r.log.Info("media saved", zap.Int("level", level), zap.String("kind", string(w.Draft.Kind)))
		return fmt.Sprintf(savedFmt, level), nil
	case stepEditTitle:
		ok, err = r.Catalog.SetTitle(ctx, level, w.Draft.Title)
	case stepEditDescription:
		ok, err = r.Catalog.SetDescription(ctx, level, w.Draft.Description)
	default:
		return "", errWrongStep
	}
	if err != nil {
		return "", err
	}
	if !ok {
		return mediaNotFoundText, nil
	}
	return fmt.Sprintf(patchedFmt, level), nil
}

// mediaFromMessage extracts an audio, voice or video clip; ok is false for anything else.
func mediaFromMessage(msg *tgbotapi.Message) (mediaInput, bool) {
	switch {
	case msg.Audio != nil:
		return mediaInput{Kind: domain.MediaAudio, FileID: msg.Audio.FileID, DurationSec: msg.Audio.Duration, Title: msg.Audio.Title}, true
	case msg.Voice != nil:
		return mediaInput{Kind: domain.MediaVoice, FileID: msg.Voice.FileID, DurationSec: msg.Voice.Duration}, true
	case msg.Video != nil:
		return mediaInput{Kind: domain.MediaVideo, FileID: msg.Video.FileID, DurationSec: msg.Video.Duration}, true
	}
	return mediaInput{}, false
}

// --- Media screens ---

func (r *Router) showAudioMenu(ctx context.Context, s screen) error {
	byLevel, err := r.Catalog.ByLevel(ctx)
	if err != nil {
		return err
	}
	r.out.editScreen(s.chatID, s.messageID, audioMenuText, audioMenuKeyboard(byLevel))
	return nil
}

func (r *Router) showMediaDetails(ctx context.Context, s screen, level int) (string, error) {
	item, err := r.Catalog.Get(ctx, level)
	if errors.Is(err, domain.ErrNotFound) {
		return mediaNotFoundText, nil
	}
	if err != nil {
		return "", err
	}
	r.out.editScreen(s.chatID, s.messageID, mediaDetailsText(item, r.Loc), mediaEditKeyboard(level))
	return "", nil
}

func (r *Router) deleteMedia(ctx context.Context, s screen, level int) (string, error) {
	ok, err := r.Catalog.Delete(ctx, level)
	if err != nil {
		return "", err
	}
	if !ok {
		return mediaNotFoundText, nil
	}
	r.log.Info("media deleted", zap.Int("level", level), zap.Int64("userID", s.userID))
	return mediaDeletedText, r.showAudioMenu(ctx, s)
}

// --- Reminder screens ---

func (r *Router) showTimeSettings(ctx context.Context, s screen) error {
	rs, err := r.Settings.Reminder(ctx)
	if err != nil {
		return err
	}
	r.renderTimeSettings(s, rs)
	return nil
}

func (r *Router) renderTimeSettings(s screen, rs domain.ReminderSettings) {
	r.out.editScreen(s.chatID, s.messageID, timeSettingsText(rs, r.Loc.String()), timeSettingsKeyboard(rs.Enabled))
}

func (r *Router) setTime(ctx context.Context, s screen, hour, minute int) (string, error) {
	rs, err := r.Settings.SetReminderTime(ctx, hour, minute, s.userID)
	if err != nil {
		return "", err
	}
	r.renderTimeSettings(s, rs)
	return "Reminder time set to " + rs.Clock(), nil
}

func (r *Router) toggleReminders(ctx context.Context, s screen) (string, error) {
	rs, err := r.Settings.ToggleReminders(ctx, s.userID)
	if err != nil {
		return "", err
	}
	r.renderTimeSettings(s, rs)
	if rs.Enabled {
		return "Reminders on", nil
	}
	return "Reminders off", nil
}

// --- Statistics and users ---

func (r *Router) showOverview(ctx context.Context, s screen) error {
	ov, err := r.Stats.Overview(ctx)
	if err != nil {
		return err
	}
	r.out.editScreen(s.chatID, s.messageID, overviewText(ov), backKeyboard(actBackToMain))
	return nil
}

func (r *Router) showUsersMenu(ctx context.Context, s screen) error {
	total, active, err := r.Repo.CountUsers(ctx)
	if err != nil {
		return err
	}
	r.out.editScreen(s.chatID, s.messageID, usersMenuText(total, active), usersMenuKeyboard())
	return nil
}

func (r *Router) showUserList(ctx context.Context, s screen) error {
	users, err := r.Repo.ListUsers(ctx, userListLimit)
	if err != nil {
		return err
	}
	r.out.editScreen(s.chatID, s.messageID, userListText(users), backKeyboard(actManageUsers))
	return nil
}
