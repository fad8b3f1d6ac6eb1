package telegram

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/alareon123/spina-bot/internal/domain"
)

// UI texts in English
const (
	greetingFmt = "Hi, %s! 👋\n\n" +
		"I look after your back. Every day I will ask how it feels and send an exercise that fits.\n\n" +
		painScaleText + "\n\n" +
		"Let's start! How is your back today?"
	painScaleText = "🔢 Rate your pain from 1 to 5:\n" +
		"1 - no pain\n" +
		"2 - mild\n" +
		"3 - moderate\n" +
		"4 - strong\n" +
		"5 - very strong"
	helpText = "🆘 Help\n\n" +
		"Commands:\n" +
		"/start - start the bot\n" +
		"/rate - rate your back right now\n" +
		"/stats - my statistics\n" +
		"/stop - turn daily reminders off\n" +
		"/resume - turn daily reminders on\n" +
		"/status - reminder status\n" +
		"/help - this message\n\n" +
		"💡 How it works:\n" +
		"• Every day I ask how your back feels\n" +
		"• Rate the pain from 1 to 5\n" +
		"• Get an exercise clip for that level\n" +
		"• Follow your progress with /stats\n\n" +
		"Take care of your back! 💙"
	rateText = "🩺 How is your back right now?\n" +
		"Rate the pain from 1 to 5:"
	reminderText = "🌅 Good morning!\n\n" +
		"Time to check on your back.\n" +
		"How do you feel today?\n\n" +
		"Rate the pain from 1 to 5:"
	thanksFmt          = "Thanks! Pain level: %d\n\n"
	mediaIntroText     = "Here is an exercise for you:"
	encouragementText  = "Take care of your back and keep up the regular exercise! 💙"
	genericErrorText   = "Something went wrong. Please try again later."
	notRegisteredText  = "You are not registered yet. Press /start."
	unknownCommandText = "Unknown command. See /help for the list."
	notUnderstoodText  = "I don't understand. Use /help, or /rate to rate your pain."
	noStatsText        = "📊 Your statistics\n\n" +
		"No ratings yet.\n" +
		"Press /rate for the first one!"
	stoppedText = "🔕 Reminders off\n\n" +
		"You will no longer get the daily reminder.\n\n" +
		"You can still:\n" +
		"• rate your pain with /rate\n" +
		"• see your statistics with /stats\n" +
		"• turn reminders back on with /resume\n\n" +
		"Take care of your back! 💙"
	resumedFmt = "🔔 Reminders on\n\n" +
		"You will get the daily reminder at %s again.\n\n" +
		"Regular care is the key to a healthy back! 🌟\n\n" +
		"To turn reminders off use /stop"
	resumedGlobalOffText = "🔔 Your reminders are on\n\n" +
		"⚠️ Reminders are currently paused by the administrator.\n" +
		"You will get them as soon as they are switched back on.\n\n" +
		"Meanwhile you can rate your back with /rate"

	noAccessPanelText = "You don't have access to the admin panel."
	noAccessText      = "You don't have access."
	adminPanelText    = "🔧 Admin panel\n\nChoose an action:"
	audioMenuText     = "🎵 Media\n\nChoose a pain level to configure:"
	changeTimeText    = "⏰ Reminder time\n\nPick one of the presets:"
	cancelledText     = "Operation cancelled."
	nothingToCancel   = "Nothing to cancel."
	nothingToSkip     = "Nothing to skip."
	askMediaFmt       = "Send an audio, voice or video clip for pain level %d (or /cancel):"
	askMediaAgainText = "Please send an audio, voice or video clip, or /cancel."
	askTitleText      = "Now send a title for this clip (or /skip):"
	askDescText       = "Now send the text shown with this clip (or /skip):"
	askEditTitleFmt   = "Send a new title for pain level %d (/skip clears it, /cancel aborts):"
	askEditDescFmt    = "Send new text for pain level %d (/skip clears it, /cancel aborts):"
	askTextAgainText  = "Please send text, /skip or /cancel."
	savedFmt          = "✅ Media for pain level %d saved!"
	patchedFmt        = "✅ Pain level %d updated."
	mediaNotFoundText = "Media not found"
	mediaDeletedText  = "Media deleted"
)

const dateLayout = "02.01.2006"
const dateTimeLayout = "02.01.2006 15:04"

func greetingText(name string) string {
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(greetingFmt, name)
}

// ratingReplyText is the acknowledgement sent after a rating; item may be nil.
func ratingReplyText(rating int, item *domain.MediaItem) string {
	head := fmt.Sprintf(thanksFmt, rating)
	switch {
	case item == nil:
		return head + encouragementText
	case item.Description != "":
		return head + item.Description
	default:
		return head + mediaIntroText
	}
}

func userStatsText(st domain.UserStats, loc *time.Location) string {
	var b strings.Builder
	b.WriteString("📊 Your statistics\n\n")
	fmt.Fprintf(&b, "📅 Registered: %s\n", st.RegisteredAt.In(loc).Format(dateLayout))
	fmt.Fprintf(&b, "💬 Ratings: %d\n", st.Total)
	fmt.Fprintf(&b, "📈 Average pain: %.1f\n", st.Average)
	fmt.Fprintf(&b, "🕐 Last rating: %s\n", st.LastAt.In(loc).Format(dateTimeLayout))
	fmt.Fprintf(&b, "🎯 Last level: %d\n\n", st.LastRating)
	b.WriteString("📋 By level:\n")
	for _, l := range domain.PainLevels() {
		fmt.Fprintf(&b, "Level %d: %d (%.1f%%)\n", l, st.Counts[l], st.Percent(l))
	}
	if st.RecentCount > 0 {
		b.WriteString("\n📅 Last 7 days:\n")
		fmt.Fprintf(&b, "Ratings: %d\n", st.RecentCount)
		fmt.Fprintf(&b, "Average: %.1f", st.RecentAvg)
	}
	return b.String()
}

func statusText(u *domain.User, rs domain.ReminderSettings) string {
	userStatus := "🟢 On"
	if !u.IsActive {
		userStatus = "🔴 Off"
	}
	globalStatus := "🟢 On"
	if !rs.Enabled {
		globalStatus = "🔴 Paused by the administrator"
	}
	final := "❌ Reminders will not arrive"
	if u.IsActive && rs.Enabled {
		final = "✅ You will get reminders at " + rs.Clock()
	}
	return fmt.Sprintf("📋 Reminder status\n\n"+
		"Your reminders: %s\n"+
		"Global reminders: %s\n"+
		"Time: %s\n\n"+
		"%s\n\n"+
		"Manage:\n"+
		"• /stop - turn off\n"+
		"• /resume - turn on",
		userStatus, globalStatus, rs.Clock(), final)
}

func resumedText(rs domain.ReminderSettings) string {
	if !rs.Enabled {
		return resumedGlobalOffText
	}
	return fmt.Sprintf(resumedFmt, rs.Clock())
}

func timeSettingsText(rs domain.ReminderSettings, tz string) string {
	status := "🟢 On"
	if !rs.Enabled {
		status = "🔴 Off"
	}
	return fmt.Sprintf("⏰ Reminder settings\n\nTime: %s (%s)\nStatus: %s", rs.Clock(), tz, status)
}

func overviewText(ov domain.Overview) string {
	var b strings.Builder
	b.WriteString("📊 Bot statistics\n\n")
	fmt.Fprintf(&b, "👥 Users: %d\n", ov.TotalUsers)
	fmt.Fprintf(&b, "✅ Active: %d\n", ov.ActiveUsers)
	fmt.Fprintf(&b, "💬 Ratings: %d\n\n", ov.TotalResponses)
	b.WriteString("📈 Pain levels (30 days):\n")
	for _, l := range domain.PainLevels() {
		fmt.Fprintf(&b, "Level %d: %d\n", l, ov.RecentCounts[l])
	}
	return b.String()
}

func usersMenuText(total, active int) string {
	return fmt.Sprintf("👥 Users\n\nTotal: %d\nActive: %d", total, active)
}

func userListText(users []domain.User) string {
	if len(users) == 0 {
		return "👥 No users yet."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "👥 Latest %d users:\n\n", len(users))
	for _, u := range users {
		mark := "🟢"
		if !u.IsActive {
			mark = "🔴"
		}
		last := "—"
		if u.LastPainRating != nil {
			last = fmt.Sprint(*u.LastPainRating)
		}
		fmt.Fprintf(&b, "%s %s (%d), last: %s\n", mark, u.DisplayName(), u.TelegramID, last)
	}
	return b.String()
}

func mediaDetailsText(item *domain.MediaItem, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎵 Media for pain level %d\n\n", item.PainLevel)
	fmt.Fprintf(&b, "🎞 Type: %s\n", item.Kind)
	fmt.Fprintf(&b, "🏷 Title: %s\n", orDash(item.Title))
	fmt.Fprintf(&b, "📝 Text: %s\n", orDash(item.Description))
	if item.DurationSec > 0 {
		fmt.Fprintf(&b, "⏱ Duration: %s\n", (time.Duration(item.DurationSec) * time.Second).String())
	}
	fmt.Fprintf(&b, "📅 Created: %s", item.CreatedAt.In(loc).Format(dateTimeLayout))
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "not set"
	}
	return s
}

// Inline keyboards

func painKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("1️⃣", levelData(actPain, 1)),
			tgbotapi.NewInlineKeyboardButtonData("2️⃣", levelData(actPain, 2)),
			tgbotapi.NewInlineKeyboardButtonData("3️⃣", levelData(actPain, 3)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("4️⃣", levelData(actPain, 4)),
			tgbotapi.NewInlineKeyboardButtonData("5️⃣", levelData(actPain, 5)),
		),
	)
}

func backButton(to action) []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🔙 Back", string(to)))
}

func adminPanelKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🎵 Media", string(actManageAudio))),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("⏰ Reminder time", string(actManageTime))),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📊 Statistics", string(actViewStats))),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("👥 Users", string(actManageUsers))),
	)
}

func audioMenuKeyboard(byLevel map[int]domain.MediaItem) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, domain.MaxPainLevel+1)
	for _, l := range domain.PainLevels() {
		if _, ok := byLevel[l]; ok {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("✅ Level %d (configured)", l), levelData(actEditAudio, l)),
			))
			continue
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("➕ Add for level %d", l), levelData(actAddAudio, l)),
		))
	}
	rows = append(rows, backButton(actBackToMain))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func mediaEditKeyboard(level int) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🔄 Replace clip", levelData(actReplaceAudio, level))),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🏷 Edit title", levelData(actEditTitle, level))),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📝 Edit text", levelData(actEditText, level))),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", levelData(actDeleteAudio, level))),
		backButton(actManageAudio),
	)
}

func timeSettingsKeyboard(enabled bool) tgbotapi.InlineKeyboardMarkup {
	toggle := "🟢 Turn reminders on"
	if enabled {
		toggle = "🔴 Turn reminders off"
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("⏰ Change time", string(actChangeTime))),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(toggle, string(actToggleReminders))),
		backButton(actBackToMain),
	)
}

// timePresets are the fire times offered to the administrator.
var timePresets = [][2]int{{8, 0}, {9, 0}, {10, 0}, {11, 0}, {12, 0}, {20, 0}}

func timePresetsKeyboard() tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(timePresets)/2+1)
	for i := 0; i < len(timePresets); i += 2 {
		row := make([]tgbotapi.InlineKeyboardButton, 0, 2)
		for _, p := range timePresets[i:min(i+2, len(timePresets))] {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(domain.FormatClock(p[0], p[1]), timeData(p[0], p[1])))
		}
		rows = append(rows, row)
	}
	rows = append(rows, backButton(actManageTime))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func usersMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📝 User list", string(actListUsers))),
		backButton(actBackToMain),
	)
}

func backKeyboard(to action) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(backButton(to))
}
