package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alareon123/spina-bot/internal/domain"
)

type action string

// Callback actions without a suffix.
const (
	actManageAudio     action = "manage_audio"
	actManageTime      action = "manage_time"
	actViewStats       action = "view_stats"
	actManageUsers     action = "manage_users"
	actListUsers       action = "list_users"
	actBackToMain      action = "back_to_main"
	actToggleReminders action = "toggle_reminders"
	actChangeTime      action = "change_time"
)

// Callback actions suffixed with _<level>.
const (
	actPain         action = "pain"
	actAddAudio     action = "add_audio"
	actReplaceAudio action = "replace_audio"
	actEditAudio    action = "edit_audio"
	actEditTitle    action = "edit_title"
	actEditText     action = "edit_text"
	actDeleteAudio  action = "delete_audio"
)

// actSetTime is suffixed with _<hour>_<minute>.
const actSetTime action = "set_time"

var plainActions = map[action]bool{
	actManageAudio:     true,
	actManageTime:      true,
	actViewStats:       true,
	actManageUsers:     true,
	actListUsers:       true,
	actBackToMain:      true,
	actToggleReminders: true,
	actChangeTime:      true,
}

var levelActions = []action{
	actPain, actAddAudio, actReplaceAudio, actEditAudio, actEditTitle, actEditText, actDeleteAudio,
}

// callback is decoded inline button data.
type callback struct {
	Action action
	Level  int // for level actions
	Hour   int // for actSetTime
	Minute int // for actSetTime
}

// parseCallback decodes button data; ok is false for anything unrecognised
// or carrying an out-of-range level or time.
func parseCallback(data string) (callback, bool) {
	a := action(data)
	if plainActions[a] {
		return callback{Action: a}, true
	}

	if rest, found := strings.CutPrefix(data, string(actSetTime)+"_"); found {
		parts := strings.Split(rest, "_")
		if len(parts) != 2 {
			return callback{}, false
		}
		h, errH := strconv.Atoi(parts[0])
		m, errM := strconv.Atoi(parts[1])
		if errH != nil || errM != nil || domain.ValidateClock(h, m) != nil {
			return callback{}, false
		}
		return callback{Action: actSetTime, Hour: h, Minute: m}, true
	}

	for _, la := range levelActions {
		rest, found := strings.CutPrefix(data, string(la)+"_")
		if !found {
			continue
		}
		level, err := strconv.Atoi(rest)
		if err != nil || !domain.ValidPainLevel(level) {
			return callback{}, false
		}
		return callback{Action: la, Level: level}, true
	}
	return callback{}, false
}

func (a action) isAdmin() bool {
	return a != actPain
}

func levelData(a action, level int) string {
	return fmt.Sprintf("%s_%d", a, level)
}

func timeData(hour, minute int) string {
	return fmt.Sprintf("%s_%d_%d", actSetTime, hour, minute)
}
