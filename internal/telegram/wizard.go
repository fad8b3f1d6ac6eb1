package telegram

import (
	"errors"
	"sync"

	"github.com/alareon123/spina-bot/internal/domain"
)

// wizardStep is the position in an administrator's media dialog.
//
// Upload: awaitMedia -> awaitTitle -> awaitDescription -> saved.
// Edit:   editTitle | editDescription -> saved.
type wizardStep int

const (
	stepNone wizardStep = iota
	stepAwaitMedia
	stepAwaitTitle
	stepAwaitDescription
	stepEditTitle
	stepEditDescription
)

var (
	errWrongStep = errors.New("wizard is not waiting for this input")
	errNoMedia   = errors.New("message carries no audio, voice or video")
)

// mediaInput is the clip extracted from an incoming message.
type mediaInput struct {
	Kind        domain.MediaKind
	FileID      string
	DurationSec int
	Title       string // audio metadata, may be empty
}

// wizard carries the partial media record between steps.
type wizard struct {
	Step  wizardStep
	Draft domain.MediaItem
}

func newUploadWizard(level int, admin int64) wizard {
	return wizard{
		Step:  stepAwaitMedia,
		Draft: domain.MediaItem{PainLevel: level, CreatedBy: admin},
	}
}

func newEditWizard(step wizardStep, level int) wizard {
	return wizard{Step: step, Draft: domain.MediaItem{PainLevel: level}}
}

// acceptMedia fills the clip fields and moves to the title step.
func (w wizard) acceptMedia(in mediaInput) (wizard, error) {
	if w.Step != stepAwaitMedia {
		return w, errWrongStep
	}
	if in.FileID == "" || !in.Kind.Valid() {
		return w, errNoMedia
	}
	w.Draft.Kind = in.Kind
	w.Draft.FileID = in.FileID
	w.Draft.DurationSec = in.DurationSec
	w.Draft.Title = in.Title
	w.Step = stepAwaitTitle
	return w, nil
}

// acceptText consumes a text answer. skip keeps the field as it is for the
// upload steps and clears it for the edit steps. done reports that the draft
// is complete and should be persisted.
func (w wizard) acceptText(text string, skip bool) (next wizard, done bool, err error) {
	switch w.Step {
	case stepAwaitTitle:
		if !skip {
			w.Draft.Title = text
		}
		w.Step = stepAwaitDescription
		return w, false, nil
	case stepAwaitDescription:
		if !skip {
			w.Draft.Description = text
		}
		return w, true, nil
	case stepEditTitle:
		w.Draft.Title = text
		if skip {
			w.Draft.Title = ""
		}
		return w, true, nil
	case stepEditDescription:
		w.Draft.Description = text
		if skip {
			w.Draft.Description = ""
		}
		return w, true, nil
	default:
		return w, false, errWrongStep
	}
}

// wantsText reports whether the current step expects a text answer.
func (w wizard) wantsText() bool {
	switch w.Step {
	case stepAwaitTitle, stepAwaitDescription, stepEditTitle, stepEditDescription:
		return true
	}
	return false
}

// wizards holds in-progress dialogs keyed by administrator ID (non-persistent).
type wizards struct {
	mu sync.RWMutex
	m  map[int64]wizard
}

func newWizards() *wizards {
	return &wizards{m: make(map[int64]wizard)}
}

func (ws *wizards) get(userID int64) (wizard, bool) {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	w, ok := ws.m[userID]
	return w, ok
}

func (ws *wizards) set(userID int64, w wizard) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.m[userID] = w
}

func (ws *wizards) clear(userID int64) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	delete(ws.m, userID)
}
