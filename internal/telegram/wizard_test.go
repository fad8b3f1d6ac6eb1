package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alareon123/spina-bot/internal/domain"
)

func TestUploadWizard_FullPath(t *testing.T) {
	w := newUploadWizard(3, 99)
	assert.False(t, w.wantsText())

	w, err := w.acceptMedia(mediaInput{Kind: domain.MediaVideo, FileID: "vid", DurationSec: 45})
	require.NoError(t, err)
	assert.Equal(t, stepAwaitTitle, w.Step)
	assert.True(t, w.wantsText())

	w, done, err := w.acceptText("Cat-cow", false)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, stepAwaitDescription, w.Step)

	w, done, err = w.acceptText("Ten slow reps", false)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, domain.MediaItem{
		PainLevel: 3, Kind: domain.MediaVideo, FileID: "vid", DurationSec: 45,
		Title: "Cat-cow", Description: "Ten slow reps", CreatedBy: 99,
	}, w.Draft)
}

func TestUploadWizard_SkipKeepsOptionalFieldsEmptyOrPrefilled(t *testing.T) {
	w := newUploadWizard(1, 5)
	w, err := w.acceptMedia(mediaInput{Kind: domain.MediaAudio, FileID: "a", Title: "From tags"})
	require.NoError(t, err)

	w, _, err = w.acceptText("", true)
	require.NoError(t, err)
	w, done, err := w.acceptText("", true)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, "From tags", w.Draft.Title)
	assert.Empty(t, w.Draft.Description)
}

func TestUploadWizard_RejectsOutOfOrderInput(t *testing.T) {
	w := newUploadWizard(2, 1)

	_, _, err := w.acceptText("too early", false)
	assert.ErrorIs(t, err, errWrongStep)

	_, err = w.acceptMedia(mediaInput{})
	assert.ErrorIs(t, err, errNoMedia)

	w, err = w.acceptMedia(mediaInput{Kind: domain.MediaVoice, FileID: "v"})
	require.NoError(t, err)
	_, err = w.acceptMedia(mediaInput{Kind: domain.MediaVoice, FileID: "again"})
	assert.ErrorIs(t, err, errWrongStep)
}

func TestEditWizard(t *testing.T) {
	w, done, err := newEditWizard(stepEditTitle, 4).acceptText("New title", false)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, "New title", w.Draft.Title)

	w, done, err = newEditWizard(stepEditDescription, 4).acceptText("ignored", true)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Empty(t, w.Draft.Description, "skip clears in edit mode")
}

func TestWizards_Store(t *testing.T) {
	ws := newWizards()
	_, ok := ws.get(1)
	assert.False(t, ok)

	ws.set(1, newUploadWizard(2, 1))
	w, ok := ws.get(1)
	require.True(t, ok)
	assert.Equal(t, 2, w.Draft.PainLevel)

	ws.clear(1)
	_, ok = ws.get(1)
	assert.False(t, ok)
}
