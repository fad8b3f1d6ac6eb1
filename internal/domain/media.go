package domain

import "time"

// MediaKind tells the delivery layer which send method a file token needs.
type MediaKind string

const (
	MediaAudio MediaKind = "audio"
	MediaVoice MediaKind = "voice"
	MediaVideo MediaKind = "video"
)

func (k MediaKind) Valid() bool {
	switch k {
	case MediaAudio, MediaVoice, MediaVideo:
		return true
	}
	return false
}

// MediaItem is the clip attached to a single pain level.
type MediaItem struct {
	ID          int64
	PainLevel   int
	Kind        MediaKind
	FileID      string // opaque Telegram file token
	Title       string // optional
	Description string // optional, shown to the user next to the clip
	DurationSec int    // 0 when unknown
	CreatedBy   int64
	CreatedAt   time.Time // UTC
}
