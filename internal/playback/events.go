package playback

import (
	"github.com/llehouerou/setlist/internal/sequence"
)

// StateChange is emitted when playback state changes.
type StateChange struct {
	Previous State
	Current  State
}

// TrackChange is emitted when a song is loaded.
//
// Emitted by Load for every transition that selected a song, including
// restarts of the same song. Not emitted when a load fails before the media
// is opened.
type TrackChange struct {
	Previous   *Track
	Current    *Track
	Generation uint64
	Restart    bool
}

// QueueChange is emitted when the manual queue contents change.
type QueueChange struct {
	Tracks []Track
}

// ModeChange is emitted when repeat or shuffle mode changes.
type ModeChange struct {
	Repeat  sequence.RepeatMode
	Shuffle bool
}

// FinishEvent is emitted when the loaded song plays to its end.
type FinishEvent struct {
	Track      Track
	Generation uint64
}

// ErrorEvent is emitted when a media fault occurs.
type ErrorEvent struct {
	Operation string // e.g., "open", "start"
	Path      string // song path if applicable
	Err       error
}
