package domain

// PlaybackState is the lifecycle state of a read-aloud session.
type PlaybackState int

const (
	PlaybackIdle PlaybackState = iota
	PlaybackPlaying
	PlaybackPaused
	PlaybackStopped
	// PlaybackUnknown is reported by backends that cannot observe playback.
	PlaybackUnknown
)

// String returns a human-readable playback state.
func (s PlaybackState) String() string {
	switch s {
	case PlaybackIdle:
		return "idle"
	case PlaybackPlaying:
		return "playing"
	case PlaybackPaused:
		return "paused"
	case PlaybackStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// PlaybackStatus is a snapshot of a backend's session.
type PlaybackStatus struct {
	State  PlaybackState `json:"state"`
	Cursor int           `json:"cursor"`
	Total  int           `json:"total"`
}

// MarshalText lets the state appear as a string in JSON payloads.
func (s PlaybackState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
