package config

import (
	"fmt"
	"strings"
)

// Mode picks the presentation surface and speech backend.
type Mode int

const (
	// ModeLocal runs the terminal UI with on-device speech.
	ModeLocal Mode = iota
	// ModeHosted serves the web page; speech runs in the browser.
	ModeHosted
)

func (m Mode) String() string {
	if m == ModeHosted {
		return "hosted"
	}
	return "local"
}

// ParseMode accepts "local" or "hosted" (also "web", "headless").
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "local", "tui":
		return ModeLocal, nil
	case "hosted", "web", "headless", "server":
		return ModeHosted, nil
	}
	return ModeLocal, fmt.Errorf("unknown mode %q (want local or hosted)", s)
}

// headlessFlags are boolean switches that force hosted mode when truthy.
var headlessFlags = []string{"CHEF_HEADLESS", "STREAMLIT_SERVER_HEADLESS"}

// hostingMarkers are set by hosting platforms; their mere presence means
// there is no local audio device to speak through.
var hostingMarkers = []string{
	"SPACE_ID",               // Hugging Face Spaces
	"K_SERVICE",              // Cloud Run
	"DYNO",                   // Heroku
	"RENDER",                 // Render
	"RAILWAY_ENVIRONMENT",    // Railway
	"FLY_APP_NAME",           // Fly.io
	"STREAMLIT_SHARING_MODE", // Streamlit Community Cloud
}

// DetectMode decides the mode from environment signals alone. An explicit
// CHEF_MODE wins; otherwise any headless flag or hosting marker selects
// hosted mode.
func DetectMode(lookup LookupFunc) Mode {
	if v, ok := lookup("CHEF_MODE"); ok && strings.TrimSpace(v) != "" {
		if m, err := ParseMode(v); err == nil {
			return m
		}
	}
	for _, key := range headlessFlags {
		if v, ok := lookup(key); ok && truthy(v) {
			return ModeHosted
		}
	}
	for _, key := range hostingMarkers {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return ModeHosted
		}
	}
	return ModeLocal
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
