package speech

import (
	"fmt"

	"github.com/gen2brain/malgo"
)

// HasPlaybackDevice asks miniaudio whether any playback device exists.
// oto opens a context even on some hosts with no sink (e.g. a null ALSA
// device), so the probe runs first.
func HasPlaybackDevice() (bool, error) {
	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(string) {})
	if err != nil {
		return false, fmt.Errorf("audio context: %w", err)
	}
	defer func() { _ = mctx.Uninit(); mctx.Free() }()

	devices, err := mctx.Devices(malgo.Playback)
	if err != nil {
		return false, fmt.Errorf("listing playback devices: %w", err)
	}
	return len(devices) > 0, nil
}
