package speech

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// wavFormat is the subset of a "fmt " chunk the player cares about.
type wavFormat struct {
	audioFormat   uint16
	channels      uint16
	sampleRate    uint32
	bitsPerSample uint16
}

// decodeWAV parses a RIFF/WAVE buffer and returns signed 16-bit
// little-endian mono PCM at rate Hz.
func decodeWAV(wav []byte, rate int) ([]byte, error) {
	if len(wav) < 12 {
		return nil, errors.New("wav data too short")
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		return nil, errors.New("not a valid WAV file")
	}

	var (
		format  *wavFormat
		samples []byte
	)

	// Walk chunks; they are word-aligned.
	pos := 12
	for pos+8 <= len(wav) {
		id := string(wav[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(wav[pos+4 : pos+8]))
		start := pos + 8
		end := start + size
		if end > len(wav) || end < start {
			// Streamed WAVs often carry a bogus data size.
			end = len(wav)
		}

		switch id {
		case "fmt ":
			if end-start < 16 {
				return nil, errors.New("fmt chunk too short")
			}
			b := wav[start:end]
			format = &wavFormat{
				audioFormat:   binary.LittleEndian.Uint16(b[0:2]),
				channels:      binary.LittleEndian.Uint16(b[2:4]),
				sampleRate:    binary.LittleEndian.Uint32(b[4:8]),
				bitsPerSample: binary.LittleEndian.Uint16(b[14:16]),
			}
		case "data":
			samples = wav[start:end]
		}
		if samples != nil && format != nil {
			break
		}

		pos = end
		if size%2 != 0 {
			pos++
		}
	}

	if format == nil {
		return nil, errors.New("fmt chunk not found in WAV")
	}
	if samples == nil {
		return nil, errors.New("data chunk not found in WAV")
	}
	// 0xFFFE is WAVE_FORMAT_EXTENSIBLE, which Piper and some encoders emit for plain PCM.
	if format.audioFormat != 1 && format.audioFormat != 0xFFFE {
		return nil, fmt.Errorf("unsupported WAV encoding %d (want PCM)", format.audioFormat)
	}
	if format.bitsPerSample != 16 {
		return nil, fmt.Errorf("unsupported WAV bit depth %d (want 16)", format.bitsPerSample)
	}
	if format.channels == 0 || format.sampleRate == 0 {
		return nil, errors.New("invalid WAV format header")
	}

	pcm := bytesToInt16(samples)
	pcm = downmix(pcm, int(format.channels))
	pcm = resample(pcm, int(format.sampleRate), rate)
	return int16ToBytes(pcm), nil
}

func bytesToInt16(b []byte) []int16 {
	out := make([]int16, len(b)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(b[i*2:]))
	}
	return out
}

func int16ToBytes(s []int16) []byte {
	out := make([]byte, len(s)*2)
	for i, v := range s {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(v))
	}
	return out
}

// downmix averages interleaved channels into one.
func downmix(s []int16, channels int) []int16 {
	if channels <= 1 {
		return s
	}
	frames := len(s) / channels
	out := make([]int16, frames)
	for f := 0; f < frames; f++ {
		var sum int
		for c := 0; c < channels; c++ {
			sum += int(s[f*channels+c])
		}
		out[f] = int16(sum / channels)
	}
	return out
}

// resample converts mono samples between rates with linear interpolation.
func resample(s []int16, from, to int) []int16 {
	if from == to || len(s) == 0 {
		return s
	}
	n := int(int64(len(s)) * int64(to) / int64(from))
	out := make([]int16, n)
	step := float64(from) / float64(to)
	for i := range out {
		x := float64(i) * step
		j := int(x)
		if j >= len(s)-1 {
			out[i] = s[len(s)-1]
			continue
		}
		frac := x - float64(j)
		out[i] = int16(float64(s[j])*(1-frac) + float64(s[j+1])*frac)
	}
	return out
}
