package speech

import "time"

// Default Azure voice. Full list:
// https://learn.microsoft.com/en-us/azure/ai-services/speech-service/language-support
const DefaultVoice = "es-ES-ElviraNeural"

// DefaultLanguage is the BCP-47 tag used for SSML and browser voice matching.
const DefaultLanguage = "es-ES"

// Audio format requested from Azure and expected by the player.
const DefaultAudioFormat = "riff-24khz-16bit-mono-pcm"

// Audio parameters of the output device.
const (
	SampleRate   = 24000
	ChannelCount = 1
	BitDepth     = 16
)

// Remote voices speak slower than normal for comprehension.
const (
	DefaultRate   = 0.8
	DefaultPitch  = 1.0
	DefaultVolume = 0.9
)

// pollInterval bounds how long the player takes to notice stop or pause.
const pollInterval = 10 * time.Millisecond

// SelfTestPhrase is spoken by SelfTest.
const SelfTestPhrase = "Prueba de voz. Si puedes oír esto, el audio funciona."
