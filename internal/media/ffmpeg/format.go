// Package ffmpeg converts source samples to the canonical PCM WAV format
// used inside packages.
package ffmpeg

import "strconv"

// SampleRate represents audio sample rate in Hz
type SampleRate int

// Sample rates for packaged audio.
const (
	// SampleRate22050 is the rate the game mixer expects for effects.
	SampleRate22050 SampleRate = 22050
)

// ChannelCount represents number of audio channels
type ChannelCount int

// Channel configurations.
const (
	Mono   ChannelCount = 1
	Stereo ChannelCount = 2
)

// Codec represents the audio encoding format.
type Codec string

// Audio codecs.
const (
	// CodecPCM16LE is 16-bit signed little-endian PCM
	CodecPCM16LE Codec = "pcm_s16le"
)

// Format defines complete audio format specification.
type Format struct {
	SampleRate SampleRate
	Channels   ChannelCount
	Codec      Codec
}

// Canonical is the format every transcoded sample is written in.
var Canonical = Format{
	SampleRate: SampleRate22050,
	Channels:   Mono,
	Codec:      CodecPCM16LE,
}

// Args returns the ffmpeg argument vector that converts src to dst in f,
// dropping all source metadata and overwriting dst.
func (f Format) Args(src, dst string) []string {
	return []string{
		"-i", src,
		"-acodec", string(f.Codec),
		"-ar", strconv.Itoa(int(f.SampleRate)),
		"-ac", strconv.Itoa(int(f.Channels)),
		"-map_metadata", "-1",
		"-y", dst,
	}
}
