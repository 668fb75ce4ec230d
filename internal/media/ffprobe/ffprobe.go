package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"opensound/internal/process"
	"opensound/internal/services"
)

// Result holds the audio streams ffprobe reported for one file.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes one audio stream.
type Stream struct {
	Index         int    `json:"index"`
	CodecName     string `json:"codec_name"`
	SampleFmt     string `json:"sample_fmt"`
	SampleRate    string `json:"sample_rate"`
	Channels      int    `json:"channels"`
	BitsPerSample int    `json:"bits_per_sample"`
}

// Format is the container name, e.g. "wav".
type Format struct {
	FormatName string `json:"format_name"`
}

var entries = strings.Join([]string{
	"stream=index,codec_name,sample_fmt,sample_rate,channels,bits_per_sample",
	"format=format_name",
}, ":")

// Inspect runs ffprobe on path, restricted to audio streams.
func Inspect(ctx context.Context, runner process.Runner, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	args := []string{"-v", "error", "-select_streams", "a", "-show_entries", entries, "-of", "json", "--", path}
	output, err := runner.Run(ctx, binary, args, "")
	if err != nil {
		return Result{}, err
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, &services.ParseError{Path: path, Detail: "ffprobe output", Err: err}
	}
	return result, nil
}

// FirstAudio returns the first stream, if any.
func (r Result) FirstAudio() (Stream, bool) {
	if len(r.Streams) == 0 {
		return Stream{}, false
	}
	return r.Streams[0], true
}

// SampleRateHz parses the stream sample rate, or 0 when unavailable.
func (s Stream) SampleRateHz() int {
	rate, err := strconv.Atoi(strings.TrimSpace(s.SampleRate))
	if err != nil || rate < 0 {
		return 0
	}
	return rate
}
