package ffmpeg

import (
	"context"
	"fmt"
	"strings"

	"opensound/internal/media/ffprobe"
	"opensound/internal/process"
	"opensound/internal/services"
)

// ProbeVerifier inspects transcoded files with ffprobe.
type ProbeVerifier struct {
	Binary string
	Runner process.Runner
}

// Verify fails with a validation error when the first audio stream of path
// does not match want.
func (v ProbeVerifier) Verify(ctx context.Context, path string, want Format) error {
	runner := v.Runner
	if runner == nil {
		runner = process.New(nil)
	}
	result, err := ffprobe.Inspect(ctx, runner, v.Binary, path)
	if err != nil {
		return err
	}
	stream, ok := result.FirstAudio()
	if !ok {
		return services.Wrap(services.ErrValidation, "transcode", "verify", path+": no audio stream", nil)
	}
	var problems []string
	if Codec(stream.CodecName) != want.Codec {
		problems = append(problems, fmt.Sprintf("codec %s, want %s", stream.CodecName, want.Codec))
	}
	if SampleRate(stream.SampleRateHz()) != want.SampleRate {
		problems = append(problems, fmt.Sprintf("sample rate %s, want %d", stream.SampleRate, want.SampleRate))
	}
	if ChannelCount(stream.Channels) != want.Channels {
		problems = append(problems, fmt.Sprintf("channels %d, want %d", stream.Channels, want.Channels))
	}
	if len(problems) > 0 {
		return services.Wrap(services.ErrValidation, "transcode", "verify", path+": "+strings.Join(problems, "; "), nil)
	}
	return nil
}
