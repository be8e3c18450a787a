// Package audio converts uploaded clips into the canonical format the
// transcription engine requires: mono, 16 kHz, 16-bit signed PCM WAV.
package audio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CanonicalSampleRate is the sample rate the transcription engine expects.
const CanonicalSampleRate = 16000

// DecodeError reports that the input clip could not be decoded. It is a
// client-input failure: the caller should treat it as a bad request,
// not a server fault.
type DecodeError struct {
	Path   string
	Detail string
}

func (e *DecodeError) Error() string {
	if e.Detail == "" {
		return "cannot decode audio: " + e.Path
	}

	return fmt.Sprintf("cannot decode audio %s: %s", e.Path, e.Detail)
}

// Normalizer converts arbitrary audio containers (webm, ogg, mp3, ...)
// into canonical WAV by shelling out to ffmpeg.
type Normalizer struct {
	// Bin is the ffmpeg executable. Defaults to "ffmpeg" on PATH.
	Bin string
}

// Normalize decodes srcPath and writes a mono 16 kHz s16le WAV to dstPath.
// A non-zero ffmpeg exit becomes a *DecodeError carrying the stderr tail.
func (n *Normalizer) Normalize(ctx context.Context, srcPath, dstPath string) error {
	bin := n.Bin
	if bin == "" {
		bin = "ffmpeg"
	}

	cmd := exec.CommandContext(ctx, bin,
		"-hide_banner",
		"-y",
		"-i", srcPath,
		"-ac", "1",
		"-ar", fmt.Sprint(CanonicalSampleRate),
		"-acodec", "pcm_s16le",
		"-f", "wav",
		dstPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return &DecodeError{Path: srcPath, Detail: stderrTail(stderr.String())}
		}
		return fmt.Errorf("run %s: %w", bin, err)
	}

	return nil
}

// stderrTail keeps the last line of ffmpeg's stderr, which is where the
// actual decode failure message lands.
func stderrTail(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}

	return strings.TrimSpace(lines[len(lines)-1])
}
