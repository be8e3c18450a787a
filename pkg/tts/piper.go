// Package tts renders sanitized reply text to a WAV file through the
// piper synthesis binary.
package tts

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Piper runs the piper text-to-speech binary. Synthesis failures are
// propagated loudly: there is no safe fallback audio to hand a caller.
type Piper struct {
	// Bin is the piper executable path.
	Bin string
	// Model is the voice model (.onnx) path.
	Model string

	Logger *zap.Logger
}

// Available reports whether the binary and voice model exist on disk.
// Used for a startup warning only; a missing binary still fails naturally
// at synthesis time.
func (p *Piper) Available() bool {
	if _, err := os.Stat(p.Model); err != nil {
		return false
	}
	if _, err := exec.LookPath(p.Bin); err != nil {
		if _, statErr := os.Stat(p.Bin); statErr != nil {
			return false
		}
	}

	return true
}

// Synthesize renders text into a WAV file at outPath. The text is passed
// on stdin, which sidesteps argv length limits for long replies.
func (p *Piper) Synthesize(ctx context.Context, text, outPath string) error {
	cmd := exec.CommandContext(ctx, p.Bin,
		"--model", p.Model,
		"--output_file", outPath,
	)
	cmd.Stdin = strings.NewReader(text)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if p.Logger != nil {
		p.Logger.Debug("running synthesis",
			zap.String("bin", p.Bin),
			zap.String("model", p.Model),
			zap.Int("text_len", len(text)),
		)
	}

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return fmt.Errorf("piper synthesis failed: %w: %s", err, detail)
		}
		return fmt.Errorf("piper synthesis failed: %w", err)
	}

	return nil
}
