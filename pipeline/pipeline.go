// Package pipeline sequences one voice turn: upload, decode, transcribe,
// converse, synthesize, respond. Every temp file allocated along the way
// is released when the turn exits, whichever way it exits.
package pipeline

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/lumora-ai/voicechat/pkg/archive"
	"github.com/lumora-ai/voicechat/pkg/audio"
	"github.com/lumora-ai/voicechat/pkg/history"
	"github.com/lumora-ai/voicechat/pkg/llm"
	"github.com/lumora-ai/voicechat/pkg/prompt"
	"github.com/lumora-ai/voicechat/pkg/sanitize"
	"github.com/lumora-ai/voicechat/pkg/stt"
	"github.com/lumora-ai/voicechat/pkg/tmpfile"
	"github.com/lumora-ai/voicechat/pkg/tts"
)

// ErrEmptySpeech means transcription produced no usable text. It is a
// client-input failure, raised before the conversation log is touched.
var ErrEmptySpeech = errors.New("empty or unrecognized speech")

// Normalizer converts an uploaded clip into canonical WAV.
type Normalizer interface {
	Normalize(ctx context.Context, srcPath, dstPath string) error
}

// Transcriber turns a canonical WAV file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, wavPath string) (string, error)
}

// Responder produces the assistant reply for a rendered prompt. It never
// fails: collaborator implementations degrade to a fallback reply.
type Responder interface {
	Ask(ctx context.Context, prompt string) string
}

// Synthesizer renders spoken audio for the reply text at outPath.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, outPath string) error
}

// Pipeline is the voice-chat service: a fiber HTTP surface around the
// turn orchestrator and its collaborators.
type Pipeline struct {
	config  Config
	logger  *zap.Logger
	server  *fiber.App
	tmp     *tmpfile.Manager
	turns   *history.Log
	prompts *prompt.Source
	store   archive.Store

	normalizer  Normalizer
	transcriber Transcriber
	responder   Responder
	synthesizer Synthesizer
}

// New creates a Pipeline with the production collaborators wired in.
func New(config Config, logger *zap.Logger) (*Pipeline, error) {
	tmp, err := tmpfile.NewManager(config.ScratchDir, logger)
	if err != nil {
		return nil, err
	}

	prompts, err := prompt.NewSource(config.PromptPath, logger)
	if err != nil {
		return nil, err
	}

	var store archive.Store
	if config.DBPath != "" {
		store, err = archive.NewSQLiteStore(config.DBPath)
		if err != nil {
			return nil, err
		}
		logger.Info("archiving turns to SQLite", zap.String("path", config.DBPath))
	} else {
		store = archive.NewMemoryStore()
		logger.Info("archiving turns in memory only")
	}

	synth := &tts.Piper{Bin: config.PiperBin, Model: config.PiperModel, Logger: logger}

	p := &Pipeline{
		config:      config,
		logger:      logger,
		tmp:         tmp,
		turns:       history.NewLog(config.MaxHistory),
		prompts:     prompts,
		store:       store,
		normalizer:  &audio.Normalizer{Bin: config.FFmpegBin},
		transcriber: stt.NewClient(config.STTURL, logger),
		responder:   llm.NewClient(config.UpstreamURL, config.Model, logger),
		synthesizer: synth,
	}

	p.warnMissingCollaborators(synth)
	p.server = p.newServer()

	return p, nil
}

// warnMissingCollaborators checks external binaries at startup. Missing
// pieces only warn; the matching request will fail naturally later.
func (p *Pipeline) warnMissingCollaborators(synth *tts.Piper) {
	if !synth.Available() {
		p.logger.Warn("piper binary or voice model not found; synthesis will fail",
			zap.String("bin", p.config.PiperBin),
			zap.String("model", p.config.PiperModel),
		)
	}
	if _, err := exec.LookPath(p.config.FFmpegBin); err != nil {
		p.logger.Warn("ffmpeg not found; audio decoding will fail",
			zap.String("bin", p.config.FFmpegBin),
		)
	}
}

func (p *Pipeline) newServer() *fiber.App {
	app := fiber.New(fiber.Config{
		// Disable startup message for cleaner logs
		DisableStartupMessage: true,
		BodyLimit:             32 << 20, // upload cap, MiB
	})

	app.Post("/voice-chat", p.handleVoiceChat)
	app.Get("/turns", p.handleTurns)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(map[string]string{"status": "ok"})
	})

	return app
}

// Run starts the HTTP server on the configured listen address.
func (p *Pipeline) Run() error {
	p.logger.Info("starting voice-chat server",
		zap.String("listen", p.config.Listen),
		zap.String("upstream", p.config.UpstreamURL),
		zap.String("model", p.config.Model),
	)

	return p.server.Listen(p.config.Listen)
}

// Close shuts down the pipeline and releases its resources.
func (p *Pipeline) Close() error {
	p.prompts.Close()
	return p.store.Close()
}

// handleVoiceChat runs one full turn. The deferred release at the top
// covers every temp path allocated below, so cleanup happens on every
// exit route, including cancellation mid-pipeline.
func (p *Pipeline) handleVoiceChat(c *fiber.Ctx) error {
	startTime := time.Now()
	ctx := c.Context()

	var turnPaths []string
	defer func() {
		p.tmp.Release(turnPaths...)
	}()

	// Received -> Saved
	upload, err := c.FormFile("audio")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "missing audio upload"})
	}

	srcPath := p.tmp.NewPath(uploadExt(upload.Filename))
	turnPaths = append(turnPaths, srcPath)
	if err := c.SaveFile(upload, srcPath); err != nil {
		p.logger.Error("failed to store upload", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "could not store uploaded audio"})
	}
	p.logger.Debug("upload saved",
		zap.String("path", srcPath),
		zap.Int64("bytes", upload.Size),
	)

	// Saved -> Normalized
	wavPath := p.tmp.NewPath(".wav")
	turnPaths = append(turnPaths, wavPath)
	if err := p.normalizer.Normalize(ctx, srcPath, wavPath); err != nil {
		var decodeErr *audio.DecodeError
		if errors.As(err, &decodeErr) {
			p.logger.Info("undecodable upload rejected", zap.String("detail", decodeErr.Detail))
			return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "could not decode uploaded audio"})
		}
		p.logger.Error("normalization failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "audio conversion failed"})
	}
	p.logger.Debug("audio normalized", zap.String("path", wavPath))

	// Normalized -> Transcribed
	text, err := p.transcriber.Transcribe(ctx, wavPath)
	if err != nil {
		p.logger.Error("transcription failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(llm.ErrorResponse{Error: "transcription engine failed"})
	}
	if strings.TrimSpace(text) == "" {
		// Validation failure, not an engine crash. The conversation log
		// must not gain a user turn for silence.
		p.logger.Info("rejecting turn", zap.Error(ErrEmptySpeech))
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: ErrEmptySpeech.Error()})
	}
	p.logger.Debug("speech transcribed", zap.String("text", text))

	// Transcribed -> HistoryUpdated(user) -> Replied -> HistoryUpdated(assistant)
	p.turns.Append(history.RoleUser, text)
	rendered := llm.BuildPrompt(p.prompts.Text(), p.turns.Snapshot())
	reply := p.responder.Ask(ctx, rendered)
	p.turns.Append(history.RoleAssistant, reply)
	p.logger.Debug("reply generated", zap.Int("reply_len", len(reply)))

	// Sanitized -> Synthesized
	spoken := sanitize.Strip(reply)
	outPath := p.tmp.NewPath(".wav")
	turnPaths = append(turnPaths, outPath)
	if err := p.synthesizer.Synthesize(ctx, spoken, outPath); err != nil {
		p.logger.Error("synthesis failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(llm.ErrorResponse{Error: "speech synthesis failed"})
	}

	// Archive the completed turn. Don't fail the request just because
	// storage failed.
	rec := &archive.Record{
		UserText:   text,
		Reply:      spoken,
		DurationMS: time.Since(startTime).Milliseconds(),
	}
	if err := p.store.Put(ctx, rec); err != nil {
		p.logger.Warn("failed to archive turn", zap.Error(err))
	}

	// Synthesized -> Responded. Read before the deferred release deletes
	// the file.
	data, err := os.ReadFile(outPath)
	if err != nil {
		p.logger.Error("failed to read synthesized audio", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "could not read synthesized audio"})
	}

	fields := []zap.Field{
		zap.Int("history_len", p.turns.Len()),
		zap.Int("audio_bytes", len(data)),
		zap.Duration("duration", time.Since(startTime)),
	}
	if info, err := audio.Probe(outPath); err == nil {
		fields = append(fields,
			zap.Int("sample_rate", info.SampleRate),
			zap.Float64("audio_seconds", info.Duration),
		)
	}
	p.logger.Info("turn complete", fields...)

	c.Set("Content-Type", "audio/wav")
	return c.Send(data)
}

// handleTurns lists archived turns, oldest first.
func (p *Pipeline) handleTurns(c *fiber.Ctx) error {
	records, err := p.store.List(c.Context())
	if err != nil {
		p.logger.Error("failed to list archived turns", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "failed to list turns"})
	}

	return c.JSON(map[string]any{
		"count": len(records),
		"turns": records,
	})
}

// uploadExt keeps the uploaded filename's extension so ffmpeg can sniff
// the container; browser recorders send .webm when unnamed.
func uploadExt(filename string) string {
	if ext := filepath.Ext(filepath.Base(filename)); ext != "" {
		return ext
	}

	return ".webm"
}
