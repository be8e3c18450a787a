package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the voice pipeline configuration.
type Config struct {
	// Address to listen on (e.g., ":8000")
	Listen string `toml:"listen"`

	// Upstream language-model base URL (e.g., "http://localhost:11434")
	UpstreamURL string `toml:"upstream_url"`

	// Model name sent with every generate request.
	Model string `toml:"model"`

	// Transcription engine endpoint (multipart WAV upload).
	STTURL string `toml:"stt_url"`

	// Scratch directory for per-request temp files.
	ScratchDir string `toml:"scratch_dir"`

	// DBPath is the SQLite file for the turn archive.
	// Empty means in-memory only.
	DBPath string `toml:"db_path"`

	// PromptPath optionally points at a system-prompt text file,
	// hot-reloaded on change. Empty uses the built-in prompt.
	PromptPath string `toml:"prompt_path"`

	// MaxHistory bounds the shared conversation log (FIFO eviction).
	MaxHistory int `toml:"max_history"`

	// PiperBin and PiperModel locate the synthesis binary and voice.
	PiperBin   string `toml:"piper_bin"`
	PiperModel string `toml:"piper_model"`

	// FFmpegBin overrides the ffmpeg executable used for decoding.
	FFmpegBin string `toml:"ffmpeg_bin"`

	Debug bool `toml:"debug"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Listen:      ":8000",
		UpstreamURL: "http://localhost:11434",
		Model:       "llama3.1:8b",
		STTURL:      "http://localhost:9000/transcribe",
		ScratchDir:  filepath.Join(os.TempDir(), "voicechat"),
		MaxHistory:  10,
		PiperBin:    "piper",
		PiperModel:  "en_US-lessac-medium.onnx",
		FFmpegBin:   "ffmpeg",
	}
}

// LoadConfig reads a TOML config file over the defaults. An empty path
// just returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}

	if cfg.MaxHistory <= 0 {
		return cfg, fmt.Errorf("max_history must be positive, got %d", cfg.MaxHistory)
	}

	return cfg, nil
}
