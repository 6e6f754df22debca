package config

import (
	"os"
	"strconv"
)

// Config holds all runtime configuration, loaded from environment variables.
type Config struct {
	// Server
	Port int

	// Directories
	SampleDir string // source layer library
	OutputDir string // rendered one-shots

	// Render output naming
	OutputPrefix string
	OutputExt    string

	// Engines
	FFmpegPath    string
	PreviewDevice bool // play previews on the local audio device
}

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	return Config{
		Port: envInt("FORGE_PORT", 8080),

		SampleDir: envStr("FORGE_SAMPLE_DIR", "samples"),
		OutputDir: envStr("FORGE_OUTPUT_DIR", "output"),

		OutputPrefix: envStr("FORGE_OUTPUT_PREFIX", "oneshot"),
		OutputExt:    envStr("FORGE_OUTPUT_EXT", "wav"),

		FFmpegPath:    envStr("FORGE_FFMPEG", "ffmpeg"),
		PreviewDevice: envBool("FORGE_PREVIEW_DEVICE", false),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
