package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.SampleDir != "samples" {
		t.Errorf("SampleDir = %q, want samples", cfg.SampleDir)
	}
	if cfg.OutputPrefix != "oneshot" {
		t.Errorf("OutputPrefix = %q, want oneshot", cfg.OutputPrefix)
	}
	if cfg.FFmpegPath != "ffmpeg" {
		t.Errorf("FFmpegPath = %q, want ffmpeg", cfg.FFmpegPath)
	}
	if cfg.PreviewDevice {
		t.Error("PreviewDevice = true, want false by default")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FORGE_PORT", "9000")
	t.Setenv("FORGE_OUTPUT_DIR", "/tmp/out")
	t.Setenv("FORGE_PREVIEW_DEVICE", "true")

	cfg := Load()
	if cfg.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port)
	}
	if cfg.OutputDir != "/tmp/out" {
		t.Errorf("OutputDir = %q, want /tmp/out", cfg.OutputDir)
	}
	if !cfg.PreviewDevice {
		t.Error("PreviewDevice = false, want true")
	}
}

func TestEnvBadValuesFallBack(t *testing.T) {
	t.Setenv("FORGE_PORT", "not-a-number")
	t.Setenv("FORGE_PREVIEW_DEVICE", "maybe")

	cfg := Load()
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want fallback 8080", cfg.Port)
	}
	if cfg.PreviewDevice {
		t.Error("PreviewDevice = true, want fallback false")
	}
}
