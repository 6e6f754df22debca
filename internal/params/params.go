package params

import (
	"fmt"
	"math"
)

// ValidationError reports a setting that cannot be recovered by clamping.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Settings describes the full processing chain. Every field is always
// populated; engines never see a partial settings object.
type Settings struct {
	BodySemitones     float64 `json:"body_semitones"`      // -12..12
	TransientGainDB   float64 `json:"transient_gain_db"`   // -12..12
	TextureHighpassHz float64 `json:"texture_highpass_hz"` // 20..2000
	Saturation        float64 `json:"saturation"`          // 0..1
	ReverbMix         float64 `json:"reverb_mix"`          // 0..1
	ClipperInGainDB   float64 `json:"clipper_in_gain_db"`
	ClipperOutGainDB  float64 `json:"clipper_out_gain_db"`
	TrimThresholdDB   float64 `json:"trim_threshold_db"` // -80..-20
	DecayMs           float64 `json:"decay_ms"`          // >= 0
	NormalizePeakDB   float64 `json:"normalize_peak_db"` // -6..0
}

// Default returns the canonical settings used when a field is omitted.
func Default() Settings {
	return Settings{
		BodySemitones:     0,
		TransientGainDB:   0,
		TextureHighpassHz: 120,
		Saturation:        0.2,
		ReverbMix:         0.15,
		ClipperInGainDB:   0,
		ClipperOutGainDB:  0,
		TrimThresholdDB:   -45,
		DecayMs:           0,
		NormalizePeakDB:   -1,
	}
}

// Overrides is a partial settings object as received from callers.
// Nil fields fall back to the defaults.
type Overrides struct {
	BodySemitones     *float64 `json:"body_semitones"`
	TransientGainDB   *float64 `json:"transient_gain_db"`
	TextureHighpassHz *float64 `json:"texture_highpass_hz"`
	Saturation        *float64 `json:"saturation"`
	ReverbMix         *float64 `json:"reverb_mix"`
	ClipperInGainDB   *float64 `json:"clipper_in_gain_db"`
	ClipperOutGainDB  *float64 `json:"clipper_out_gain_db"`
	TrimThresholdDB   *float64 `json:"trim_threshold_db"`
	DecayMs           *float64 `json:"decay_ms"`
	NormalizePeakDB   *float64 `json:"normalize_peak_db"`
}

// Resolve merges overrides onto the defaults and clamps every ranged field.
// Non-finite values are rejected: there is no sane default to recover to and
// passing them downstream would poison both engines.
func Resolve(o Overrides) (Settings, error) {
	return Merge(Default(), o)
}

// Merge applies overrides onto an existing settings object. Nil fields keep
// the base value. Used for live parameter updates against a running preview.
func Merge(s Settings, o Overrides) (Settings, error) {
	fields := []struct {
		name string
		src  *float64
		dst  *float64
	}{
		{"body_semitones", o.BodySemitones, &s.BodySemitones},
		{"transient_gain_db", o.TransientGainDB, &s.TransientGainDB},
		{"texture_highpass_hz", o.TextureHighpassHz, &s.TextureHighpassHz},
		{"saturation", o.Saturation, &s.Saturation},
		{"reverb_mix", o.ReverbMix, &s.ReverbMix},
		{"clipper_in_gain_db", o.ClipperInGainDB, &s.ClipperInGainDB},
		{"clipper_out_gain_db", o.ClipperOutGainDB, &s.ClipperOutGainDB},
		{"trim_threshold_db", o.TrimThresholdDB, &s.TrimThresholdDB},
		{"decay_ms", o.DecayMs, &s.DecayMs},
		{"normalize_peak_db", o.NormalizePeakDB, &s.NormalizePeakDB},
	}
	for _, f := range fields {
		if f.src == nil {
			continue
		}
		if math.IsNaN(*f.src) || math.IsInf(*f.src, 0) {
			return Settings{}, &ValidationError{Field: f.name, Reason: "must be a finite number"}
		}
		*f.dst = *f.src
	}

	s.clampRanges()
	return s, nil
}

// Canonical clamps a fully-specified settings object into its legal ranges,
// rejecting non-finite values the same way Resolve does.
func Canonical(s Settings) (Settings, error) {
	checks := []struct {
		name string
		v    float64
	}{
		{"body_semitones", s.BodySemitones},
		{"transient_gain_db", s.TransientGainDB},
		{"texture_highpass_hz", s.TextureHighpassHz},
		{"saturation", s.Saturation},
		{"reverb_mix", s.ReverbMix},
		{"clipper_in_gain_db", s.ClipperInGainDB},
		{"clipper_out_gain_db", s.ClipperOutGainDB},
		{"trim_threshold_db", s.TrimThresholdDB},
		{"decay_ms", s.DecayMs},
		{"normalize_peak_db", s.NormalizePeakDB},
	}
	for _, c := range checks {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) {
			return Settings{}, &ValidationError{Field: c.name, Reason: "must be a finite number"}
		}
	}
	s.clampRanges()
	return s, nil
}

func (s *Settings) clampRanges() {
	s.BodySemitones = clamp(s.BodySemitones, -12, 12)
	s.TransientGainDB = clamp(s.TransientGainDB, -12, 12)
	s.TextureHighpassHz = clamp(s.TextureHighpassHz, 20, 2000)
	s.Saturation = clamp(s.Saturation, 0, 1)
	s.ReverbMix = clamp(s.ReverbMix, 0, 1)
	s.TrimThresholdDB = clamp(s.TrimThresholdDB, -80, -20)
	if s.DecayMs < 0 {
		s.DecayMs = 0
	}
	s.NormalizePeakDB = clamp(s.NormalizePeakDB, -6, 0)
	// Clipper gains have no specified range.
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
