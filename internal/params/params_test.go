package params

import (
	"math"
	"testing"
)

func TestDefaults(t *testing.T) {
	d := Default()
	if d.BodySemitones != 0 {
		t.Errorf("BodySemitones = %v, want 0", d.BodySemitones)
	}
	if d.TextureHighpassHz != 120 {
		t.Errorf("TextureHighpassHz = %v, want 120", d.TextureHighpassHz)
	}
	if d.TrimThresholdDB != -45 {
		t.Errorf("TrimThresholdDB = %v, want -45", d.TrimThresholdDB)
	}
	if d.NormalizePeakDB != -1 {
		t.Errorf("NormalizePeakDB = %v, want -1", d.NormalizePeakDB)
	}
}

func TestResolveUsesDefaults(t *testing.T) {
	s, err := Resolve(Overrides{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if s != Default() {
		t.Errorf("Resolve(empty) = %+v, want defaults", s)
	}
}

func TestResolveOverride(t *testing.T) {
	v := -7.0
	s, err := Resolve(Overrides{BodySemitones: &v})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if s.BodySemitones != -7 {
		t.Errorf("BodySemitones = %v, want -7", s.BodySemitones)
	}
	if s.Saturation != Default().Saturation {
		t.Errorf("Saturation = %v, want default %v", s.Saturation, Default().Saturation)
	}
}

func TestResolveClamps(t *testing.T) {
	tests := []struct {
		name  string
		set   func(o *Overrides, v *float64)
		in    float64
		check func(s Settings) float64
		want  float64
	}{
		{"semitones high", func(o *Overrides, v *float64) { o.BodySemitones = v }, 40, func(s Settings) float64 { return s.BodySemitones }, 12},
		{"semitones low", func(o *Overrides, v *float64) { o.BodySemitones = v }, -40, func(s Settings) float64 { return s.BodySemitones }, -12},
		{"transient gain", func(o *Overrides, v *float64) { o.TransientGainDB = v }, 99, func(s Settings) float64 { return s.TransientGainDB }, 12},
		{"highpass low", func(o *Overrides, v *float64) { o.TextureHighpassHz = v }, 5, func(s Settings) float64 { return s.TextureHighpassHz }, 20},
		{"highpass high", func(o *Overrides, v *float64) { o.TextureHighpassHz = v }, 9000, func(s Settings) float64 { return s.TextureHighpassHz }, 2000},
		{"saturation", func(o *Overrides, v *float64) { o.Saturation = v }, 1.5, func(s Settings) float64 { return s.Saturation }, 1},
		{"reverb", func(o *Overrides, v *float64) { o.ReverbMix = v }, -0.5, func(s Settings) float64 { return s.ReverbMix }, 0},
		{"trim", func(o *Overrides, v *float64) { o.TrimThresholdDB = v }, -200, func(s Settings) float64 { return s.TrimThresholdDB }, -80},
		{"decay negative", func(o *Overrides, v *float64) { o.DecayMs = v }, -10, func(s Settings) float64 { return s.DecayMs }, 0},
		{"normalize", func(o *Overrides, v *float64) { o.NormalizePeakDB = v }, 3, func(s Settings) float64 { return s.NormalizePeakDB }, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var o Overrides
			v := tt.in
			tt.set(&o, &v)
			s, err := Resolve(o)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got := tt.check(s); got != tt.want {
				t.Errorf("clamped value = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveRejectsNonFinite(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		v := bad
		_, err := Resolve(Overrides{Saturation: &v})
		if err == nil {
			t.Errorf("Resolve(saturation=%v) error = nil, want validation error", bad)
		}
	}
}

func TestResolveClipperGainsUnclamped(t *testing.T) {
	in, out := 30.0, -24.0
	s, err := Resolve(Overrides{ClipperInGainDB: &in, ClipperOutGainDB: &out})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if s.ClipperInGainDB != 30 || s.ClipperOutGainDB != -24 {
		t.Errorf("clipper gains = %v/%v, want 30/-24", s.ClipperInGainDB, s.ClipperOutGainDB)
	}
}

func TestMergeKeepsBase(t *testing.T) {
	base := Default()
	base.ReverbMix = 0.8
	v := 0.5
	merged, err := Merge(base, Overrides{Saturation: &v})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if merged.ReverbMix != 0.8 {
		t.Errorf("ReverbMix = %v, want base 0.8", merged.ReverbMix)
	}
	if merged.Saturation != 0.5 {
		t.Errorf("Saturation = %v, want 0.5", merged.Saturation)
	}
}

func TestCanonicalRejectsNaN(t *testing.T) {
	s := Default()
	s.DecayMs = math.NaN()
	if _, err := Canonical(s); err == nil {
		t.Error("Canonical(NaN decay) error = nil, want validation error")
	}
}
