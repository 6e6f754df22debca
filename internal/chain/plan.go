package chain

import (
	"drumforge/internal/dsp"
	"drumforge/internal/params"
)

// StageKind names one step of the fixed-order processing chain.
type StageKind int

const (
	StageBody StageKind = iota
	StageTransient
	StageTexture
	StageMix
	StageSaturate
	StageReverb
	StageDecay
	StageClip
	StageTrim
	StageNormalize
)

func (k StageKind) String() string {
	switch k {
	case StageBody:
		return "body"
	case StageTransient:
		return "transient"
	case StageTexture:
		return "texture"
	case StageMix:
		return "mix"
	case StageSaturate:
		return "saturate"
	case StageReverb:
		return "reverb"
	case StageDecay:
		return "decay"
	case StageClip:
		return "clip"
	case StageTrim:
		return "trim"
	case StageNormalize:
		return "normalize"
	}
	return "unknown"
}

// Reverb tap geometry: three delayed, decayed copies of the input.
var (
	ReverbTapsMs   = [3]float64{60, 120, 180}
	ReverbTapDecay = [3]float64{0.4, 0.3, 0.2}
)

// Stage is one descriptor in the plan. Only the fields relevant to its kind
// are set; every derived value is computed once at plan time so the two
// engines consume identical numbers.
type Stage struct {
	Kind StageKind

	// Layer stages.
	Role  Role
	Path  string
	Muted bool

	PitchFactor float64 // body: resample factor 2^(semitones/12)
	GainLin     float64 // layer gain, 0 when muted
	CutoffHz    float64 // texture: high-pass cutoff

	// Mix.
	Inputs int

	// Saturate.
	Drive float64 // 1 + saturation*4, into a limiter

	// Reverb.
	DryLevel float64 // 1 - mix*0.3
	WetLevel float64 // mix*0.6

	// Decay.
	FadeMs float64

	// Clip.
	InGainLin  float64
	OutGainLin float64

	// Trim.
	ThresholdLin float64

	// Normalize.
	PeakLin float64
}

// Plan is the ordered, immutable stage list for one generation request.
type Plan struct {
	Layers   Layers
	Settings params.Settings
	stages   []Stage
}

// Stages returns a copy of the ordered stage list.
func (p *Plan) Stages() []Stage {
	out := make([]Stage, len(p.stages))
	copy(out, p.stages)
	return out
}

// Stage returns the first stage of the given kind, or nil.
func (p *Plan) Stage(kind StageKind) *Stage {
	for i := range p.stages {
		if p.stages[i].Kind == kind {
			s := p.stages[i]
			return &s
		}
	}
	return nil
}

// New builds the plan for the given layers and settings. Stage order is
// fixed: layer stages, mix, saturate, reverb, decay, clip, trim, normalize.
// Reverb is omitted at mix 0 and decay at 0 ms; every other stage is always
// present.
func New(layers Layers, s params.Settings) (*Plan, error) {
	if err := layers.Validate(); err != nil {
		return nil, err
	}
	s, err := params.Canonical(s)
	if err != nil {
		return nil, err
	}

	var stages []Stage
	refs := layers.refs()
	for _, ref := range refs {
		st := Stage{
			Role:  ref.Role,
			Path:  ref.Input.Path,
			Muted: ref.Input.Muted,
		}
		switch ref.Role {
		case RoleBody:
			st.Kind = StageBody
			st.PitchFactor = dsp.PitchFactor(s.BodySemitones)
			st.GainLin = 1
		case RoleTransient:
			st.Kind = StageTransient
			st.GainLin = dsp.DBToLin(s.TransientGainDB)
		case RoleTexture:
			st.Kind = StageTexture
			st.CutoffHz = s.TextureHighpassHz
			st.GainLin = 1
		}
		if ref.Input.Muted {
			st.GainLin = 0
		}
		stages = append(stages, st)
	}

	stages = append(stages, Stage{Kind: StageMix, Inputs: len(refs)})
	stages = append(stages, Stage{Kind: StageSaturate, Drive: 1 + s.Saturation*4})

	if s.ReverbMix > 0 {
		stages = append(stages, Stage{
			Kind:     StageReverb,
			DryLevel: 1 - s.ReverbMix*0.3,
			WetLevel: s.ReverbMix * 0.6,
		})
	}
	if s.DecayMs > 0 {
		stages = append(stages, Stage{Kind: StageDecay, FadeMs: s.DecayMs})
	}

	stages = append(stages, Stage{
		Kind:       StageClip,
		InGainLin:  dsp.DBToLin(s.ClipperInGainDB),
		OutGainLin: dsp.DBToLin(s.ClipperOutGainDB),
	})
	stages = append(stages, Stage{Kind: StageTrim, ThresholdLin: dsp.DBToLin(s.TrimThresholdDB)})
	stages = append(stages, Stage{Kind: StageNormalize, PeakLin: dsp.DBToLin(s.NormalizePeakDB)})

	return &Plan{Layers: layers, Settings: s, stages: stages}, nil
}
