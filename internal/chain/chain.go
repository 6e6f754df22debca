// Package chain turns layer inputs and settings into an ordered stage plan
// consumed by both the offline renderer and the realtime previewer.
package chain

import (
	"drumforge/internal/params"
)

// Role identifies one of the three layer slots in the mix.
type Role int

const (
	RoleBody Role = iota
	RoleTransient
	RoleTexture
)

func (r Role) String() string {
	switch r {
	case RoleBody:
		return "body"
	case RoleTransient:
		return "transient"
	case RoleTexture:
		return "texture"
	}
	return "unknown"
}

// LayerInput references one source recording. A muted layer stays in the mix
// at zero gain; an absent layer contributes no stage at all.
type LayerInput struct {
	Path  string
	Muted bool
}

// Layers holds the up-to-three inputs for one generation request.
type Layers struct {
	Body      *LayerInput
	Transient *LayerInput
	Texture   *LayerInput
}

type layerRef struct {
	Role  Role
	Input *LayerInput
}

// refs returns the present layers in fixed role order.
func (l Layers) refs() []layerRef {
	var out []layerRef
	if l.Body != nil {
		out = append(out, layerRef{RoleBody, l.Body})
	}
	if l.Transient != nil {
		out = append(out, layerRef{RoleTransient, l.Transient})
	}
	if l.Texture != nil {
		out = append(out, layerRef{RoleTexture, l.Texture})
	}
	return out
}

// Validate checks the chain's base invariant: at least one of body or
// transient must be present and unmuted.
func (l Layers) Validate() error {
	if l.Body != nil && !l.Body.Muted {
		return nil
	}
	if l.Transient != nil && !l.Transient.Muted {
		return nil
	}
	return &params.ValidationError{
		Field:  "layers",
		Reason: "need an unmuted body or transient layer",
	}
}
