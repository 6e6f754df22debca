package render

import (
	"strings"
	"testing"

	"drumforge/internal/chain"
	"drumforge/internal/params"
)

func testPlan(t *testing.T, layers chain.Layers, s params.Settings) *chain.Plan {
	t.Helper()
	p, err := chain.New(layers, s)
	if err != nil {
		t.Fatalf("chain.New() error = %v", err)
	}
	return p
}

func fullLayers() chain.Layers {
	return chain.Layers{
		Body:      &chain.LayerInput{Path: "kick.wav"},
		Transient: &chain.LayerInput{Path: "snare.wav"},
		Texture:   &chain.LayerInput{Path: "hat.wav"},
	}
}

func TestFilterGraphFullChain(t *testing.T) {
	s := params.Default()
	s.BodySemitones = 12
	s.ReverbMix = 0.5
	s.DecayMs = 200
	graph := BuildFilterGraph(testPlan(t, fullLayers(), s))

	wantParts := []string{
		"asetrate=88200",
		"aresample=44100",
		"highpass=f=120.0",
		"amix=inputs=3:dropout_transition=0:normalize=1",
		"alimiter=level_in=1:level_out=1:limit=1:attack=5:release=50:level=disabled",
		"asplit=4",
		"adelay=60:all=1",
		"adelay=120:all=1",
		"adelay=180:all=1",
		"amix=inputs=4:dropout_transition=0:normalize=0",
		"afade=t=out:st=0:d=0.2000",
		"asoftclip=type=tanh",
	}
	for _, part := range wantParts {
		if !strings.Contains(graph, part) {
			t.Errorf("graph missing %q\ngraph: %s", part, graph)
		}
	}
	if !strings.HasSuffix(graph, "[out]") {
		t.Errorf("graph does not end in [out]: %s", graph)
	}
}

func TestFilterGraphSingleLayerUsesAnull(t *testing.T) {
	layers := chain.Layers{Body: &chain.LayerInput{Path: "kick.wav"}}
	graph := BuildFilterGraph(testPlan(t, layers, params.Default()))
	if !strings.Contains(graph, "anull") {
		t.Errorf("single layer graph missing anull passthrough: %s", graph)
	}
	if strings.Contains(graph, "amix=inputs=1") {
		t.Errorf("single layer graph should not amix one input: %s", graph)
	}
}

func TestFilterGraphOmitsReverbAndDecay(t *testing.T) {
	s := params.Default()
	s.ReverbMix = 0
	s.DecayMs = 0
	graph := BuildFilterGraph(testPlan(t, fullLayers(), s))
	if strings.Contains(graph, "asplit") || strings.Contains(graph, "adelay") {
		t.Errorf("graph contains reverb filters at mix 0: %s", graph)
	}
	if strings.Contains(graph, "afade") {
		t.Errorf("graph contains fade at decay 0: %s", graph)
	}
}

func TestFilterGraphMutedLayerStaysInMix(t *testing.T) {
	layers := fullLayers()
	layers.Texture.Muted = true
	graph := BuildFilterGraph(testPlan(t, layers, params.Default()))
	if !strings.Contains(graph, "highpass=f=120.0,volume=0.000000") {
		t.Errorf("muted texture should appear at zero gain: %s", graph)
	}
	if !strings.Contains(graph, "amix=inputs=3") {
		t.Errorf("muted layer should still count as a mix input: %s", graph)
	}
}

func TestFilterGraphNoTrimOrNormalizeFilters(t *testing.T) {
	graph := BuildFilterGraph(testPlan(t, fullLayers(), params.Default()))
	for _, banned := range []string{"silenceremove", "loudnorm", "dynaudnorm"} {
		if strings.Contains(graph, banned) {
			t.Errorf("graph contains %q, trim and normalize are finished in-process", banned)
		}
	}
}
