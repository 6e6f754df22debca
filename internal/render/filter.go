package render

import (
	"fmt"
	"math"
	"strings"

	"drumforge/internal/audio"
	"drumforge/internal/chain"
)

// BuildFilterGraph compiles the plan's processing stages into an FFmpeg
// filter_complex graph ending in [out]. Trim and normalize are finished
// in-process after the engine run, so the graph covers the layer stages
// through the clipper. Input pads are numbered in the plan's layer order.
func BuildFilterGraph(p *chain.Plan) string {
	var graphs []string
	var layerLabels []string

	input := 0
	for _, st := range p.Stages() {
		switch st.Kind {
		case chain.StageBody:
			rate := int(math.Round(audio.SampleRate * st.PitchFactor))
			graphs = append(graphs, fmt.Sprintf(
				"[%d:a]aformat=channel_layouts=mono,asetrate=%d,aresample=%d,volume=%.6f[l%d]",
				input, rate, audio.SampleRate, st.GainLin, input))
		case chain.StageTransient:
			graphs = append(graphs, fmt.Sprintf(
				"[%d:a]aformat=channel_layouts=mono,volume=%.6f[l%d]",
				input, st.GainLin, input))
		case chain.StageTexture:
			graphs = append(graphs, fmt.Sprintf(
				"[%d:a]aformat=channel_layouts=mono,highpass=f=%.1f,volume=%.6f[l%d]",
				input, st.CutoffHz, st.GainLin, input))
		default:
			continue
		}
		layerLabels = append(layerLabels, fmt.Sprintf("[l%d]", input))
		input++
	}

	cur := "[mx]"
	if len(layerLabels) == 1 {
		graphs = append(graphs, fmt.Sprintf("%sanull%s", layerLabels[0], cur))
	} else {
		graphs = append(graphs, fmt.Sprintf(
			"%samix=inputs=%d:dropout_transition=0:normalize=1%s",
			strings.Join(layerLabels, ""), len(layerLabels), cur))
	}

	for _, st := range p.Stages() {
		switch st.Kind {
		case chain.StageSaturate:
			next := "[sat]"
			graphs = append(graphs, fmt.Sprintf(
				"%svolume=%.6f,alimiter=level_in=1:level_out=1:limit=1:attack=5:release=50:level=disabled%s",
				cur, st.Drive, next))
			cur = next
		case chain.StageReverb:
			graphs = append(graphs, fmt.Sprintf("%sasplit=4[dr][e0][e1][e2]", cur))
			for i := 0; i < 3; i++ {
				graphs = append(graphs, fmt.Sprintf(
					"[e%d]adelay=%.0f:all=1,volume=%.6f[w%d]",
					i, chain.ReverbTapsMs[i], st.WetLevel*chain.ReverbTapDecay[i], i))
			}
			graphs = append(graphs, fmt.Sprintf("[dr]volume=%.6f[d0]", st.DryLevel))
			next := "[rv]"
			graphs = append(graphs, fmt.Sprintf(
				"[d0][w0][w1][w2]amix=inputs=4:dropout_transition=0:normalize=0%s", next))
			cur = next
		case chain.StageDecay:
			next := "[dk]"
			graphs = append(graphs, fmt.Sprintf(
				"%safade=t=out:st=0:d=%.4f%s", cur, st.FadeMs/1000, next))
			cur = next
		case chain.StageClip:
			graphs = append(graphs, fmt.Sprintf(
				"%svolume=%.6f,asoftclip=type=tanh,volume=%.6f[out]",
				cur, st.InGainLin, st.OutGainLin))
			cur = "[out]"
		}
	}

	return strings.Join(graphs, ";")
}
