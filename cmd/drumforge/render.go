package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"drumforge/internal/chain"
	"drumforge/internal/config"
	"drumforge/internal/naming"
	"drumforge/internal/params"
	"drumforge/internal/render"
	"drumforge/internal/store"
)

var renderFlags struct {
	body      string
	transient string
	texture   string

	muteBody      bool
	muteTransient bool
	muteTexture   bool

	out      string
	settings params.Settings
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a one-shot to the output directory",
	RunE:  runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringVar(&renderFlags.body, "body", "", "body layer file")
	f.StringVar(&renderFlags.transient, "transient", "", "transient layer file")
	f.StringVar(&renderFlags.texture, "texture", "", "texture layer file")
	f.BoolVar(&renderFlags.muteBody, "mute-body", false, "keep the body layer silent")
	f.BoolVar(&renderFlags.muteTransient, "mute-transient", false, "keep the transient layer silent")
	f.BoolVar(&renderFlags.muteTexture, "mute-texture", false, "keep the texture layer silent")
	f.StringVar(&renderFlags.out, "out", "", "explicit output path (default: numbered name in the output dir)")

	d := params.Default()
	s := &renderFlags.settings
	f.Float64Var(&s.BodySemitones, "semitones", d.BodySemitones, "body pitch shift in semitones")
	f.Float64Var(&s.TransientGainDB, "transient-gain", d.TransientGainDB, "transient gain in dB")
	f.Float64Var(&s.TextureHighpassHz, "highpass", d.TextureHighpassHz, "texture high-pass cutoff in Hz")
	f.Float64Var(&s.Saturation, "saturation", d.Saturation, "saturation amount 0..1")
	f.Float64Var(&s.ReverbMix, "reverb", d.ReverbMix, "reverb mix 0..1")
	f.Float64Var(&s.ClipperInGainDB, "clip-in", d.ClipperInGainDB, "clipper input gain in dB")
	f.Float64Var(&s.ClipperOutGainDB, "clip-out", d.ClipperOutGainDB, "clipper output gain in dB")
	f.Float64Var(&s.TrimThresholdDB, "trim", d.TrimThresholdDB, "silence trim threshold in dB")
	f.Float64Var(&s.DecayMs, "decay", d.DecayMs, "decay fade length in ms (0 disables)")
	f.Float64Var(&s.NormalizePeakDB, "normalize", d.NormalizePeakDB, "normalization peak target in dB")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	layers := chain.Layers{}
	if renderFlags.body != "" {
		layers.Body = &chain.LayerInput{Path: renderFlags.body, Muted: renderFlags.muteBody}
	}
	if renderFlags.transient != "" {
		layers.Transient = &chain.LayerInput{Path: renderFlags.transient, Muted: renderFlags.muteTransient}
	}
	if renderFlags.texture != "" {
		layers.Texture = &chain.LayerInput{Path: renderFlags.texture, Muted: renderFlags.muteTexture}
	}

	plan, err := chain.New(layers, renderFlags.settings)
	if err != nil {
		return err
	}

	outPath := renderFlags.out
	if outPath == "" {
		n := naming.NextNumber(cfg.OutputDir, cfg.OutputPrefix, cfg.OutputExt)
		outPath = filepath.Join(cfg.OutputDir, naming.Format(cfg.OutputPrefix, n, cfg.OutputExt))
	}

	renderer := render.New(cfg.FFmpegPath)
	res, err := renderer.Render(context.Background(), plan, outPath)
	if err != nil {
		return err
	}

	if err := saveSidecar(store.New(filepath.Dir(outPath)), res, plan); err != nil {
		log.Printf("Sidecar write failed for %s: %v", res.Path, err)
	}

	fmt.Printf("%s (%.0fms)\n", res.Path, res.Duration.Seconds()*1000)
	return nil
}

func saveSidecar(st *store.Store, res *render.Result, plan *chain.Plan) error {
	layerPaths := map[string]string{}
	for _, s := range plan.Stages() {
		switch s.Kind {
		case chain.StageBody, chain.StageTransient, chain.StageTexture:
			layerPaths[s.Role.String()] = s.Path
		}
	}
	return st.Save(store.Metadata{
		Name:       filepath.Base(res.Path),
		CreatedAt:  time.Now().UTC(),
		DurationMs: res.Duration.Seconds() * 1000,
		Layers:     layerPaths,
		Settings:   plan.Settings,
	})
}
