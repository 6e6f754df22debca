package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"drumforge/internal/chain"
	"drumforge/internal/config"
	"drumforge/internal/decode"
	"drumforge/internal/library"
	"drumforge/internal/naming"
	"drumforge/internal/params"
	"drumforge/internal/preview"
	"drumforge/internal/render"
	"drumforge/internal/store"
	"drumforge/internal/stream"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API with live preview streaming",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

type layerReq struct {
	Path  string `json:"path"`
	Muted bool   `json:"muted"`
}

type chainReq struct {
	Body      *layerReq        `json:"body"`
	Transient *layerReq        `json:"transient"`
	Texture   *layerReq        `json:"texture"`
	Settings  params.Overrides `json:"settings"`
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Println("drumforge starting up...")

	lib := library.New(cfg.SampleDir)
	if err := lib.Scan(); err != nil {
		log.Printf("Sample scan failed (dir %s): %v", cfg.SampleDir, err)
	} else {
		log.Printf("Indexed %d samples from %s", len(lib.List()), cfg.SampleDir)
	}

	registry := decode.NewRegistry()
	renderer := render.New(cfg.FFmpegPath)
	outputs := store.New(cfg.OutputDir)

	// Preview feeds the broadcaster; optionally also the local device.
	bcastSink := preview.NewBroadcastSink()
	var sink preview.Sink = bcastSink
	if cfg.PreviewDevice {
		sink = preview.NewTeeSink(preview.NewDeviceSink(), bcastSink)
	}
	engine := preview.NewEngine(registry, sink)

	broadcaster := stream.NewBroadcaster()
	go broadcaster.Run(ctx, bcastSink.Frames())

	webrtcHandler := stream.NewWebRTCHandler(broadcaster)

	// resolveLayer accepts either a library sample name or a direct path.
	resolveLayer := func(r *layerReq) *chain.LayerInput {
		if r == nil {
			return nil
		}
		path := r.Path
		if s, ok := lib.Lookup(path); ok {
			path = s.Path
		}
		return &chain.LayerInput{Path: path, Muted: r.Muted}
	}

	decodeChain := func(w http.ResponseWriter, r *http.Request) (chain.Layers, params.Settings, bool) {
		var req chainReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return chain.Layers{}, params.Settings{}, false
		}
		settings, err := params.Resolve(req.Settings)
		if err != nil {
			writeError(w, err)
			return chain.Layers{}, params.Settings{}, false
		}
		layers := chain.Layers{
			Body:      resolveLayer(req.Body),
			Transient: resolveLayer(req.Transient),
			Texture:   resolveLayer(req.Texture),
		}
		return layers, settings, true
	}

	mux := http.NewServeMux()

	// Audio streams
	mux.Handle("/stream", stream.NewHTTPHandler(broadcaster))
	mux.Handle("/offer", webrtcHandler)

	mux.HandleFunc("/api/render", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		layers, settings, ok := decodeChain(w, r)
		if !ok {
			return
		}
		plan, err := chain.New(layers, settings)
		if err != nil {
			writeError(w, err)
			return
		}

		n := naming.NextNumber(cfg.OutputDir, cfg.OutputPrefix, cfg.OutputExt)
		outPath := filepath.Join(cfg.OutputDir, naming.Format(cfg.OutputPrefix, n, cfg.OutputExt))

		res, err := renderer.Render(r.Context(), plan, outPath)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := saveSidecar(outputs, res, plan); err != nil {
			log.Printf("Sidecar write failed for %s: %v", res.Path, err)
		}
		log.Printf("Rendered %s (%.0fms)", res.Path, res.Duration.Seconds()*1000)

		writeJSON(w, map[string]any{
			"ok":          true,
			"name":        filepath.Base(res.Path),
			"duration_ms": res.Duration.Seconds() * 1000,
			"settings":    plan.Settings,
		})
	})

	mux.HandleFunc("/api/preview", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Mode string `json:"mode"`
			chainReq
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		settings, err := params.Resolve(req.Settings)
		if err != nil {
			writeError(w, err)
			return
		}
		layers := chain.Layers{
			Body:      resolveLayer(req.Body),
			Transient: resolveLayer(req.Transient),
			Texture:   resolveLayer(req.Texture),
		}

		switch req.Mode {
		case "", "wet":
			err = engine.StartWet(layers, settings)
		case "dry":
			err = engine.StartDry(layers, settings)
		default:
			http.Error(w, "mode must be wet or dry", http.StatusBadRequest)
			return
		}
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]any{"ok": true, "mode": req.Mode})
	})

	mux.HandleFunc("/api/preview/stop", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		engine.Stop()
		writeJSON(w, map[string]any{"ok": true})
	})

	mux.HandleFunc("/api/preview/params", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		var o params.Overrides
		if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if err := engine.Update(o); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]any{"ok": true})
	})

	mux.HandleFunc("/api/samples", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if cat := r.URL.Query().Get("category"); cat != "" {
				writeJSON(w, lib.ByCategory(library.Category(cat)))
				return
			}
			writeJSON(w, lib.List())
		case http.MethodPost:
			if err := lib.Scan(); err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, map[string]any{"ok": true, "count": len(lib.List())})
		default:
			http.Error(w, "GET or POST required", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/api/outputs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "GET required", http.StatusMethodNotAllowed)
			return
		}
		list, err := outputs.List()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, list)
	})

	mux.HandleFunc("/api/outputs/", func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/api/outputs/")
		if name == "" || strings.Contains(name, "/") {
			http.NotFound(w, r)
			return
		}
		switch r.Method {
		case http.MethodGet:
			http.ServeFile(w, r, filepath.Join(cfg.OutputDir, name))
		case http.MethodDelete:
			if err := outputs.Delete(name); err != nil {
				writeError(w, err)
				return
			}
			log.Printf("Deleted output %s", name)
			writeJSON(w, map[string]any{"ok": true})
		default:
			http.Error(w, "GET or DELETE required", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		mode, active := engine.Active()
		status := map[string]any{
			"preview_active":   active,
			"http_listeners":   broadcaster.ListenerCount(),
			"webrtc_listeners": webrtcHandler.PeerCount(),
			"sample_count":     len(lib.List()),
			"defaults":         params.Default(),
		}
		if active {
			status["preview_mode"] = mode.String()
		}
		writeJSON(w, status)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		engine.Stop()
		server.Close()
	}()

	log.Printf("drumforge live on %s", addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	var ve *params.ValidationError
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &ve), errors.Is(err, preview.ErrNoInput):
		status = http.StatusBadRequest
	case errors.Is(err, render.ErrInputNotFound):
		status = http.StatusNotFound
	case errors.Is(err, render.ErrEngineUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, decode.ErrDecodeFailed):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, preview.ErrModeActive), errors.Is(err, preview.ErrPlaybackRejected):
		status = http.StatusConflict
	}
	http.Error(w, err.Error(), status)
}
