package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"drumforge/internal/params"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	m := Metadata{
		Name:       "oneshot_001.wav",
		CreatedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		DurationMs: 420.5,
		Layers:     map[string]string{"body": "kick.wav", "texture": "hat.wav"},
		Settings:   params.Default(),
	}
	if err := st.Save(m); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := st.Load("oneshot_001.wav")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.DurationMs != m.DurationMs {
		t.Errorf("DurationMs = %v, want %v", got.DurationMs, m.DurationMs)
	}
	if got.Layers["body"] != "kick.wav" {
		t.Errorf("Layers[body] = %q, want kick.wav", got.Layers["body"])
	}
	if got.Settings != params.Default() {
		t.Errorf("Settings = %+v, want defaults", got.Settings)
	}
}

func TestListNewestFirst(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	for i, name := range []string{"oneshot_001.wav", "oneshot_002.wav"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("wav"), 0o644); err != nil {
			t.Fatal(err)
		}
		m := Metadata{
			Name:      name,
			CreatedAt: time.Date(2026, 3, 1, 12, i, 0, 0, time.UTC),
		}
		if err := st.Save(m); err != nil {
			t.Fatal(err)
		}
	}

	list, err := st.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List() returned %d entries, want 2", len(list))
	}
	if list[0].Name != "oneshot_002.wav" {
		t.Errorf("List()[0] = %s, want oneshot_002.wav (newest first)", list[0].Name)
	}
}

func TestListIncludesOrphanOutputs(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "orphan.wav"), []byte("wav"), 0o644); err != nil {
		t.Fatal(err)
	}

	list, err := New(dir).List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 || list[0].Name != "orphan.wav" {
		t.Errorf("List() = %+v, want single orphan.wav entry", list)
	}
}

func TestListMissingDir(t *testing.T) {
	list, err := New(filepath.Join(t.TempDir(), "nope")).List()
	if err != nil {
		t.Errorf("List(missing dir) error = %v, want nil", err)
	}
	if len(list) != 0 {
		t.Errorf("List(missing dir) = %d entries, want 0", len(list))
	}
}

func TestDeleteRemovesBoth(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	out := filepath.Join(dir, "oneshot_001.wav")
	if err := os.WriteFile(out, []byte("wav"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := st.Save(Metadata{Name: "oneshot_001.wav"}); err != nil {
		t.Fatal(err)
	}

	if err := st.Delete("oneshot_001.wav"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("output still present after Delete")
	}
	if _, err := os.Stat(out + ".json"); !os.IsNotExist(err) {
		t.Error("sidecar still present after Delete")
	}
}

func TestDeleteMissingOutput(t *testing.T) {
	if err := New(t.TempDir()).Delete("ghost.wav"); err == nil {
		t.Error("Delete(missing) error = nil, want error")
	}
}

func TestDeleteWithoutSidecar(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "bare.wav")
	if err := os.WriteFile(out, []byte("wav"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := New(dir).Delete("bare.wav"); err != nil {
		t.Errorf("Delete(no sidecar) error = %v, want nil", err)
	}
}

func TestLoadCorruptSidecar(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.wav.json"), []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(dir).Load("bad.wav"); err == nil {
		t.Error("Load(corrupt) error = nil, want error")
	}
}
