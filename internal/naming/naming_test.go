package naming

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestNextNumberEmptyDir(t *testing.T) {
	if got := NextNumber(t.TempDir(), "oneshot", "wav"); got != 1 {
		t.Errorf("NextNumber(empty) = %d, want 1", got)
	}
}

func TestNextNumberMissingDir(t *testing.T) {
	if got := NextNumber("/does/not/exist", "oneshot", "wav"); got != 1 {
		t.Errorf("NextNumber(missing dir) = %d, want 1", got)
	}
}

func TestNextNumberSkipsGaps(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "oneshot_001.wav")
	touch(t, dir, "oneshot_003.wav")
	if got := NextNumber(dir, "oneshot", "wav"); got != 4 {
		t.Errorf("NextNumber = %d, want 4 (max+1, gaps not reused)", got)
	}
}

func TestNextNumberIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "oneshot_002.wav")
	touch(t, dir, "other_009.wav")
	touch(t, dir, "oneshot_005.flac")
	touch(t, dir, "oneshot_12.wav") // not three digits
	touch(t, dir, "notes.txt")
	if got := NextNumber(dir, "oneshot", "wav"); got != 3 {
		t.Errorf("NextNumber = %d, want 3", got)
	}
}

func TestNextNumberMatchesInfix(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "oneshot_kick_007.wav")
	if got := NextNumber(dir, "oneshot", "wav"); got != 8 {
		t.Errorf("NextNumber = %d, want 8 (infix between prefix and number matches)", got)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "oneshot_001.wav"},
		{42, "oneshot_042.wav"},
		{1000, "oneshot_1000.wav"},
	}
	for _, tt := range tests {
		if got := Format("oneshot", tt.n, "wav"); got != tt.want {
			t.Errorf("Format(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatRoundTrips(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, Format("kit", 9, "wav"))
	if got := NextNumber(dir, "kit", "wav"); got != 10 {
		t.Errorf("NextNumber after Format(9) = %d, want 10", got)
	}
}
