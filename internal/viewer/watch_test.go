package viewer

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsSettledChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.gltf")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if w.Poll(time.Now()) {
		t.Fatal("change reported before any write")
	}

	if err := os.WriteFile(path, []byte(`{"asset":{}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	// Wait for the notification to arrive; it must not be reported
	// until the directory has been quiet for settleDelay.
	deadline := time.Now().Add(5 * time.Second)
	for !w.pending {
		if time.Now().After(deadline) {
			t.Fatal("no notification received")
		}
		if w.Poll(time.Now()) {
			t.Fatal("change reported before settling")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Drain any trailing events from the same write.
	time.Sleep(50 * time.Millisecond)
	w.Poll(time.Now())

	if !w.Poll(w.last.Add(settleDelay)) {
		t.Fatal("settled change not reported")
	}
	if w.Poll(w.last.Add(2 * settleDelay)) {
		t.Error("change reported twice")
	}
}

func TestWatcherMissingDir(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "nope", "scene.gltf")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.gltf")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	for _, name := range []string{"notes.txt", ".scene.gltf.swp", "scene.gltf~"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	time.Sleep(100 * time.Millisecond)
	w.Poll(time.Now())
	if w.pending {
		t.Fatal("unrelated files marked the model as changed")
	}

	if err := os.WriteFile(filepath.Join(dir, "scene.bin"), []byte{0}, 0o644); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for !w.pending {
		if time.Now().After(deadline) {
			t.Fatal("buffer write not noticed")
		}
		w.Poll(time.Now())
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWatchedExtensions(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"scene.gltf", true},
		{"scene.GLB", true},
		{"scene.bin", true},
		{"wood.png", true},
		{"wood.JPEG", true},
		{"normal.webp", true},
		{"notes.txt", false},
		{".scene.gltf.swp", false},
		{"scene.gltf~", false},
		{"Makefile", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := watched(tt.name); got != tt.want {
				t.Errorf("watched(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}
