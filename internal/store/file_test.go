package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/SDINAHET/Daslight4-xbox360/internal/core/xypad"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config_xy.json")
	s := NewFileStore(path)

	cfg := xypad.DefaultConfig()
	cfg.Rect = xypad.Rect{X1: 10, Y1: 20, X2: 300, Y2: 400}
	cfg.Settings.Autodrag = false
	cfg.Hotkeys.CenterCursor = "f5"

	if err := s.Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("temporary file left behind: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != cfg {
		t.Fatalf("Load = %+v, want %+v", got, cfg)
	}
}

func TestLoadMergesPartialDocumentOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config_xy.json")
	writeFile(t, path, `{"rect": {"x1": 5}, "settings": {"expo": 2.0, "invert_y": false}}`)

	got, err := NewFileStore(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := xypad.DefaultConfig()
	want.Rect.X1 = 5
	want.Settings.Expo = 2
	want.Settings.InvertY = false
	if got != want {
		t.Fatalf("Load = %+v, want %+v", got, want)
	}
}

func TestLoadKeepsDefaultsForNullValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config_xy.json")
	writeFile(t, path, `{"settings": {"deadzone": null, "drag_button": "BTN_TR"}, "hotkeys": null}`)

	got, err := NewFileStore(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := xypad.DefaultConfig()
	want.Settings.DragButton = "BTN_TR"
	if got != want {
		t.Fatalf("Load = %+v, want %+v", got, want)
	}
}

func TestLoadMissingFileReportsNotExist(t *testing.T) {
	_, err := NewFileStore(filepath.Join(t.TempDir(), "absent.json")).Load()
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want os.ErrNotExist", err)
	}
}

func TestLoadCorruptDocumentFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config_xy.json")
	writeFile(t, path, `{"rect": [1, 2`)

	s := NewFileStore(path)
	if _, err := s.Load(); err == nil {
		t.Fatal("expected parse error")
	}
	if got := xypad.LoadConfig(s, nopLogger{}); got != xypad.DefaultConfig() {
		t.Fatalf("LoadConfig = %+v, want defaults", got)
	}
}

func TestLoadRejectsNonObjectDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config_xy.json")
	writeFile(t, path, `[1, 2, 3]`)
	if _, err := NewFileStore(path).Load(); err == nil {
		t.Fatal("expected error for array document")
	}
}

func TestDeepMerge(t *testing.T) {
	base := map[string]any{
		"a": 1.0,
		"b": map[string]any{"c": 2.0, "d": 3.0},
	}
	override := map[string]any{
		"b": map[string]any{"d": 4.0, "e": nil},
		"f": "new",
	}
	merged, ok := DeepMerge(base, override).(map[string]any)
	if !ok {
		t.Fatal("merge result is not an object")
	}
	if merged["a"] != 1.0 || merged["f"] != "new" {
		t.Fatalf("unexpected top level: %#v", merged)
	}
	nested := merged["b"].(map[string]any)
	if nested["c"] != 2.0 || nested["d"] != 4.0 {
		t.Fatalf("unexpected nested: %#v", nested)
	}
	if base["b"].(map[string]any)["d"] != 3.0 {
		t.Fatal("DeepMerge mutated its base")
	}
}

func TestWatchReportsRewrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config_xy.json")
	s := NewFileStore(path)
	if err := s.Save(xypad.DefaultConfig()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- s.Watch(ctx, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		}, nil)
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	cfg := xypad.DefaultConfig()
	cfg.Rect.X2 = 1900
	if err := s.Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("no change notification")
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch: %v", err)
	}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
