package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_ReloadOnRewrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "campaign.xml")
	if err := os.WriteFile(path, []byte("<x/>"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	w, err := New(path, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	w.SetDebounce(50 * time.Millisecond)

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	// Several rapid writes must collapse into one event.
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("<y/>"), 0644); err != nil {
			t.Fatalf("rewrite: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case ev := <-w.Events():
		if ev.Path != path {
			t.Errorf("event path = %q, want %q", ev.Path, path)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no reload event after rewrite")
	}
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "campaign.xml")
	if err := os.WriteFile(path, []byte("<x/>"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	w, err := New(path, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	w.SetDebounce(50 * time.Millisecond)

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "descriptor.xml"), []byte("<z/>"), 0644); err != nil {
		t.Fatalf("write sibling: %v", err)
	}

	select {
	case ev := <-w.Events():
		t.Errorf("unexpected event for sibling write: %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_StopAfterFailedStart(t *testing.T) {
	// A path whose directory does not exist makes Start fail at the
	// fsnotify add.
	path := filepath.Join(t.TempDir(), "missing", "campaign.xml")

	w, err := New(path, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := w.Start(context.Background()); err == nil {
		t.Fatal("Start succeeded for a nonexistent directory")
	}

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked after failed Start")
	}

	// The watcher must also be restartable-safe: a second Start on the
	// closed fsnotify handle reports an error instead of hanging.
	if err := w.Start(context.Background()); err == nil {
		t.Error("Start succeeded on a closed watcher")
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "campaign.xml")
	if err := os.WriteFile(path, []byte("<x/>"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	w, err := New(path, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	w.Stop()
	w.Stop() // second call must not panic or block
}
