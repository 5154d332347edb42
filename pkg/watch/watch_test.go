package watch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-lowcodegen/pkg/testsupport"
	"github.com/goliatone/go-lowcodegen/pkg/watch"
)

func TestRun_RerunsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := testsupport.WriteFile(t, dir, "config.yaml", "entities: []\n")
	other := filepath.Join(dir, "other.yaml")

	w, err := watch.New(path, watch.WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(context.Context) error {
			calls <- struct{}{}
			return errors.New("rerun errors are logged, not returned")
		})
	}()

	if err := os.WriteFile(other, []byte("ignored"), 0o644); err != nil {
		t.Fatalf("write other: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("entities:\n  - name: Widget\n"), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
	}

	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatalf("callback not invoked after configuration change")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return after cancellation")
	}
}

func TestRun_ClosedWatcher(t *testing.T) {
	path := testsupport.WriteFile(t, t.TempDir(), "config.yaml", "")
	w, err := watch.New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Run(context.Background(), func(context.Context) error { return nil }); err == nil {
		t.Fatalf("expected error running a closed watcher")
	}
}

func TestNew_MissingDirectory(t *testing.T) {
	if _, err := watch.New(filepath.Join(t.TempDir(), "absent", "config.yaml")); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
