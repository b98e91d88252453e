package worker

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSweepRemovesOnlyStaleFiles(t *testing.T) {
	dir := t.TempDir()

	stale := filepath.Join(dir, "stale")
	if err := os.WriteFile(stale, []byte("x"), 0o600); err != nil {
		t.Fatalf("write stale file: %v", err)
	}
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatalf("backdate stale file: %v", err)
	}

	fresh := filepath.Join(dir, "fresh")
	if err := os.WriteFile(fresh, []byte("x"), 0o600); err != nil {
		t.Fatalf("write fresh file: %v", err)
	}

	w := NewStagingSweeper(dir, time.Minute, 10*time.Minute, nil)
	w.Sweep()

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatal("stale file survived the sweep")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatalf("fresh file removed: %v", err)
	}
}

func TestSweepSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(sub, old, old); err != nil {
		t.Fatalf("backdate dir: %v", err)
	}

	w := NewStagingSweeper(dir, time.Minute, 10*time.Minute, nil)
	w.Sweep()

	if _, err := os.Stat(sub); err != nil {
		t.Fatalf("directory removed by sweep: %v", err)
	}
}
