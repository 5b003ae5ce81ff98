package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/lifeengine/config"
)

func TestNewOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}

	// A nil manager is a no-op
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	for i := 1; i <= 3; i++ {
		if err := om.WriteTelemetry(WindowStats{RunID: "r", WindowEndTick: i * 100, Population: i}); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkExtinction, Tick: 100}); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteBestAnatomy("0,0,Mouth,"); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("telemetry.csv has %d lines, want header + 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "run_id,window_end,population") {
		t.Errorf("header = %q", lines[0])
	}
	if strings.Count(string(data), "run_id") != 1 {
		t.Error("header written more than once")
	}

	best, err := os.ReadFile(filepath.Join(dir, BestAnatomyFile))
	if err != nil {
		t.Fatal(err)
	}
	if string(best) != "0,0,Mouth,\n" {
		t.Errorf("best anatomy = %q", best)
	}

	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot does not load: %v", err)
	}
}
