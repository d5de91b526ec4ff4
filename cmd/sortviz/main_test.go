package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/san-kum/sortviz/internal/algo"
	"github.com/san-kum/sortviz/internal/config"
	"github.com/san-kum/sortviz/internal/storage"
)

func newFlagCmd(t *testing.T, argv ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addArrayFlags(cmd)
	if err := cmd.Flags().Parse(argv); err != nil {
		t.Fatal(err)
	}
	return cmd
}

func TestResolveConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	file := config.DefaultConfig()
	file.Algorithm, file.Size, file.Seed = "merge", 12, 9
	if err := config.Save(path, file); err != nil {
		t.Fatal(err)
	}
	configFile, preset = path, ""
	defer func() { configFile = "" }()

	cfg, err := resolveConfig(newFlagCmd(t, "--size", "20"), nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Algorithm != "merge" || cfg.Size != 20 || cfg.Seed != 9 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Target != nil {
		t.Error("target must stay unset unless given")
	}

	cfg, err = resolveConfig(newFlagCmd(t, "--target", "7"), []string{"linear"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Algorithm != "linear" || cfg.Target == nil || *cfg.Target != 7 {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestResolveConfigPreset(t *testing.T) {
	preset = "search-sorted"
	defer func() { preset = "" }()

	cfg, err := resolveConfig(newFlagCmd(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Algorithm != "binary" || !cfg.Sorted || cfg.Seed == 0 {
		t.Errorf("unexpected config %+v", cfg)
	}

	preset = "nope"
	if _, err := resolveConfig(newFlagCmd(t), nil); err == nil {
		t.Error("expected unknown preset error")
	}
}

func TestResolveConfigRejectsOversize(t *testing.T) {
	if _, err := resolveConfig(newFlagCmd(t, "--size", "25", "--layout", "compact"), nil); err == nil {
		t.Error("expected size error for compact layout")
	}
}

func TestCumulativeComparisons(t *testing.T) {
	trace := storage.Trace{
		{Kind: algo.EventCompare},
		{Kind: algo.EventSwap},
		{Kind: algo.EventCompare},
	}
	got := cumulativeComparisons(trace)
	want := []float64{1, 1, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestMain(m *testing.M) {
	dataDir = os.TempDir()
	os.Exit(m.Run())
}
