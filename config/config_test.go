package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/pthm-cable/earthnoise/noise"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Noise.Basis != noise.BasisPerlin {
		t.Errorf("expected perlin basis, got %q", cfg.Noise.Basis)
	}
	if cfg.Fractal.Octaves != 6 || cfg.Fractal.Persistence != 2 || cfg.Fractal.Gain != 0.5 {
		t.Errorf("unexpected fractal defaults: %+v", cfg.Fractal)
	}
	if cfg.Derived.Cells != cfg.Grid.Width*cfg.Grid.Height {
		t.Errorf("Cells = %d, want %d", cfg.Derived.Cells, cfg.Grid.Width*cfg.Grid.Height)
	}
	if len(cfg.Derived.Seed) != noise.SeedSize || cfg.Derived.Seed[0] != 151 {
		t.Errorf("expected canonical seed, got %d entries", len(cfg.Derived.Seed))
	}

	table, err := cfg.Table()
	if err != nil {
		t.Fatalf("Table failed: %v", err)
	}
	if table.Lookup(0) != 151 {
		t.Errorf("Lookup(0) = %d, want 151", table.Lookup(0))
	}
}

func TestLoadOverridesOnlySetFields(t *testing.T) {
	path := writeFile(t, "user.yaml", "fractal:\n  octaves: 3\ngrid:\n  projection: plane\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Fractal.Octaves != 3 {
		t.Errorf("octaves = %d, want 3", cfg.Fractal.Octaves)
	}
	if cfg.Fractal.Gain != 0.5 {
		t.Errorf("gain = %v, want default 0.5", cfg.Fractal.Gain)
	}
	if cfg.Grid.Projection != "plane" {
		t.Errorf("projection = %q, want plane", cfg.Grid.Projection)
	}
	if cfg.Grid.Width != 512 {
		t.Errorf("width = %d, want default 512", cfg.Grid.Width)
	}
}

func TestLoadSeedFile(t *testing.T) {
	seed := make([]string, noise.SeedSize)
	for i := range seed {
		seed[i] = strconv.Itoa(noise.SeedSize - 1 - i)
	}
	list := writeFile(t, "seed.yaml", "["+strings.Join(seed, ", ")+"]\n")
	doc := writeFile(t, "seed_doc.yaml", "seed: ["+strings.Join(seed, ", ")+"]\n")

	for _, seedPath := range []string{list, doc} {
		user := writeFile(t, "user.yaml", "noise:\n  seed_file: "+seedPath+"\n")
		cfg, err := Load(user)
		if err != nil {
			t.Fatalf("Load(%s) failed: %v", seedPath, err)
		}
		if cfg.Derived.Seed[0] != 255 || cfg.Derived.Seed[255] != 0 {
			t.Errorf("seed from %s not applied: first=%d last=%d", seedPath, cfg.Derived.Seed[0], cfg.Derived.Seed[255])
		}
	}
}

func TestLoadRejectsInvalidSeed(t *testing.T) {
	path := writeFile(t, "user.yaml", "noise:\n  seed: [1, 2, 3]\n")
	_, err := Load(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	if !errors.Is(err, noise.ErrInvalidSeed) {
		t.Errorf("expected wrapped ErrInvalidSeed, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"zero width", "grid:\n  width: 0\n"},
		{"negative scale", "grid:\n  scale: -1\n"},
		{"bad projection", "grid:\n  projection: mercator\n"},
		{"bad image", "output:\n  image: gif\n"},
		{"bad basis", "noise:\n  basis: worley\n"},
		{"unordered levels", "terrain:\n  sea_level: 0.9\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "user.yaml", tc.body))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cfg.Fractal.Octaves = 9
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load of written config failed: %v", err)
	}
	if loaded.Fractal.Octaves != 9 {
		t.Errorf("octaves = %d, want 9", loaded.Fractal.Octaves)
	}
}

func TestFractalAndSource(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	fr := cfg.FractalParams()
	if fr.Octaves != cfg.Fractal.Octaves || fr.Persistence != cfg.Fractal.Persistence || fr.Gain != cfg.Fractal.Gain {
		t.Errorf("FractalParams() = %+v, want %+v", fr, cfg.Fractal)
	}
	src, err := cfg.Source()
	if err != nil {
		t.Fatalf("Source failed: %v", err)
	}
	if v := src.Sample3D(0.5, 0.5, 0.5); v != -0.25 {
		t.Errorf("Sample3D(0.5,0.5,0.5) = %v, want -0.25", v)
	}
}
