package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Fidelxyz/cpu-renderer/internal/rerr"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

const minimalValidConfig = `
camera:
  pos: [0, 0, -5]
  look-dir: [0, 0, 1]
  up-dir: [0, 1, 0]
  fov: 60
  near-plane: 0.1
  far-plane: 100
  width: 64
  height: 64
objects:
  - path: mesh.obj
`

func TestLoad_ValidConfigAppliesDefaults(t *testing.T) {
	path := writeTempConfig(t, minimalValidConfig)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OutlineWidth != 0.001 {
		t.Errorf("OutlineWidth = %v, want default 0.001", cfg.OutlineWidth)
	}
	if cfg.BloomRadius != 1 {
		t.Errorf("BloomRadius = %v, want default 1", cfg.BloomRadius)
	}
	if cfg.Camera.Width != 64 || cfg.Camera.Height != 64 {
		t.Errorf("camera dims = %dx%d, want 64x64", cfg.Camera.Width, cfg.Camera.Height)
	}
}

func TestLoad_MissingFileReturnsConfigParseError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	var parseErr *rerr.ConfigParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error %v is not a *rerr.ConfigParseError", err)
	}
	if _, ok := err.(interface{ Unwrap() error }); !ok {
		t.Fatalf("error %v does not wrap an underlying cause", err)
	}
}

func TestLoad_ZeroWidthRejected(t *testing.T) {
	path := writeTempConfig(t, `
camera:
  fov: 60
  near-plane: 0.1
  far-plane: 100
  width: 0
  height: 64
objects:
  - path: mesh.obj
`)
	if _, err := Load(path); err == nil {
		t.Error("expected validation error for zero camera width")
	}
}

func TestLoad_ObjectWithoutPathRejected(t *testing.T) {
	path := writeTempConfig(t, `
camera:
  fov: 60
  near-plane: 0.1
  far-plane: 100
  width: 64
  height: 64
objects:
  - basepath: textures
`)
	if _, err := Load(path); err == nil {
		t.Error("expected validation error for object missing path")
	}
}

func TestLoad_BadFarNearOrderingRejected(t *testing.T) {
	path := writeTempConfig(t, `
camera:
  fov: 60
  near-plane: 10
  far-plane: 1
  width: 64
  height: 64
objects:
  - path: mesh.obj
`)
	if _, err := Load(path); err == nil {
		t.Error("expected validation error when far-plane <= near-plane")
	}
}
