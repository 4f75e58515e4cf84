package texturepipeline_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	texturepipeline "github.com/Skryldev/texture-pipeline"
	"github.com/Skryldev/texture-pipeline/config"
	"github.com/Skryldev/texture-pipeline/core"
	"github.com/Skryldev/texture-pipeline/gltfcache"
	"github.com/Skryldev/texture-pipeline/hooks"
)

// ── Test helpers ──────────────────────────────────────────────────────────────

func writePNG(t *testing.T, dir, name string, w, h int, px func(x, y int) color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, px(x, y))
		}
	}
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write png: %v", err)
	}
}

// ── End-to-end conversion of a typical PBR material ───────────────────────────

func TestPipelineConvertsMaterial(t *testing.T) {
	srcDir, dstDir := t.TempDir(), t.TempDir()

	writePNG(t, srcDir, "textures/albedo.png", 32, 32, func(x, y int) color.NRGBA {
		return color.NRGBA{R: uint8(x * 8), G: uint8(y * 8), B: 80, A: 255}
	})
	writePNG(t, srcDir, "textures/normal.png", 32, 32, func(x, y int) color.NRGBA {
		return color.NRGBA{R: 128, G: 128, B: 255, A: 255}
	})
	writePNG(t, srcDir, "textures/orm.png", 32, 32, func(x, y int) color.NRGBA {
		return color.NRGBA{R: 255, G: uint8(y * 8), B: 0, A: 255}
	})

	cache := gltfcache.New(srcDir)
	cache.AddFile(0, "textures/albedo.png")
	cache.AddFile(1, "textures/normal.png")
	cache.AddFile(2, "textures/orm.png")

	cfg := config.Default()
	log := hooks.NewCaptureLogger()
	pipe := texturepipeline.New(cfg, cache)
	pipe.SetLogger(log)
	pipe.Begin(dstDir)

	base := pipe.Add(0, texturepipeline.DefaultArgs(texturepipeline.UsageDefault))
	norm := pipe.Add(1, texturepipeline.DefaultArgs(texturepipeline.UsageNorm))
	occl := pipe.Add(2, texturepipeline.DefaultArgs(texturepipeline.UsageOccl))
	rough := pipe.Add(2, texturepipeline.DefaultArgs(texturepipeline.UsageRough))
	metal := pipe.Add(2, texturepipeline.DefaultArgs(texturepipeline.UsageMetal))

	pipe.End()

	// Names are deterministic and distinct per usage.
	wantNames := map[string]string{
		"base":  "textures/albedo.png",
		"norm":  "textures/normal.png",
		"occl":  "textures/orm_occl.png",
		"rough": "textures/orm_rough.png",
		"metal": "textures/orm_metal.png",
	}
	got := map[string]string{"base": base, "norm": norm, "occl": occl, "rough": rough, "metal": metal}
	for key, want := range wantNames {
		if got[key] != want {
			t.Errorf("%s name = %q, want %q", key, got[key], want)
		}
	}

	// Every returned name corresponds to a produced file.
	for key, name := range got {
		if _, err := os.Stat(filepath.Join(dstDir, filepath.FromSlash(name))); err != nil {
			t.Errorf("%s output %q missing: %v", key, name, err)
		}
	}

	if errs := log.CountByMsg("image write failed"); errs != 0 {
		t.Errorf("write errors logged: %d", errs)
	}
}

func TestPipelineSolidAlphaHelpers(t *testing.T) {
	srcDir := t.TempDir()
	writePNG(t, srcDir, "a.png", 4, 4, func(x, y int) color.NRGBA {
		return color.NRGBA{R: 9, G: 9, B: 9, A: 255}
	})
	cache := gltfcache.New(srcDir)
	cache.AddFile(0, "a.png")

	pipe := texturepipeline.New(config.Default(), cache)
	pipe.Begin(t.TempDir())

	if pipe.GetSolidAlpha(0) != 255 {
		t.Error("expected solid opaque alpha")
	}
	if !pipe.IsAlphaOpaque(0, 1, 0) {
		t.Error("expected opaque")
	}
	if pipe.IsAlphaFullyTransparent(0, 1, 0) {
		t.Error("not transparent")
	}
}

func TestPipelineFallbackForUnknownID(t *testing.T) {
	cache := gltfcache.New(t.TempDir())
	pipe := texturepipeline.New(config.Default(), cache)
	dstDir := t.TempDir()
	pipe.Begin(dstDir)

	a := texturepipeline.DefaultArgs(texturepipeline.UsageDefault)
	a.Fallback = core.FallbackMagenta
	name := pipe.Add(42, a)
	if name != "fallback_magenta.png" {
		t.Fatalf("name = %q, want fallback_magenta.png", name)
	}
	if _, err := os.Stat(filepath.Join(dstDir, name)); err != nil {
		t.Fatalf("fallback file missing: %v", err)
	}
}
