// Package texturepipeline converts glTF material textures for viewers that
// implement the restricted USD Preview Surface shading model.  It is a thin
// facade over the texturator package: plan conversions with Add and
// AddSpecToMetal, then execute them with End.
package texturepipeline

import (
	"github.com/Skryldev/texture-pipeline/codec"
	"github.com/Skryldev/texture-pipeline/config"
	"github.com/Skryldev/texture-pipeline/core"
	"github.com/Skryldev/texture-pipeline/texturator"
)

// Re-export the usage constants for convenience.
const (
	UsageDefault      = core.UsageDefault
	UsageLinear       = core.UsageLinear
	UsageDiffToBase   = core.UsageDiffToBase
	UsageNorm         = core.UsageNorm
	UsageOccl         = core.UsageOccl
	UsageMetal        = core.UsageMetal
	UsageRough        = core.UsageRough
	UsageSpec         = core.UsageSpec
	UsageSpecToMetal  = core.UsageSpecToMetal
	UsageGloss        = core.UsageGloss
	UsageGlossToRough = core.UsageGlossToRough
	UsageUnlitA       = core.UsageUnlitA
)

// DefaultSettings returns the production conversion settings.
func DefaultSettings() config.Settings { return config.Default() }

// DefaultArgs returns identity conversion args for a usage.
func DefaultArgs(usage core.Usage) core.Args { return core.DefaultArgs(usage) }

// Pipeline is the primary entry point.
type Pipeline struct {
	inner *texturator.Texturator
}

// New creates a Pipeline over the host's source cache.
func New(settings config.Settings, cache core.SourceCache) *Pipeline {
	return &Pipeline{inner: texturator.New(settings, cache)}
}

// SetLogger attaches a structured logger.
func (p *Pipeline) SetLogger(l core.Logger) { p.inner.SetLogger(l) }

// SetWriter replaces the output codec backend (e.g. the vips adapter).
func (p *Pipeline) SetWriter(w codec.Writer) { p.inner.SetWriter(w) }

// Begin starts a conversion run writing into dstDir.
func (p *Pipeline) Begin(dstDir string) { p.inner.Begin(dstDir) }

// Add plans one texture conversion and returns the destination name.
func (p *Pipeline) Add(id core.ImageID, args core.Args) string {
	return p.inner.Add(id, args)
}

// AddSpecToMetal plans the paired specular+diffuse to metallic+base
// conversion and returns both destination names.
func (p *Pipeline) AddSpecToMetal(
	specID core.ImageID, specArgs core.Args,
	diffID core.ImageID, diffArgs core.Args) (metalName, baseName string) {
	return p.inner.AddSpecToMetal(specID, specArgs, diffID, diffArgs)
}

// End fits the size budget and processes all planned jobs.
func (p *Pipeline) End() { p.inner.End() }

// Clear discards all per-run state.
func (p *Pipeline) Clear() { p.inner.Clear() }

// GetSolidAlpha returns the source's constant alpha, or -1 when varying.
func (p *Pipeline) GetSolidAlpha(id core.ImageID) int { return p.inner.GetSolidAlpha(id) }

// IsAlphaOpaque reports whether the source alpha lands fully opaque after
// scale/bias.
func (p *Pipeline) IsAlphaOpaque(id core.ImageID, scale, bias float32) bool {
	return p.inner.IsAlphaOpaque(id, scale, bias)
}

// IsAlphaFullyTransparent reports whether the source alpha lands fully
// transparent after scale/bias.
func (p *Pipeline) IsAlphaFullyTransparent(id core.ImageID, scale, bias float32) bool {
	return p.inner.IsAlphaFullyTransparent(id, scale, bias)
}

// Written returns the output paths prepared during this run.
func (p *Pipeline) Written() []string { return p.inner.Written() }

// CreatedDirs returns the directories created during this run.
func (p *Pipeline) CreatedDirs() []string { return p.inner.CreatedDirs() }

// Inner exposes the underlying texturator for advanced use.  Prefer the
// high-level API for normal usage.
func (p *Pipeline) Inner() *texturator.Texturator { return p.inner }
