// Package texturator plans and executes the texture conversions for a glTF
// to USD run.  Planning (Add, AddSpecToMetal) derives deterministic output
// names and enqueues jobs; End fits the global size budget and processes the
// jobs sequentially.
package texturator

import (
	"github.com/Skryldev/texture-pipeline/codec"
	"github.com/Skryldev/texture-pipeline/colorconv"
	"github.com/Skryldev/texture-pipeline/config"
	"github.com/Skryldev/texture-pipeline/core"
	"github.com/Skryldev/texture-pipeline/pixel"
)

// Use premultiplied alpha when resizing so colors are weighted by opacity.
const resizePremulAlpha = true

type jobType uint8

const (
	jobAdd jobType = iota
	jobAddSpecToMetal
)

// op is one planned per-image transformation.
type op struct {
	imageID      core.ImageID
	args         core.Args
	src          *src
	dstPath      string
	passMask     uint32
	resizeWidth  int
	resizeHeight int
	isNew        bool
	directCopy   bool
	needCopy     bool
	isConstant   bool
}

// job is either a single op (Add) or a spec/diff op pair (AddSpecToMetal).
type job struct {
	typ jobType
	ops [2]op
}

func (j *job) opCount() int {
	if j.typ == jobAddSpecToMetal {
		return 2
	}
	return 1
}

// colorIDIdentity is the sentinel id for identity scale/bias; it never
// appears in a filename suffix.
const colorIDIdentity = -1

// Texturator is the texture conversion pipeline.  It is single-threaded:
// the planner may be invoked many times, End exactly once.
type Texturator struct {
	settings config.Settings
	cache    core.SourceCache
	logger   core.Logger
	writer   codec.Writer
	dstDir   string

	srcs     map[core.ImageID]*src
	dsts     map[string]struct{}
	scaleIDs map[core.ColorI]int
	biasIDs  map[core.ColorI]int
	jobs     []job

	written     []string
	createdDirs []string
}

// New creates a Texturator over the host's source cache.  Call Begin before
// planning.
func New(settings config.Settings, cache core.SourceCache) *Texturator {
	t := &Texturator{
		settings: settings,
		cache:    cache,
		logger:   nopLogger{},
		writer:   codec.StdWriter{},
	}
	t.reset()
	return t
}

// SetLogger attaches a structured logger.
func (t *Texturator) SetLogger(l core.Logger) { t.logger = l }

// SetWriter replaces the output codec backend (e.g. the vips adapter).
func (t *Texturator) SetWriter(w codec.Writer) { t.writer = w }

// Begin starts a conversion run writing into dstDir.
func (t *Texturator) Begin(dstDir string) {
	t.dstDir = dstDir
}

// Clear discards all per-run state.
func (t *Texturator) Clear() {
	t.dstDir = ""
	t.reset()
}

func (t *Texturator) reset() {
	t.srcs = make(map[core.ImageID]*src)
	t.dsts = make(map[string]struct{})
	t.scaleIDs = make(map[core.ColorI]int)
	t.biasIDs = make(map[core.ColorI]int)
	t.jobs = nil
	t.written = nil
	t.createdDirs = nil
}

// Written returns the paths prepared for writing during this run.
func (t *Texturator) Written() []string { return t.written }

// CreatedDirs returns the directories created during this run, for the
// host's cleanup pass.
func (t *Texturator) CreatedDirs() []string { return t.createdDirs }

// Add plans one texture conversion and returns the destination name usable
// by the shader graph.  A missing or undecodable source yields the name of
// the args' fallback texture instead.
func (t *Texturator) Add(id core.ImageID, args core.Args) string {
	o := op{imageID: id, args: args}
	name, ok := t.addDst(id, args, &o)
	if !ok {
		return t.addFallback(args.Fallback)
	}
	if !o.isNew {
		// Destination image already planned.  Just return the name.
		return name
	}
	t.jobs = append(t.jobs, job{typ: jobAdd, ops: [2]op{0: o}})
	return name
}

// AddSpecToMetal plans the paired specular+diffuse to metallic+base
// conversion.  The args' usages must be UsageSpecToMetal and UsageDiffToBase
// respectively.  If one source is absent, the other source's name is used
// for the absent op and the executor synthesizes a white image of the
// corresponding size; if neither exists, both fallback names are returned.
func (t *Texturator) AddSpecToMetal(
	specImageID core.ImageID, specArgs core.Args,
	diffImageID core.ImageID, diffArgs core.Args) (metalName, baseName string) {
	if specArgs.Usage != core.UsageSpecToMetal || diffArgs.Usage != core.UsageDiffToBase {
		t.logger.Error("texturator.add_spec_to_metal.bad_usage",
			"spec_usage", specArgs.Usage, "diff_usage", diffArgs.Usage)
		return t.addFallback(specArgs.Fallback), t.addFallback(diffArgs.Fallback)
	}

	specOp := op{imageID: specImageID, args: specArgs}
	diffOp := op{imageID: diffImageID, args: diffArgs}
	specName, specOK := t.addDst(specImageID, specArgs, &specOp)
	diffName, diffOK := t.addDst(diffImageID, diffArgs, &diffOp)
	if !specOK && !diffOK {
		return t.addFallback(specArgs.Fallback), t.addFallback(diffArgs.Fallback)
	}

	// If either source is absent, use the name of the other.
	specOp.isConstant = !specOK
	if specOp.isConstant {
		specName, _ = t.addDst(diffImageID, specArgs, &specOp)
	}
	diffOp.isConstant = !diffOK
	if diffOp.isConstant {
		diffName, _ = t.addDst(specImageID, diffArgs, &diffOp)
	}

	if !specOp.isNew && !diffOp.isNew {
		// Both destination images already planned.
		return specName, diffName
	}

	t.jobs = append(t.jobs, job{typ: jobAddSpecToMetal, ops: [2]op{specOp, diffOp}})
	return specName, diffName
}

// End fits the global size budget, prepares output directories, then
// processes jobs in insertion order.  Call exactly once per run.
func (t *Texturator) End() {
	// Apply the global resize scale.
	globalScale := t.chooseGlobalScale()
	if globalScale != 1.0 {
		for i := range t.jobs {
			j := &t.jobs[i]
			for k := 0; k < j.opCount(); k++ {
				o := &j.ops[k]
				if o.src == nil || o.src.image == nil {
					continue
				}
				srcWidth := o.src.image.Width()
				srcHeight := o.src.image.Height()
				o.resizeWidth, o.resizeHeight = getDstSize(
					srcWidth, srcHeight, o.args.Resize, globalScale)
				if o.resizeWidth != srcWidth || o.resizeHeight != srcHeight {
					o.passMask |= passResize
					o.directCopy = false
				}
			}
		}
	}

	// Create directories for images up-front.
	prepFailed := false
	for i := range t.jobs {
		j := &t.jobs[i]
		for k := 0; k < j.opCount(); k++ {
			o := &j.ops[k]
			if !o.directCopy || o.needCopy {
				if !t.prepareWrite(o.dstPath) {
					prepFailed = true
				}
			}
		}
	}
	if prepFailed {
		return
	}

	// Process jobs sequentially.  This could be multithreaded, but the
	// logging and IO caching substrates are not safe for concurrent access,
	// there are few textures per model, and the surrounding batch driver
	// already parallelizes across processes.
	for i := range t.jobs {
		t.processJob(&t.jobs[i])
	}
}

// GetSolidAlpha returns the constant alpha of the source, or -1 when the
// alpha channel is not solid.  Absent image records count as opaque.
func (t *Texturator) GetSolidAlpha(id core.ImageID) int {
	s := t.findOrAddSrc(id)
	if s == nil {
		return int(pixel.ComponentMax)
	}
	t.ensureContents(id, s)
	if !pixel.IsSolid(s.contents[core.ChannelA]) {
		return -1
	}
	return int(s.solid[core.ChannelA])
}

// IsAlphaOpaque reports whether the source's alpha is solid and lands at
// fully opaque after scale/bias.
func (t *Texturator) IsAlphaOpaque(id core.ImageID, scale, bias float32) bool {
	ia := t.GetSolidAlpha(id)
	if ia < 0 {
		return false
	}
	a := pixel.ComponentToFloat(pixel.Component(ia))*scale + bias
	return a >= 1.0-colorconv.ColorTol
}

// IsAlphaFullyTransparent reports whether the source's alpha is solid and
// lands at fully transparent after scale/bias.
func (t *Texturator) IsAlphaFullyTransparent(id core.ImageID, scale, bias float32) bool {
	ia := t.GetSolidAlpha(id)
	if ia < 0 {
		return false
	}
	a := pixel.ComponentToFloat(pixel.Component(ia))*scale + bias
	return a <= colorconv.ColorTol
}

// nopLogger is the default logger; it drops everything.
type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
