package texturator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Skryldev/texture-pipeline/codec"
	"github.com/Skryldev/texture-pipeline/config"
	"github.com/Skryldev/texture-pipeline/core"
	"github.com/Skryldev/texture-pipeline/pixel"
	"github.com/Skryldev/texture-pipeline/utils"
)

// Scale/bias vectors are interned at 10-bit-per-channel precision purely to
// generate short, stable filename suffixes.
const (
	quantizeBits  = 10
	quantizeUnits = 1 << quantizeBits
)

var (
	quantizeScaleIdentity = core.ColorI{quantizeUnits, quantizeUnits, quantizeUnits, quantizeUnits}
	quantizeBiasIdentity  = core.ColorI{0, 0, 0, 0}
)

func quantize(c core.ColorF) core.ColorI {
	f := c.Channels()
	var q core.ColorI
	for i := range f {
		q[i] = int32(f[i]*quantizeUnits + 0.5)
	}
	return q
}

// getColorID interns a quantized color.  The identity color maps to the
// sentinel id and never produces a suffix; all other distinct quantizations
// receive ascending ids starting at 0.
func getColorID(color core.ColorF, identity core.ColorI, ids map[core.ColorI]int) int {
	q := quantize(color)
	if q == identity {
		return colorIDIdentity
	}
	if id, ok := ids[q]; ok {
		return id
	}
	id := len(ids)
	ids[q] = id
	return id
}

// addFileNameSuffix inserts suffix ahead of any recognized image extension.
func addFileNameSuffix(name, suffix string) string {
	if suffix == "" {
		return name
	}
	if codec.MimeForPath(name) != "" {
		ext := filepath.Ext(name)
		return name[:len(name)-len(ext)] + suffix + ext
	}
	return name + suffix
}

// getDstSize derives the output dimensions from the resize settings and the
// global budget scale.
func getDstSize(srcWidth, srcHeight int, resize config.ResizeSettings, globalScale float32) (int, int) {
	scale := resize.Scale * globalScale
	width := int(float32(srcWidth)*scale + 0.5)
	height := int(float32(srcHeight)*scale + 0.5)
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	// These operations can change the aspect ratio.
	if resize.ForcePowerOf2 {
		width = int(utils.Power2Floor(uint32(width)))
		height = int(utils.Power2Floor(uint32(height)))
	}
	sizeMin, sizeMax := resize.SizeMin, resize.SizeMax
	if sizeMin < 1 {
		sizeMin = 1
	}
	if sizeMax < sizeMin {
		sizeMax = sizeMin
	}
	width = utils.Clamp(width, sizeMin, sizeMax)
	height = utils.Clamp(height, sizeMin, sizeMax)
	return width, height
}

// getResizeSize reports the planned resize target, or ok=false when the
// settings request no resize or the result matches the source size.
func (t *Texturator) getResizeSize(id core.ImageID, resize config.ResizeSettings, s *src) (int, int, bool) {
	if resize.IsDefault() {
		return 0, 0, false
	}
	srcWidth := t.srcWidth(id, s)
	if srcWidth == 0 {
		return 0, 0, false
	}
	srcHeight := t.srcHeight(id, s)
	dstWidth, dstHeight := getDstSize(srcWidth, srcHeight, resize, 1.0)
	if dstWidth == srcWidth && dstHeight == srcHeight {
		return 0, 0, false
	}
	return dstWidth, dstHeight, true
}

// getDstSuffix builds the canonical suffix sequence for (args, source) and
// records the implied pass mask on the op.
func (t *Texturator) getDstSuffix(args core.Args, id core.ImageID, s *src, o *op) string {
	var passMask uint32
	var suffix strings.Builder

	info := &usageInfos[args.Usage]

	if args.Usage == core.UsageDefault {
		removeAlpha := args.AlphaMode == core.AlphaOpaque &&
			t.getComponentContent(core.ChannelA, id, s) != pixel.ContentSolid1
		if removeAlpha {
			suffix.WriteString("_rgb")
			passMask |= passRemoveAlpha
		}
	} else {
		suffix.WriteString(info.dstSuffix)
	}

	if info.srcRGBColorSpace != info.dstRGBColorSpace {
		passMask |= passColorSpace
	}

	if args.Usage == core.UsageSpecToMetal {
		passMask |= passSpecToMetal
	}

	if t.settings.BakeTextureColorScaleBias {
		if scaleID := getColorID(args.Scale, quantizeScaleIdentity, t.scaleIDs); scaleID != colorIDIdentity {
			fmt.Fprintf(&suffix, "_scale%d", scaleID)
			passMask |= passScaleBias
		}
		if biasID := getColorID(args.Bias, quantizeBiasIdentity, t.biasIDs); biasID != colorIDIdentity {
			fmt.Fprintf(&suffix, "_bias%d", biasID)
			passMask |= passScaleBias
		}
	}

	// Add an alpha channel if it's missing but needed for alpha scale/bias.
	if args.Usage == core.UsageDefault &&
		args.AlphaMode != core.AlphaOpaque &&
		passMask&passScaleBias != 0 &&
		(args.Scale.A != 1.0 || args.Bias.A != 0.0) {
		t.loadSrc(id, s)
		if s.image != nil && s.image.ChannelCount() < int(core.ChannelCount) {
			suffix.WriteString("_rgba")
			passMask |= passAddAlpha
		}
	}

	if w, h, ok := t.getResizeSize(id, args.Resize, s); ok {
		o.resizeWidth = w
		o.resizeHeight = h
		fmt.Fprintf(&suffix, "_%dx%d", w, h)
		passMask |= passResize
	}

	if t.settings.NormalizeNormals && args.Usage == core.UsageNorm &&
		(passMask&passScaleBias != 0 || t.needNormalization(id, s)) {
		suffix.WriteString("_norm")
		passMask |= passNormalizeNormals
	}

	if t.settings.BakeAlphaCutoff && args.AlphaMode == core.AlphaMask {
		content := t.getComponentContent(core.ChannelA, id, s)
		if !pixel.IsBinary(content) {
			cutoff := pixel.FloatToComponent(args.AlphaCutoff)
			fmt.Fprintf(&suffix, "_cutoff%d", cutoff)
			passMask |= passAlphaCutoff
		}
	}

	o.passMask = passMask
	return suffix.String()
}

// addDst derives the destination name for (id, args), deduplicating against
// prior references.  ok=false means the source is unusable and the caller
// should substitute a fallback.
func (t *Texturator) addDst(id core.ImageID, args core.Args, o *op) (string, bool) {
	o.isNew = false

	srcName, mime := t.cache.ImageName(id)
	if srcName == "" {
		return "", false
	}

	// Find or add the source image.
	s, existed := t.srcs[id]
	if !existed {
		s = newSrc()
		s.name = srcName
		s.mime = mime
		t.srcs[id] = s
		// Verify the source file exists.  The record stays either way so
		// the error is logged only once per image.
		if !t.cache.ImageExists(id) {
			t.logger.Error("missing source image", "image", srcName)
			return "", false
		}
	}
	o.src = s

	// Generate a unique destination name based on conversion args.
	dstSuffix := t.getDstSuffix(args, id, s, o)
	if s.state == srcStateMissing {
		// A source already known to be absent or undecodable always falls
		// back, so repeated references keep returning the fallback name.
		return "", false
	}
	newName := addFileNameSuffix(srcName, dstSuffix)

	// Choose the image type based on the source type and presence of alpha.
	dstMime := mime
	isSupportedOutputType := dstMime == codec.MimeJPEG || dstMime == codec.MimePNG
	overrideJpg := t.settings.PreferJpeg && dstMime != codec.MimeJPEG
	if !isSupportedOutputType || overrideJpg {
		if args.AlphaMode == core.AlphaOpaque ||
			t.getComponentContent(core.ChannelA, id, s) == pixel.ContentSolid1 {
			dstMime = codec.MimeJPEG
		} else {
			dstMime = codec.MimePNG
		}
	}
	if o.passMask&passAddAlpha != 0 {
		dstMime = codec.MimePNG
	}
	newName = codec.SetExtension(newName, dstMime)

	// Find or add a destination entry keyed by its unique name.
	if _, ok := t.dsts[newName]; ok {
		return newName, true
	}
	t.dsts[newName] = struct{}{}
	o.isNew = true

	o.dstPath = filepath.Join(t.dstDir, newName)
	if dstSuffix == "" && dstMime == mime {
		if t.settings.LimitTotalImageDecompressedSize != 0 {
			// The source image must be loaded to determine size info.
			t.loadSrc(id, s)
		}
		o.directCopy = true
		o.needCopy = !t.cache.IsImageAtPath(id, t.dstDir, newName)
		return newName, true
	}

	t.loadSrc(id, s)
	if s.state == srcStateMissing {
		return "", false
	}

	return newName, true
}

// addFallback creates the constant-color fallback file on first reference
// and returns its name.
func (t *Texturator) addFallback(fallback core.Fallback) string {
	info := &fallbackInfos[fallback]
	if _, ok := t.dsts[info.name]; ok {
		return info.name
	}
	t.dsts[info.name] = struct{}{}

	img := &pixel.Image{}
	if info.rOnly {
		img.CreateR1x1(info.color[0])
	} else {
		img.Create1x1(info.color[:], 3)
	}

	dstPath := filepath.Join(t.dstDir, info.name)
	if t.prepareWrite(dstPath) {
		if err := img.Write(dstPath, &t.settings, t.writer, false); err != nil {
			t.logger.Error("image write failed", "path", dstPath, "error", err.Error())
		}
	}
	return info.name
}

// prepareWrite refuses paths that would stomp a source file, creates the
// destination directory, and records the bookkeeping for the host.
func (t *Texturator) prepareWrite(dstPath string) bool {
	if t.cache.IsSourcePath(dstPath) {
		t.logger.Error("destination would stomp source", "path", dstPath)
		return false
	}
	created, err := createDirsForFile(dstPath)
	if err != nil {
		t.logger.Error("directory create failed", "path", dstPath, "error", err.Error())
		return false
	}
	t.written = append(t.written, dstPath)
	t.createdDirs = append(t.createdDirs, created...)
	return true
}

// createDirsForFile creates the directory chain for path and returns the
// directories that did not previously exist, deepest last.
func createDirsForFile(path string) ([]string, error) {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil, nil
	}
	var missing []string
	for d := dir; d != "." && d != string(filepath.Separator); d = filepath.Dir(d) {
		if _, err := os.Stat(d); err == nil {
			break
		}
		missing = append(missing, d)
	}
	if len(missing) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	// Reverse to shallow-first order.
	for i, j := 0, len(missing)-1; i < j; i, j = i+1, j-1 {
		missing[i], missing[j] = missing[j], missing[i]
	}
	return missing, nil
}
