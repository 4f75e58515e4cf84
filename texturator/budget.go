package texturator

import (
	"github.com/Skryldev/texture-pipeline/core"
	"github.com/Skryldev/texture-pipeline/pixel"
	"github.com/Skryldev/texture-pipeline/utils"
)

// estimateDecompressedImageSize approximates the GPU-resident footprint of
// one output image.  The iOS viewer uses R8 or RGBA8 surface formats with
// some sub-64 texture alignment (both determined experimentally), and mips
// add roughly a third on top of the base image.
func estimateDecompressedImageSize(image *pixel.Image, args core.Args, globalScale float32) int {
	width, height := getDstSize(image.Width(), image.Height(), args.Resize, globalScale)

	channels := image.ChannelCount()
	if m := usageInfos[args.Usage].dstComponentMax; channels > m {
		channels = m
	}
	alignedChannels := 4
	if channels == 1 {
		alignedChannels = 1
	}

	const alignSize = 64
	basePixels := utils.AlignUp(width, alignSize) * utils.AlignUp(height, alignSize)
	mipPixels := basePixels / 3
	return (basePixels + mipPixels) * alignedChannels
}

func (t *Texturator) estimateDecompressedJobSize(j *job, globalScale float32) int {
	size := 0
	switch j.typ {
	case jobAdd:
		o := &j.ops[0]
		if o.src != nil && o.src.image != nil {
			size += estimateDecompressedImageSize(o.src.image, o.args, globalScale)
		}
	case jobAddSpecToMetal:
		specOp := &j.ops[0]
		diffOp := &j.ops[1]
		specImage := specOp.src.image
		if specOp.isConstant {
			specImage = diffOp.src.image
		}
		diffImage := diffOp.src.image
		if diffOp.isConstant {
			diffImage = specOp.src.image
		}
		if specImage != nil {
			size += estimateDecompressedImageSize(specImage, specOp.args, globalScale)
		}
		if diffImage != nil {
			size += estimateDecompressedImageSize(diffImage, diffOp.args, globalScale)
		}
	}
	return size
}

// chooseGlobalScale searches for the largest scale at which the total
// decompressed footprint fits the configured limit.  The scale decreases
// linearly by the configured step down to the step itself, then that scale
// is locked in as a factor and the linear sequence restarts, e.g. with
// step=0.25: 1.0, 0.75, 0.50, 0.25, 0.25*0.75, 0.25*0.50, 0.25*0.25, ...
// The search also stops once no job's estimate changes between iterations
// (every texture is pinned at its size floor).
func (t *Texturator) chooseGlobalScale() float32 {
	decompressedLimit := t.settings.LimitTotalImageDecompressedSize
	if decompressedLimit == 0 {
		return 1.0
	}

	decompressedSizes := make([]int, len(t.jobs))
	scaleStep := t.settings.LimitTotalImageScaleStep
	if scaleStep <= 0 || scaleStep > 0.5 {
		scaleStep = 0.5
	}
	scalePower := float32(1.0)
	scaleIncrement := float32(1.0)
	for {
		globalScale := scalePower * scaleIncrement
		decompressedTotal := 0
		anyChanged := false
		for i := range t.jobs {
			decompressedSize := t.estimateDecompressedJobSize(&t.jobs[i], globalScale)
			decompressedTotal += decompressedSize
			if decompressedSizes[i] != decompressedSize {
				decompressedSizes[i] = decompressedSize
				anyChanged = true
			}
		}
		if decompressedTotal <= decompressedLimit {
			break
		}
		if !anyChanged {
			t.logger.Warn("image size limit not reachable",
				"jobs", len(t.jobs),
				"limit", decompressedLimit,
				"total", decompressedTotal)
			break
		}

		if scaleIncrement < 1.5*scaleStep {
			// Reached the end of the linear sequence.  Push the scale and
			// start over.
			scalePower = globalScale
			scaleIncrement = 1.0
		}
		scaleIncrement -= scaleStep
	}

	return scalePower * scaleIncrement
}
