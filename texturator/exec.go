package texturator

import (
	"github.com/Skryldev/texture-pipeline/core"
	"github.com/Skryldev/texture-pipeline/pixel"
)

// applyFloatPasses runs the float-domain passes in pipeline order.
func applyFloatPasses(args core.Args, passMask uint32, width, height int, image *pixel.FloatImage) {
	if passMask&passScaleBias != 0 {
		if args.Usage == core.UsageNorm {
			image.ScaleBiasNormals(args.Scale, args.Bias)
		} else {
			image.ScaleBias(args.Scale, args.Bias)
		}
	}
	if passMask&passResize != 0 {
		image.Resize(width, height, resizePremulAlpha)
	}
}

func (t *Texturator) processJob(j *job) {
	switch j.typ {
	case jobAdd:
		t.processAdd(&j.ops[0])
	case jobAddSpecToMetal:
		t.processAddSpecToMetal(&j.ops[0], &j.ops[1])
	}
}

func (t *Texturator) processAdd(o *op) {
	// Copy the original file to the destination if it doesn't require any
	// processing.
	if o.directCopy {
		if o.needCopy {
			if err := t.cache.CopyImage(o.imageID, o.dstPath); err != nil {
				t.logger.Error("image write failed", "path", o.dstPath, "error", err.Error())
			}
		}
		return
	}

	passMask := o.passMask
	args := o.args

	// Generating a new image; apply conversions.
	image := copyImageByUsage(o.src.image, args.Usage, passMask)
	if passMask&passMaskFloat != 0 {
		info := &usageInfos[args.Usage]
		floatImage := pixel.NewFloatImage(image, info.srcRGBColorSpace)
		applyFloatPasses(args, passMask, o.resizeWidth, o.resizeHeight, floatImage)
		floatImage.CopyTo(info.dstRGBColorSpace, image)
	}
	if passMask&passNormalizeNormals != 0 {
		image.NormalizeNormals()
	}
	if args.Usage == core.UsageGlossToRough {
		image.Invert()
	}
	if passMask&passAlphaCutoff != 0 {
		image.ApplyAlphaCutoff(pixel.FloatToComponent(args.AlphaCutoff))
	}

	isNorm := args.Usage == core.UsageNorm
	if !isNorm {
		if solid, ok := image.AreChannelsSolid(t.settings.FixAccidentalAlpha); ok {
			// Replace solid black occlusion with solid white.
			if t.settings.BlackOcclusionIsWhite && args.Usage == core.UsageOccl &&
				solid[core.ChannelR] == 0 {
				solid[core.ChannelR] = pixel.ComponentMax
			}

			// Shrink solid textures to 1x1 to save space.
			image.Create1x1(solid[:], image.ChannelCount())
		}
	}

	if err := image.Write(o.dstPath, &t.settings, t.writer, isNorm); err != nil {
		t.logger.Error("image write failed", "path", o.dstPath, "error", err.Error())
	}
}

func (t *Texturator) processAddSpecToMetal(specOp, diffOp *op) {
	specArgs := specOp.args
	diffArgs := diffOp.args

	// Get specular color in transformed linear space.
	var specImage *pixel.Image
	if specOp.isConstant {
		specImage = whiteImageByUsage(diffOp.src.image, specArgs.Usage)
	} else {
		specImage = copyImageByUsage(specOp.src.image, specArgs.Usage, specOp.passMask)
	}
	specFloatImage := pixel.NewFloatImage(specImage, core.ColorSpaceSrgb)
	applyFloatPasses(specArgs, specOp.passMask,
		specOp.resizeWidth, specOp.resizeHeight, specFloatImage)

	// Get diffuse color in transformed linear space.
	var diffImage *pixel.Image
	if diffOp.isConstant {
		diffImage = whiteImageByUsage(specOp.src.image, diffArgs.Usage)
	} else {
		diffImage = copyImageByUsage(diffOp.src.image, diffArgs.Usage, diffOp.passMask)
	}
	diffFloatImage := pixel.NewFloatImage(diffImage, core.ColorSpaceSrgb)
	applyFloatPasses(diffArgs, diffOp.passMask,
		diffOp.resizeWidth, diffOp.resizeHeight, diffFloatImage)

	// Convert specular+diffuse --> metallic+base.
	metalFloatImage := &pixel.FloatImage{}
	pixel.ConvertSpecDiffToMetalBase(specFloatImage, diffFloatImage, metalFloatImage)

	// Write the metallic texture.
	if specOp.isNew {
		metalImage := &pixel.Image{}
		// The glTF spec stores the metallic channel as linear.  The
		// SpecGlossVsMetalRough reference sample encodes it in sRGB, so the
		// two models don't look quite alike; assuming that's an error in
		// the sample, we stick to the spec.
		metalFloatImage.CopyTo(core.ColorSpaceLinear, metalImage)
		if solid, ok := metalImage.AreChannelsSolid(t.settings.FixAccidentalAlpha); ok {
			metalImage.Create1x1(solid[:], 1)
		}
		if err := metalImage.Write(specOp.dstPath, &t.settings, t.writer, false); err != nil {
			t.logger.Error("image write failed", "path", specOp.dstPath, "error", err.Error())
			return
		}
	}

	// Write the base texture.
	if diffOp.isNew {
		baseImage := &pixel.Image{}
		diffFloatImage.CopyTo(core.ColorSpaceSrgb, baseImage)
		if diffOp.passMask&passAlphaCutoff != 0 {
			baseImage.ApplyAlphaCutoff(pixel.FloatToComponent(diffArgs.AlphaCutoff))
		}
		if solid, ok := baseImage.AreChannelsSolid(t.settings.FixAccidentalAlpha); ok {
			baseImage.Create1x1(solid[:], diffImage.ChannelCount())
		}
		if err := baseImage.Write(diffOp.dstPath, &t.settings, t.writer, false); err != nil {
			t.logger.Error("image write failed", "path", diffOp.dstPath, "error", err.Error())
			return
		}
	}
}
