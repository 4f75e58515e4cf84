package texturator

import (
	"github.com/Skryldev/texture-pipeline/core"
	"github.com/Skryldev/texture-pipeline/pixel"
)

// Source channel assignments for the metallic-roughness and
// specular-glossiness workflows.
const (
	channelOcclusion  = core.ChannelR
	channelRoughness  = core.ChannelG
	channelMetallic   = core.ChannelB
	channelGlossiness = core.ChannelA
)

// Processing passes as pass-mask bits.  The executor applies them in its own
// fixed order: channel selection (remove/add alpha), the float passes (color
// space, scale/bias, spec-to-metal, resize), then normal renormalization and
// alpha cutoff.
const (
	passRemoveAlpha = 1 << iota
	passAddAlpha
	passColorSpace
	passNormalizeNormals
	passAlphaCutoff
	passScaleBias
	passSpecToMetal
	passResize
)

// Passes that run in the float domain.
const passMaskFloat = passColorSpace | passScaleBias | passSpecToMetal | passResize

// relevanceMask marks which source channels matter to an output.
type relevanceMask uint8

const (
	relevanceR relevanceMask = 1 << iota
	relevanceG
	relevanceB
	relevanceA
	relevanceRGB  = relevanceR | relevanceG | relevanceB
	relevanceRGBA = relevanceRGB | relevanceA
)

// usageInfo is the per-usage policy record.  The table below is the single
// source of truth for suffixes, channel budgets, and color spaces.
type usageInfo struct {
	// Destination image name suffix.
	dstSuffix string
	// Max number of color components in the destination image.
	dstComponentMax int
	// Which channels in the source image are relevant to the output.
	relevance relevanceMask
	// Color space for source and destination RGB components.  A is always
	// linear.
	srcRGBColorSpace core.ColorSpace
	dstRGBColorSpace core.ColorSpace
}

var usageInfos = [core.UsageCount]usageInfo{
	core.UsageDefault:      {"", 4, relevanceRGBA, core.ColorSpaceSrgb, core.ColorSpaceSrgb},
	core.UsageLinear:       {"_lin", 4, relevanceRGBA, core.ColorSpaceSrgb, core.ColorSpaceLinear},
	core.UsageDiffToBase:   {"_base", 4, relevanceRGBA, core.ColorSpaceSrgb, core.ColorSpaceSrgb},
	core.UsageNorm:         {"", 3, relevanceRGB, core.ColorSpaceLinear, core.ColorSpaceLinear},
	core.UsageOccl:         {"_occl", 1, relevanceR, core.ColorSpaceLinear, core.ColorSpaceLinear},
	core.UsageMetal:        {"_metal", 1, relevanceB, core.ColorSpaceLinear, core.ColorSpaceLinear},
	core.UsageRough:        {"_rough", 1, relevanceG, core.ColorSpaceLinear, core.ColorSpaceLinear},
	core.UsageSpec:         {"_spec", 3, relevanceRGB, core.ColorSpaceSrgb, core.ColorSpaceSrgb},
	core.UsageSpecToMetal:  {"_metal", 3, relevanceRGB, core.ColorSpaceSrgb, core.ColorSpaceLinear},
	core.UsageGloss:        {"_gloss", 1, relevanceA, core.ColorSpaceLinear, core.ColorSpaceLinear},
	core.UsageGlossToRough: {"_rough", 1, relevanceA, core.ColorSpaceLinear, core.ColorSpaceLinear},
	core.UsageUnlitA:       {"_unlit_a", 4, relevanceA, core.ColorSpaceSrgb, core.ColorSpaceSrgb},
}

// fallbackInfo describes one generated constant-color fallback texture.
type fallbackInfo struct {
	name  string
	rOnly bool
	color [3]pixel.Component
}

var fallbackInfos = [core.FallbackCount]fallbackInfo{
	core.FallbackBlack:   {"fallback_black.png", false, [3]pixel.Component{0, 0, 0}},
	core.FallbackMagenta: {"fallback_magenta.png", false, [3]pixel.Component{255, 0, 255}},
	core.FallbackR0:      {"fallback_r0.png", true, [3]pixel.Component{0, 0, 0}},
	core.FallbackR1:      {"fallback_r1.png", true, [3]pixel.Component{255, 255, 255}},
}

func copyImageRGB(src *pixel.Image) *pixel.Image {
	dst := &pixel.Image{}
	dst.CreateFromRGB(src)
	return dst
}

func copyImageRGBA(src *pixel.Image) *pixel.Image {
	dst := &pixel.Image{}
	dst.CreateFromRGBA(src, pixel.ComponentMax)
	return dst
}

func copyImageChannel(src *pixel.Image, channel core.ColorChannel, transform pixel.Transform) *pixel.Image {
	dst := &pixel.Image{}
	dst.CreateFromChannel(src, channel, transform)
	return dst
}

func copyImageMasked(src *pixel.Image, keepMask, replaceValue [4]pixel.Component) *pixel.Image {
	dst := &pixel.Image{}
	dst.CreateFromMasked(src, keepMask, replaceValue)
	return dst
}

// copyImageByUsage builds the quantized working image for a usage, applying
// the channel selection the usage implies.
func copyImageByUsage(src *pixel.Image, usage core.Usage, passMask uint32) *pixel.Image {
	switch usage {
	case core.UsageDiffToBase:
		return copyImageRGB(src)
	case core.UsageOccl:
		return copyImageChannel(src, channelOcclusion, pixel.TransformNone)
	case core.UsageMetal:
		return copyImageChannel(src, channelMetallic, pixel.TransformNone)
	case core.UsageRough:
		return copyImageChannel(src, channelRoughness, pixel.TransformNone)
	case core.UsageSpec:
		return copyImageRGB(src)
	case core.UsageSpecToMetal:
		return copyImageRGB(src)
	case core.UsageGloss:
		return copyImageChannel(src, channelGlossiness, pixel.TransformNone)
	case core.UsageGlossToRough:
		return copyImageChannel(src, channelGlossiness, pixel.TransformNone)
	case core.UsageUnlitA:
		return copyImageMasked(src,
			[4]pixel.Component{0, 0, 0, 0xFF}, [4]pixel.Component{0, 0, 0, 0})
	default:
		// UsageDefault, UsageLinear, UsageNorm.
		switch {
		case passMask&passRemoveAlpha != 0:
			return copyImageRGB(src)
		case passMask&passAddAlpha != 0:
			return copyImageRGBA(src)
		default:
			dst := &pixel.Image{}
			dst.Clone(src)
			return dst
		}
	}
}

// whiteImageByUsage synthesizes the constant side of a spec-to-metal pair:
// a white image at the partner's size with the usage's channel budget.
func whiteImageByUsage(partner *pixel.Image, usage core.Usage) *pixel.Image {
	white := []pixel.Component{
		pixel.ComponentMax, pixel.ComponentMax, pixel.ComponentMax, pixel.ComponentMax,
	}
	channels := partner.ChannelCount()
	if m := usageInfos[usage].dstComponentMax; channels > m {
		channels = m
	}
	dst := &pixel.Image{}
	dst.CreateWxH(partner.Width(), partner.Height(), white, channels)
	return dst
}
