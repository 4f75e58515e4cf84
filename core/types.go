package core

import "github.com/Skryldev/texture-pipeline/config"

// ImageID is the opaque, stable identifier assigned to a source image by the
// glTF loader.  Identity during planning uses only this id, never a name.
type ImageID int32

// ImageIDNone marks the absence of a source image.
const ImageIDNone ImageID = -1

// ColorChannel indexes RGBA component ordering in uncompressed buffers.
type ColorChannel uint8

const (
	ChannelR ColorChannel = iota
	ChannelG
	ChannelB
	ChannelA
	ChannelCount
)

// ColorSpace selects one of the two supported RGB encodings.  Alpha is
// always linear.
type ColorSpace uint8

const (
	ColorSpaceLinear ColorSpace = iota
	ColorSpaceSrgb
)

// ColorF is a floating-point RGBA color.
type ColorF struct {
	R, G, B, A float32
}

var (
	ColorFZero = ColorF{0, 0, 0, 0}
	ColorFOne  = ColorF{1, 1, 1, 1}
)

// Channels returns the components in channel order.
func (c ColorF) Channels() [4]float32 { return [4]float32{c.R, c.G, c.B, c.A} }

// ColorI is a quantized integer RGBA color, usable as a map key.
type ColorI [4]int32

// Usage identifies how a material input consumes a texture, which in turn
// selects channel extraction, color spaces, and the output name suffix.
type Usage uint8

const (
	UsageDefault Usage = iota
	UsageLinear
	UsageDiffToBase
	UsageNorm
	UsageOccl
	UsageMetal
	UsageRough
	UsageSpec
	UsageSpecToMetal
	UsageGloss
	UsageGlossToRough
	UsageUnlitA
	UsageCount
)

// AlphaMode mirrors the glTF material alpha modes.
type AlphaMode uint8

const (
	AlphaOpaque AlphaMode = iota
	AlphaMask
	AlphaBlend
)

// Fallback selects the constant-color texture substituted for a missing or
// undecodable source.
type Fallback uint8

const (
	FallbackBlack Fallback = iota
	FallbackMagenta
	FallbackR0
	FallbackR1
	FallbackCount
)

// Args describes one requested texture transform.  Two references with equal
// quantized Args against the same source always map to the same output file.
type Args struct {
	Usage       Usage
	Scale       ColorF
	Bias        ColorF
	AlphaMode   AlphaMode
	AlphaCutoff float32
	Fallback    Fallback
	// Opacity is the material-level opacity multiplier.  It is carried for
	// the shader-graph builder; the pixel pipeline does not consume it.
	Opacity float32
	Resize  config.ResizeSettings
}

// DefaultArgs returns Args with identity scale/bias and no resizing.
func DefaultArgs(usage Usage) Args {
	return Args{
		Usage:    usage,
		Scale:    ColorFOne,
		Bias:     ColorFZero,
		Fallback: FallbackBlack,
		Opacity:  1.0,
		Resize:   config.DefaultResize(),
	}
}
