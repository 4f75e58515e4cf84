package pixel

import (
	"github.com/Skryldev/texture-pipeline/colorconv"
	"github.com/Skryldev/texture-pipeline/core"
)

// FloatImage is the linear floating-point buffer the numeric passes operate
// on.  RGB components are converted through the sRGB tables on the way in
// and out when the corresponding color space is sRGB; alpha is always
// linear.
type FloatImage struct {
	width    int
	height   int
	channels int
	pix      []float32
}

// NewFloatImage converts src into float components interpreted in
// srcColorSpace.
func NewFloatImage(src *Image, srcColorSpace core.ColorSpace) *FloatImage {
	f := &FloatImage{}
	f.CopyFrom(src, srcColorSpace)
	return f
}

// Width returns the image width in pixels.
func (f *FloatImage) Width() int { return f.width }

// Height returns the image height in pixels.
func (f *FloatImage) Height() int { return f.height }

// ChannelCount returns the number of components per pixel.
func (f *FloatImage) ChannelCount() int { return f.channels }

// Pix exposes the packed float buffer.
func (f *FloatImage) Pix() []float32 { return f.pix }

// Reset reallocates the buffer for the given dimensions.
func (f *FloatImage) Reset(width, height, channels int) {
	f.width = width
	f.height = height
	f.channels = channels
	f.pix = make([]float32, width*height*channels)
}

// CopyFrom loads pixels from a quantized image.
func (f *FloatImage) CopyFrom(src *Image, srcColorSpace core.ColorSpace) {
	f.width = src.Width()
	f.height = src.Height()
	f.channels = src.ChannelCount()
	f.pix = src.ToFloat(srcColorSpace == core.ColorSpaceSrgb)
}

// CopyTo quantizes the pixels into dst.
func (f *FloatImage) CopyTo(dstColorSpace core.ColorSpace, dst *Image) {
	dst.CreateFromFloat(f.pix, f.width, f.height, f.channels,
		dstColorSpace == core.ColorSpaceSrgb)
}

// ScaleBias applies c = c*scale + bias per channel.
func (f *FloatImage) ScaleBias(scale, bias core.ColorF) {
	s := scale.Channels()
	b := bias.Channels()
	channels := f.channels
	for i := 0; i < len(f.pix); i += channels {
		for c := 0; c < channels; c++ {
			f.pix[i+c] = f.pix[i+c]*s[c] + b[c]
		}
	}
}

// ScaleBiasNormals applies scale/bias to a normal map.  Normals are
// transformed from [0,1]-space to [-1,1]-space for the scale and bias, then
// rescaled so the result fits within ±0.5 before re-encoding, preserving
// direction over magnitude.  The [-1,1] transform only affects bias, so it
// is folded in up front.
func (f *FloatImage) ScaleBiasNormals(scale, bias core.ColorF) {
	s0, s1, s2 := scale.R, scale.G, scale.B
	b0 := 0.5 * (bias.R - s0)
	b1 := 0.5 * (bias.G - s1)
	b2 := 0.5 * (bias.B - s2)

	channels := f.channels
	for i := 0; i < len(f.pix); i += channels {
		x := f.pix[i]*s0 + b0
		y := f.pix[i+1]*s1 + b1
		z := f.pix[i+2]*s2 + b2

		m := max4(0.5, absf(x), absf(y), absf(z))
		dstScale := 0.5 / m

		f.pix[i] = x*dstScale + 0.5
		f.pix[i+1] = y*dstScale + 0.5
		f.pix[i+2] = z*dstScale + 0.5
	}
}

// Resize shrinks (or grows) the image with the box-averaging filter.
func (f *FloatImage) Resize(width, height int, premulAlpha bool) {
	dst := make([]float32, width*height*f.channels)
	resizeImage(f.channels, premulAlpha, f.width, f.height, f.pix, width, height, dst)
	f.width = width
	f.height = height
	f.pix = dst
}

// ConvertSpecDiffToMetalBase converts a specular and diffuse image pair to a
// metallic image (at the specular resolution) and a base-color image
// (written in place of the diffuse pixels).  When the inputs differ in size,
// both are point-sampled on a common grid sized to the max of each axis.
func ConvertSpecDiffToMetalBase(inSpec *FloatImage, inDiffOutBase, outMetal *FloatImage) {
	const specChannels = 3

	specW, specH := inSpec.width, inSpec.height
	specPix := inSpec.pix

	diffW, diffH := inDiffOutBase.width, inDiffOutBase.height
	diffChannels := inDiffOutBase.channels
	diffBasePix := inDiffOutBase.pix

	outMetal.Reset(specW, specH, 1)
	metalPix := outMetal.pix

	if specW == diffW && specH == diffH {
		// Same size: iterate both sets of pixels directly.
		pixelCount := specW * specH
		for i := 0; i < pixelCount; i++ {
			spec := specPix[specChannels*i:]
			diffBase := diffBasePix[diffChannels*i:]
			colorconv.SpecDiffToMetalBase(spec, diffBase, &metalPix[i], diffBase)
		}
		return
	}

	// Pixels may be sampled multiple times, so base can't be written over
	// diffuse in place; sample from a copy.
	diffPix := append([]float32(nil), diffBasePix...)

	// Iterate at a sample rate high enough to touch each pixel of both
	// images.
	maxW, maxH := specW, specH
	if diffW > maxW {
		maxW = diffW
	}
	if diffH > maxH {
		maxH = diffH
	}
	xToU := 1 / float32(maxW)
	yToV := 1 / float32(maxH)
	for y := 0; y < maxH; y++ {
		v := float32(y) * yToV
		specY := clampIndex(int(v*float32(specH)+0.5), specH)
		diffY := clampIndex(int(v*float32(diffH)+0.5), diffH)
		rowSpec := specPix[specY*specChannels*specW:]
		rowDiff := diffPix[diffY*diffChannels*diffW:]
		rowMetal := metalPix[specY*specW:]
		rowBase := diffBasePix[diffY*diffChannels*diffW:]
		for x := 0; x < maxW; x++ {
			u := float32(x) * xToU
			specX := clampIndex(int(u*float32(specW)+0.5), specW)
			diffX := clampIndex(int(u*float32(diffW)+0.5), diffW)
			spec := rowSpec[specX*specChannels:]
			diff := rowDiff[diffX*diffChannels:]
			base := rowBase[diffX*diffChannels:]
			colorconv.SpecDiffToMetalBase(spec, diff, &rowMetal[specX], base)
		}
	}
}

func clampIndex(i, n int) int {
	if i >= n {
		return n - 1
	}
	return i
}

func absf(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

func max4(a, b, c, d float32) float32 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	if d > m {
		m = d
	}
	return m
}
