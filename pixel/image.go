// Package pixel provides the quantized 8-bit image container and the linear
// floating-point image the pipeline's numeric passes run on.
package pixel

import (
	"math"
	"strings"

	"github.com/Skryldev/texture-pipeline/codec"
	"github.com/Skryldev/texture-pipeline/colorconv"
	"github.com/Skryldev/texture-pipeline/config"
	"github.com/Skryldev/texture-pipeline/core"
)

// Component is a single channel value (R, G, B, or A).
type Component = uint8

// ComponentMax is the largest component value.
const ComponentMax Component = colorconv.ComponentMax

// ComponentToFloat converts a component to [0, 1].
func ComponentToFloat(c Component) float32 {
	return float32(c) * colorconv.ComponentToFloatScale
}

// FloatToComponent converts a [0, 1] value to a component, clamping.
func FloatToComponent(f float32) Component {
	if f <= 0 {
		return 0
	}
	if f >= 1 {
		return ComponentMax
	}
	return Component(f*float32(ComponentMax) + 0.5)
}

// Transform selects the per-value mapping applied while extracting a channel.
type Transform uint8

const (
	TransformNone   Transform = iota // copy channel as-is
	TransformInvert                  // 1.0 - channel
)

// Image is a tightly packed width*height*channels byte buffer with 1-4
// channels in R,G,B,A order.  2-channel images occur only internally.
type Image struct {
	width    int
	height   int
	channels int
	buf      []Component
}

// IsValid reports whether the image holds pixels.
func (im *Image) IsValid() bool { return im.width != 0 }

// Width returns the image width in pixels.
func (im *Image) Width() int { return im.width }

// Height returns the image height in pixels.
func (im *Image) Height() int { return im.height }

// ChannelCount returns the number of components per pixel.
func (im *Image) ChannelCount() int { return im.channels }

// Data exposes the packed component buffer.
func (im *Image) Data() []Component { return im.buf }

// Clear resets the image to the empty state.
func (im *Image) Clear() {
	im.width = 0
	im.height = 0
	im.channels = 0
	im.buf = nil
}

// Read decodes an encoded payload.  The codec is chosen by header sniffing;
// mime is advisory only.
func (im *Image) Read(data []byte, mime string) error {
	im.Clear()
	w, h, ch, pix, err := codec.Decode(data, mime)
	if err != nil {
		return err
	}
	im.width = w
	im.height = h
	im.channels = ch
	im.buf = pix
	return nil
}

// Write encodes the image to path: ".png" extensions produce a PNG at the
// configured compression level, anything else a JPEG.  Normal maps use the
// higher JPEG quality and no chroma subsampling.
func (im *Image) Write(path string, s *config.Settings, w codec.Writer, isNorm bool) error {
	if strings.HasSuffix(strings.ToLower(path), ".png") {
		return w.WritePNG(path, im.width, im.height, im.channels, im.buf, s.PngLevel)
	}
	quality, subsamp := s.JpgQuality, s.JpgSubsamp
	if isNorm {
		quality, subsamp = s.JpgQualityNorm, 0
	}
	return w.WriteJPEG(path, im.width, im.height, im.channels, im.buf, quality, subsamp)
}

// CreateFromChannel extracts a single channel of src, optionally inverting.
func (im *Image) CreateFromChannel(src *Image, channel core.ColorChannel, transform Transform) {
	im.Clear()
	if int(channel) >= src.channels {
		// Sources missing the requested channel read from the first.
		channel = core.ChannelR
	}
	size := src.width * src.height
	im.buf = make([]Component, size)
	s := int(channel)
	stride := src.channels
	if transform == TransformInvert {
		for d := 0; d < size; d++ {
			im.buf[d] = ComponentMax - src.buf[s]
			s += stride
		}
	} else {
		for d := 0; d < size; d++ {
			im.buf[d] = src.buf[s]
			s += stride
		}
	}
	im.width = src.width
	im.height = src.height
	im.channels = 1
}

// CreateFromRGB copies the RGB channels of src, dropping alpha.
func (im *Image) CreateFromRGB(src *Image) {
	im.Clear()
	const dstChannels = 3
	size := src.width * src.height * dstChannels
	im.buf = make([]Component, size)
	s := 0
	for d := 0; d < size; d += dstChannels {
		im.buf[d] = src.buf[s]
		im.buf[d+1] = src.buf[s+1]
		im.buf[d+2] = src.buf[s+2]
		s += src.channels
	}
	im.width = src.width
	im.height = src.height
	im.channels = dstChannels
}

// CreateFromRGBA promotes src to 4 channels, filling missing alpha with
// defaultAlpha.
func (im *Image) CreateFromRGBA(src *Image, defaultAlpha Component) {
	im.Clear()
	const dstChannels = 4
	size := src.width * src.height * dstChannels
	im.buf = make([]Component, size)
	s := 0
	if src.channels == 3 {
		for d := 0; d < size; d += dstChannels {
			im.buf[d] = src.buf[s]
			im.buf[d+1] = src.buf[s+1]
			im.buf[d+2] = src.buf[s+2]
			im.buf[d+3] = defaultAlpha
			s += 3
		}
	} else {
		for d := 0; d < size; d += dstChannels {
			im.buf[d] = src.buf[s]
			im.buf[d+1] = src.buf[s+1]
			im.buf[d+2] = src.buf[s+2]
			im.buf[d+3] = src.buf[s+3]
			s += src.channels
		}
	}
	im.width = src.width
	im.height = src.height
	im.channels = dstChannels
}

// CreateFromMasked copies src with each channel masked and replaced:
// (c & keep) | (replace & ^keep).  Used for unlit opacity, which keeps only
// alpha and zeroes RGB.
func (im *Image) CreateFromMasked(src *Image, keepMask, replaceValue [4]Component) {
	im.Clear()
	channels := src.channels
	pixelCount := src.width * src.height
	im.buf = make([]Component, pixelCount*channels)

	var orValue [4]Component
	for i := range orValue {
		orValue[i] = replaceValue[i] &^ keepMask[i]
	}

	s, d := 0, 0
	for p := 0; p < pixelCount; p++ {
		for i := 0; i < channels; i++ {
			im.buf[d] = (src.buf[s] & keepMask[i]) | orValue[i]
			s++
			d++
		}
	}
	im.width = src.width
	im.height = src.height
	im.channels = channels
}

// Clone deep-copies src into im.
func (im *Image) Clone(src *Image) {
	im.Clear()
	im.width = src.width
	im.height = src.height
	im.channels = src.channels
	im.buf = append([]Component(nil), src.buf...)
}

// Create1x1 builds a single-pixel image of the given color.
func (im *Image) Create1x1(color []Component, channels int) {
	im.Clear()
	im.buf = append([]Component(nil), color[:channels]...)
	im.width = 1
	im.height = 1
	im.channels = channels
}

// CreateR1x1 builds a single-pixel, single-channel image.
func (im *Image) CreateR1x1(r Component) {
	im.Create1x1([]Component{r}, 1)
}

// CreateWxH builds a solid-color image of the given size.
func (im *Image) CreateWxH(width, height int, color []Component, channels int) {
	im.Clear()
	im.buf = make([]Component, width*height*channels)
	d := 0
	for p := 0; p < width*height; p++ {
		for i := 0; i < channels; i++ {
			im.buf[d] = color[i]
			d++
		}
	}
	im.width = width
	im.height = height
	im.channels = channels
}

// ChannelEquals reports whether every value in the channel equals value.
// Channels past the image's count trivially match.
func (im *Image) ChannelEquals(channel core.ColorChannel, value Component) bool {
	if int(channel) >= im.channels {
		return true
	}
	for i := int(channel); i < len(im.buf); i += im.channels {
		if im.buf[i] != value {
			return false
		}
	}
	return true
}

// NormalizeNormals rescales each pixel's XYZ direction to unit length.
// Requires at least 3 channels.
func (im *Image) NormalizeNormals() {
	const (
		inOffset  = -0.5 * float32(255)
		outScale  = 0.5 * float32(255)
		outOffset = 0.5*float32(255) + 0.5
	)
	channels := im.channels
	for i := 0; i < len(im.buf); i += channels {
		x := float32(im.buf[i]) + inOffset
		y := float32(im.buf[i+1]) + inOffset
		z := float32(im.buf[i+2]) + inOffset
		// m can never be 0 because 0 isn't precisely expressible in the
		// source quantization.
		m := float32(math.Sqrt(float64(x*x + y*y + z*z)))
		s := outScale / m
		im.buf[i] = Component(x*s + outOffset)
		im.buf[i+1] = Component(y*s + outOffset)
		im.buf[i+2] = Component(z*s + outOffset)
	}
}

// ApplyAlphaCutoff maps every alpha value to 0 or 255 by the cutoff.
func (im *Image) ApplyAlphaCutoff(cutoff Component) {
	channels := im.channels
	for i := int(core.ChannelA); i < len(im.buf); i += channels {
		if im.buf[i] >= cutoff {
			im.buf[i] = ComponentMax
		} else {
			im.buf[i] = 0
		}
	}
}

// Invert maps every component to 255-c.
func (im *Image) Invert() {
	for i, c := range im.buf {
		im.buf[i] = ComponentMax - c
	}
}

// ToFloat converts the buffer to float components.  With srgbToLinear set,
// 4-channel images convert RGB through the sRGB table while alpha stays
// linear; other channel counts convert every component through the table.
func (im *Image) ToFloat(srgbToLinear bool) []float32 {
	out := make([]float32, len(im.buf))
	if srgbToLinear {
		if im.channels == int(core.ChannelCount) {
			for i := 0; i < len(im.buf); i += 4 {
				out[i] = colorconv.SrgbToLinear(im.buf[i])
				out[i+1] = colorconv.SrgbToLinear(im.buf[i+1])
				out[i+2] = colorconv.SrgbToLinear(im.buf[i+2])
				out[i+3] = ComponentToFloat(im.buf[i+3])
			}
		} else {
			for i, c := range im.buf {
				out[i] = colorconv.SrgbToLinear(c)
			}
		}
		return out
	}
	for i, c := range im.buf {
		out[i] = ComponentToFloat(c)
	}
	return out
}

// CreateFromFloat quantizes float components back into the image.  The
// linearToSrgb flag mirrors ToFloat's alpha handling.
func (im *Image) CreateFromFloat(data []float32, width, height, channels int, linearToSrgb bool) {
	im.Clear()
	im.buf = make([]Component, width*height*channels)
	if linearToSrgb {
		if channels == int(core.ChannelCount) {
			for i := 0; i < len(data); i += 4 {
				im.buf[i] = colorconv.LinearToSrgb(data[i])
				im.buf[i+1] = colorconv.LinearToSrgb(data[i+1])
				im.buf[i+2] = colorconv.LinearToSrgb(data[i+2])
				im.buf[i+3] = FloatToComponent(data[i+3])
			}
		} else {
			for i, f := range data {
				im.buf[i] = colorconv.LinearToSrgb(f)
			}
		}
	} else {
		for i, f := range data {
			im.buf[i] = FloatToComponent(f)
		}
	}
	im.width = width
	im.height = height
	im.channels = channels
}
