package codec

import (
	"bytes"
	"fmt"
	"image/color"
	"image/gif"

	apperrors "github.com/Skryldev/texture-pipeline/errors"
)

// DecodeGIF decodes the first frame of a GIF to RGBA.  The canvas is
// initialized to the global background color (transparent when the
// background index is the transparent color), then the frame is composited
// at its declared offset.  Interlaced line order and the transparent-color
// index are handled by the underlying decoder.  Structural errors (bad
// records, frame bounds outside the canvas) are reported as decode failures.
func DecodeGIF(data []byte) (int, int, int, []uint8, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return 0, 0, 0, nil, apperrors.Wrap(apperrors.CategoryDecode, "gif.read",
			fmt.Errorf("%w: %v", apperrors.ErrGifStructure, err))
	}
	if len(g.Image) == 0 {
		return 0, 0, 0, nil, apperrors.New(apperrors.CategoryDecode, "gif.read",
			fmt.Errorf("%w: no image records", apperrors.ErrGifStructure))
	}

	width, height := g.Config.Width, g.Config.Height
	frame := g.Image[0]
	if width <= 0 || height <= 0 {
		// Pre-89a files may omit the logical screen size.
		width, height = frame.Bounds().Dx(), frame.Bounds().Dy()
	}
	fb := frame.Bounds()
	if fb.Min.X < 0 || fb.Min.Y < 0 || fb.Max.X > width || fb.Max.Y > height {
		return 0, 0, 0, nil, apperrors.New(apperrors.CategoryDecode, "gif.read",
			fmt.Errorf("%w: frame bounds %v exceed canvas %dx%d",
				apperrors.ErrGifStructure, fb, width, height))
	}

	// Initialize the canvas to the background color.
	bgR, bgG, bgB, bgA := backgroundColor(g, frame.Palette)
	pix := make([]uint8, width*height*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i] = bgR
		pix[i+1] = bgG
		pix[i+2] = bgB
		pix[i+3] = bgA
	}

	// Composite the first frame.  Palette entries carry transparency as
	// zero-alpha colors.
	for y := fb.Min.Y; y < fb.Max.Y; y++ {
		for x := fb.Min.X; x < fb.Max.X; x++ {
			c := color.NRGBAModel.Convert(frame.Palette[frame.ColorIndexAt(x, y)]).(color.NRGBA)
			i := (y*width + x) * 4
			if c.A == 0 {
				pix[i], pix[i+1], pix[i+2], pix[i+3] = 0, 0, 0, 0
			} else {
				pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, c.A
			}
		}
	}
	return width, height, 4, pix, nil
}

// backgroundColor resolves the global background color, falling back to
// opaque black when the global palette is absent or the index is invalid.
// The decoder zeroes the transparent entry only in the frame's own palette,
// so transparency of the background index is looked up there.
func backgroundColor(g *gif.GIF, framePalette color.Palette) (r, gr, b, a uint8) {
	a = 0xFF
	palette, ok := g.Config.ColorModel.(color.Palette)
	if !ok || int(g.BackgroundIndex) >= len(palette) {
		return
	}
	if bi := int(g.BackgroundIndex); bi < len(framePalette) {
		if _, _, _, fa := framePalette[bi].RGBA(); fa == 0 {
			// Background is the transparent color.
			return 0, 0, 0, 0
		}
	}
	c := color.NRGBAModel.Convert(palette[g.BackgroundIndex]).(color.NRGBA)
	return c.R, c.G, c.B, 0xFF
}
