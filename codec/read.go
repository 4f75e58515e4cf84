package codec

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	apperrors "github.com/Skryldev/texture-pipeline/errors"

	// The generic fallback reader accepts any format the image registry
	// knows about; these cover the formats that show up in the wild
	// alongside PNG/JPEG/GIF.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode sniffs the header of data and decodes it with the matching reader,
// falling back to the generic reader for anything unrecognized.  The mime
// hint is advisory only.  The result is a tightly packed buffer with 1, 3,
// or 4 channels in R,G,B,A order.
func Decode(data []byte, mime string) (width, height, channels int, pix []uint8, err error) {
	_ = mime
	switch {
	case HasPNGHeader(data):
		return DecodePNG(data)
	case HasJPEGHeader(data):
		return DecodeJPEG(data)
	case HasGIFHeader(data):
		return DecodeGIF(data)
	}
	return DecodeGeneric(data)
}

// DecodePNG decodes a PNG payload.  Palette and low-bit-depth images are
// expanded to 8-bit channels, 16-bit channels are scaled down, and grayscale
// is promoted to RGB, so the result always has 3 or 4 channels.
func DecodePNG(data []byte) (int, int, int, []uint8, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, 0, 0, nil, apperrors.Wrap(apperrors.CategoryDecode, "png.read", err)
	}
	channels := 3
	if !isOpaque(img) {
		channels = 4
	}
	w, h, pix := imageToBuffer(img, channels)
	return w, h, channels, pix, nil
}

// DecodeJPEG decodes a JPEG payload to 1 (grayscale) or 3 channels.
func DecodeJPEG(data []byte) (int, int, int, []uint8, error) {
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, 0, 0, nil, apperrors.Wrap(apperrors.CategoryDecode, "jpg.read", err)
	}
	channels := 3
	if _, gray := img.(*image.Gray); gray {
		channels = 1
	}
	w, h, pix := imageToBuffer(img, channels)
	return w, h, channels, pix, nil
}

// DecodeGeneric decodes any format registered with the stdlib image
// registry (notably WebP, BMP, and TIFF via golang.org/x/image).
func DecodeGeneric(data []byte) (int, int, int, []uint8, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, 0, 0, nil, apperrors.Wrap(apperrors.CategoryDecode, "generic.read",
			fmt.Errorf("%w: %v", apperrors.ErrUnsupportedFormat, err))
	}
	channels := 3
	switch {
	case format == "gif":
		channels = 4
	case isGray(img):
		channels = 1
	case !isOpaque(img):
		channels = 4
	}
	w, h, pix := imageToBuffer(img, channels)
	return w, h, channels, pix, nil
}

func isGray(img image.Image) bool {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return true
	}
	return false
}

func isOpaque(img image.Image) bool {
	type opaquer interface{ Opaque() bool }
	if o, ok := img.(opaquer); ok {
		return o.Opaque()
	}
	return false
}

// imageToBuffer flattens img into a packed component buffer with the given
// channel count.
func imageToBuffer(img image.Image, channels int) (int, int, []uint8) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pix := make([]uint8, w*h*channels)

	// Fast path for the common NRGBA layout.
	if src, ok := img.(*image.NRGBA); ok && channels == 4 {
		for y := 0; y < h; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+w*4]
			copy(pix[y*w*4:], row)
		}
		return w, h, pix
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			switch channels {
			case 1:
				pix[i] = uint8(r >> 8)
			case 3:
				pix[i] = uint8(r >> 8)
				pix[i+1] = uint8(g >> 8)
				pix[i+2] = uint8(b >> 8)
			case 4:
				// RGBA() returns premultiplied components; recover the
				// straight-alpha color.
				if a == 0 {
					pix[i], pix[i+1], pix[i+2], pix[i+3] = 0, 0, 0, 0
				} else {
					pix[i] = uint8((r * 0xFFFF / a) >> 8)
					pix[i+1] = uint8((g * 0xFFFF / a) >> 8)
					pix[i+2] = uint8((b * 0xFFFF / a) >> 8)
					pix[i+3] = uint8(a >> 8)
				}
			}
			i += channels
		}
	}
	return w, h, pix
}
