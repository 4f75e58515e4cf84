package codec

import (
	"bufio"
	"image"
	"image/jpeg"
	"image/png"
	"os"

	apperrors "github.com/Skryldev/texture-pipeline/errors"
)

// Writer serializes packed component buffers to disk.  StdWriter is the
// stdlib-backed default; adapters/vips provides a libvips-backed
// implementation that can switch chroma subsampling on and off.
type Writer interface {
	WritePNG(path string, width, height, channels int, pix []uint8, level int) error
	WriteJPEG(path string, width, height, channels int, pix []uint8, quality, subsamp int) error
}

// StdWriter encodes with the standard library codecs.
type StdWriter struct{}

// WritePNG writes an 8-bit gray/RGB/RGBA PNG.  The level 0-9 is mapped onto
// the stdlib's coarser compression tiers.
func (StdWriter) WritePNG(path string, width, height, channels int, pix []uint8, level int) error {
	enc := png.Encoder{CompressionLevel: pngLevel(level)}
	img, err := bufferToImage(width, height, channels, pix)
	if err != nil {
		return err
	}
	return writeFile(path, "png.write", func(f *bufio.Writer) error {
		return enc.Encode(f, img)
	})
}

// WriteJPEG writes an 8-bit gray or RGB JPEG.  The stdlib encoder has a
// fixed subsampling mode, so subsamp is honored only by the vips writer.
func (StdWriter) WriteJPEG(path string, width, height, channels int, pix []uint8, quality, subsamp int) error {
	_ = subsamp
	img, err := bufferToImage(width, height, channels, pix)
	if err != nil {
		return err
	}
	return writeFile(path, "jpg.write", func(f *bufio.Writer) error {
		return jpeg.Encode(f, img, &jpeg.Options{Quality: quality})
	})
}

func pngLevel(level int) png.CompressionLevel {
	switch {
	case level <= 0:
		return png.NoCompression
	case level <= 3:
		return png.BestSpeed
	case level <= 6:
		return png.DefaultCompression
	default:
		return png.BestCompression
	}
}

// bufferToImage wraps a packed buffer in the matching stdlib image type
// without copying where the layouts agree.  Opaque NRGBA inputs are written
// by the PNG encoder as 24-bit RGB, matching the channel count on disk.
func bufferToImage(width, height, channels int, pix []uint8) (image.Image, error) {
	rect := image.Rect(0, 0, width, height)
	switch channels {
	case 1:
		return &image.Gray{Pix: pix, Stride: width, Rect: rect}, nil
	case 3:
		out := image.NewNRGBA(rect)
		si, di := 0, 0
		for p := 0; p < width*height; p++ {
			out.Pix[di] = pix[si]
			out.Pix[di+1] = pix[si+1]
			out.Pix[di+2] = pix[si+2]
			out.Pix[di+3] = 0xFF
			si += 3
			di += 4
		}
		return out, nil
	case 4:
		return &image.NRGBA{Pix: pix, Stride: width * 4, Rect: rect}, nil
	}
	return nil, apperrors.New(apperrors.CategoryEncode, "image.write", apperrors.ErrInvalidDimensions)
}

func writeFile(path, op string, encode func(*bufio.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return apperrors.Wrap(apperrors.CategoryStorage, op, err)
	}
	w := bufio.NewWriter(f)
	if err := encode(w); err != nil {
		f.Close()
		return apperrors.Wrap(apperrors.CategoryEncode, op, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return apperrors.Wrap(apperrors.CategoryStorage, op, err)
	}
	return f.Close()
}
