// Package vips provides a libvips-backed codec.Writer.  Unlike the stdlib
// writer it honors the full PNG compression-level range and can turn JPEG
// chroma subsampling off: subsamp 0 writes without subsampling, while 1 and 2
// both select libvips' subsampling mode (4:2:2 and 4:2:0 are not told
// apart).  It requires CGO and the libvips runtime, so it is opt-in: pass it
// to the pipeline with SetWriter.
package vips

import (
	"os"
	"runtime"

	govips "github.com/davidbyttow/govips/v2/vips"

	"github.com/Skryldev/texture-pipeline/codec"
	apperrors "github.com/Skryldev/texture-pipeline/errors"
)

// WriterConfig configures the libvips writer backend.
type WriterConfig struct {
	MaxCacheSize int
	MaxWorkers   int
	ReportLeaks  bool
}

// Writer encodes packed component buffers with libvips.
type Writer struct {
	cfg WriterConfig
}

// NewWriter initialises libvips and returns a ready Writer.  Call
// Shutdown() when the process exits.
func NewWriter(cfg WriterConfig) *Writer {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = runtime.NumCPU()
	}
	govips.Startup(&govips.Config{
		ConcurrencyLevel: cfg.MaxWorkers,
		MaxCacheSize:     cfg.MaxCacheSize,
		ReportLeaks:      cfg.ReportLeaks,
	})
	return &Writer{cfg: cfg}
}

// Shutdown releases all libvips resources.  Call once at process exit.
func (w *Writer) Shutdown() {
	govips.Shutdown()
}

// WritePNG implements codec.Writer.
func (w *Writer) WritePNG(path string, width, height, channels int, pix []uint8, level int) error {
	ref, err := imageFromBuffer(width, height, channels, pix)
	if err != nil {
		return err
	}
	defer ref.Close()

	params := govips.NewPngExportParams()
	params.Compression = clampLevel(level)
	buf, _, err := ref.ExportPng(params)
	if err != nil {
		return apperrors.Wrap(apperrors.CategoryEncode, "vips.png.write", err)
	}
	return writeFile(path, buf)
}

// WriteJPEG implements codec.Writer.
func (w *Writer) WriteJPEG(path string, width, height, channels int, pix []uint8, quality, subsamp int) error {
	ref, err := imageFromBuffer(width, height, channels, pix)
	if err != nil {
		return err
	}
	defer ref.Close()

	params := govips.NewJpegExportParams()
	params.Quality = quality
	if subsamp == 0 {
		params.SubsampleMode = govips.VipsForeignSubsampleOff
	} else {
		params.SubsampleMode = govips.VipsForeignSubsampleOn
	}
	buf, _, err := ref.ExportJpeg(params)
	if err != nil {
		return apperrors.Wrap(apperrors.CategoryEncode, "vips.jpg.write", err)
	}
	return writeFile(path, buf)
}

func imageFromBuffer(width, height, channels int, pix []uint8) (*govips.ImageRef, error) {
	// libvips has no 2-band RGB notion for our packed layouts; promote the
	// internal-only 2-channel case before export.
	if channels == 2 {
		expanded := make([]uint8, width*height*3)
		for p, s := 0, 0; s < len(pix); p, s = p+3, s+2 {
			expanded[p] = pix[s]
			expanded[p+1] = pix[s+1]
		}
		pix, channels = expanded, 3
	}
	ref, err := govips.NewImageFromMemory(pix, width, height, channels)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryEncode, "vips.import", err)
	}
	return ref, nil
}

func clampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > 9 {
		return 9
	}
	return level
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperrors.Wrap(apperrors.CategoryStorage, "vips.write", err)
	}
	return nil
}

var _ codec.Writer = (*Writer)(nil)
