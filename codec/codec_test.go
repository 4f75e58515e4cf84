package codec

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// ── Test helpers ──────────────────────────────────────────────────────────────

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode test jpeg: %v", err)
	}
	return buf.Bytes()
}

func solidNRGBA(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// ── Sniffing ──────────────────────────────────────────────────────────────────

func TestSniffMime(t *testing.T) {
	pngData := encodePNG(t, solidNRGBA(2, 2, color.NRGBA{R: 10, A: 255}))
	jpgData := encodeJPEG(t, solidNRGBA(2, 2, color.NRGBA{G: 10, A: 255}))

	tests := []struct {
		data []byte
		want string
	}{
		{pngData, MimePNG},
		{jpgData, MimeJPEG},
		{[]byte("GIF89a......"), MimeGIF},
		{[]byte("GIF87a......"), MimeGIF},
		{[]byte("not an image"), ""},
		{nil, ""},
	}
	for _, tc := range tests {
		if got := SniffMime(tc.data); got != tc.want {
			t.Errorf("SniffMime(%.8q) = %q, want %q", tc.data, got, tc.want)
		}
	}
}

func TestSetExtension(t *testing.T) {
	tests := []struct {
		path, mime, want string
	}{
		{"tex.png", MimeJPEG, "tex.jpg"},
		{"tex.jpeg", MimeJPEG, "tex.jpg"},
		{"tex.gif", MimePNG, "tex.png"},
		{"tex", MimePNG, "tex.png"},
		{"tex.dat", MimeJPEG, "tex.dat.jpg"},
		{"tex.png", "", "tex.png"},
	}
	for _, tc := range tests {
		if got := SetExtension(tc.path, tc.mime); got != tc.want {
			t.Errorf("SetExtension(%q, %q) = %q, want %q", tc.path, tc.mime, got, tc.want)
		}
	}
}

// ── Readers ───────────────────────────────────────────────────────────────────

func TestDecodePNG_OpaqueIsRGB(t *testing.T) {
	data := encodePNG(t, solidNRGBA(4, 3, color.NRGBA{R: 1, G: 2, B: 3, A: 255}))
	w, h, ch, pix, err := Decode(data, MimePNG)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if w != 4 || h != 3 || ch != 3 {
		t.Fatalf("got %dx%d ch=%d, want 4x3 ch=3", w, h, ch)
	}
	if pix[0] != 1 || pix[1] != 2 || pix[2] != 3 {
		t.Errorf("pixel = %v, want [1 2 3]", pix[:3])
	}
}

func TestDecodePNG_TranslucentIsRGBA(t *testing.T) {
	data := encodePNG(t, solidNRGBA(2, 2, color.NRGBA{R: 100, G: 50, B: 25, A: 128}))
	_, _, ch, pix, err := Decode(data, MimePNG)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if ch != 4 {
		t.Fatalf("channels = %d, want 4", ch)
	}
	if pix[0] != 100 || pix[3] != 128 {
		t.Errorf("pixel = %v, want straight alpha [100 50 25 128]", pix[:4])
	}
}

func TestDecodeJPEG(t *testing.T) {
	data := encodeJPEG(t, solidNRGBA(8, 8, color.NRGBA{R: 200, G: 100, B: 50, A: 255}))
	w, h, ch, pix, err := Decode(data, MimeJPEG)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if w != 8 || h != 8 || ch != 3 {
		t.Fatalf("got %dx%d ch=%d, want 8x8 ch=3", w, h, ch)
	}
	// JPEG is lossy; allow a wide band.
	if int(pix[0]) < 180 || int(pix[0]) > 220 {
		t.Errorf("red = %d, want ~200", pix[0])
	}
}

func TestDecodeJPEG_Gray(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 77
	}
	data := encodeJPEG(t, img)
	_, _, ch, _, err := Decode(data, MimeJPEG)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if ch != 1 {
		t.Errorf("channels = %d, want 1", ch)
	}
}

func TestDecodeGIF(t *testing.T) {
	palette := color.Palette{
		color.NRGBA{A: 0},                       // transparent
		color.NRGBA{R: 255, A: 255},             // red
		color.NRGBA{R: 0, G: 255, B: 0, A: 255}, // green
		color.NRGBA{R: 0, G: 0, B: 255, A: 255}, // blue
	}
	frame := image.NewPaletted(image.Rect(0, 0, 4, 4), palette)
	for i := range frame.Pix {
		frame.Pix[i] = 1 // red
	}
	frame.Pix[0] = 0 // transparent corner

	var buf bytes.Buffer
	err := gif.EncodeAll(&buf, &gif.GIF{
		Image: []*image.Paletted{frame},
		Delay: []int{0},
		Config: image.Config{
			ColorModel: palette,
			Width:      4,
			Height:     4,
		},
	})
	if err != nil {
		t.Fatalf("encode test gif: %v", err)
	}

	w, h, ch, pix, err := Decode(buf.Bytes(), MimeGIF)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if w != 4 || h != 4 || ch != 4 {
		t.Fatalf("got %dx%d ch=%d, want 4x4 ch=4", w, h, ch)
	}
	if pix[3] != 0 {
		t.Errorf("corner alpha = %d, want 0 (transparent)", pix[3])
	}
	if pix[4] != 255 || pix[7] != 255 {
		t.Errorf("pixel 1 = %v, want opaque red", pix[4:8])
	}
}

func TestDecodeGarbageFails(t *testing.T) {
	if _, _, _, _, err := Decode([]byte("definitely not pixels"), ""); err == nil {
		t.Error("expected decode error for garbage input")
	}
}

// MIME hints are advisory: a PNG payload with a JPEG hint still decodes as
// PNG via header sniffing.
func TestDecodeIgnoresWrongMime(t *testing.T) {
	data := encodePNG(t, solidNRGBA(2, 2, color.NRGBA{R: 9, G: 8, B: 7, A: 255}))
	_, _, ch, pix, err := Decode(data, MimeJPEG)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if ch != 3 || pix[0] != 9 {
		t.Errorf("got ch=%d pix=%v, want lossless PNG decode", ch, pix[:3])
	}
}

// ── Writers ───────────────────────────────────────────────────────────────────

func TestWritePNGRoundTrip(t *testing.T) {
	dir := t.TempDir()
	var w StdWriter

	tests := []struct {
		name     string
		channels int
		pix      []uint8
	}{
		{"gray.png", 1, []uint8{0, 64, 128, 255}},
		{"rgb.png", 3, []uint8{10, 20, 30, 40, 50, 60, 70, 80, 90, 100, 110, 120}},
		{"rgba.png", 4, []uint8{1, 2, 3, 128, 4, 5, 6, 200, 7, 8, 9, 255, 10, 11, 12, 0}},
	}
	for _, tc := range tests {
		path := filepath.Join(dir, tc.name)
		if err := w.WritePNG(path, 2, 2, tc.channels, tc.pix, 9); err != nil {
			t.Fatalf("%s: WritePNG: %v", tc.name, err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("%s: read back: %v", tc.name, err)
		}
		gotW, gotH, gotCh, gotPix, err := Decode(data, MimePNG)
		if err != nil {
			t.Fatalf("%s: decode: %v", tc.name, err)
		}
		if gotW != 2 || gotH != 2 {
			t.Fatalf("%s: got %dx%d, want 2x2", tc.name, gotW, gotH)
		}
		// Single-channel round-trips through the gray decode path as RGB.
		if tc.channels == 1 {
			for p := 0; p < 4; p++ {
				if gotPix[p*gotCh] != tc.pix[p] {
					t.Errorf("%s: pixel %d = %d, want %d", tc.name, p, gotPix[p*gotCh], tc.pix[p])
				}
			}
			continue
		}
		if gotCh != tc.channels {
			t.Fatalf("%s: channels = %d, want %d", tc.name, gotCh, tc.channels)
		}
		for i := range tc.pix {
			if gotPix[i] != tc.pix[i] {
				t.Errorf("%s: pix[%d] = %d, want %d", tc.name, i, gotPix[i], tc.pix[i])
				break
			}
		}
	}
}

func TestWriteJPEG(t *testing.T) {
	dir := t.TempDir()
	var w StdWriter

	pix := make([]uint8, 16*16*3)
	for i := 0; i < len(pix); i += 3 {
		pix[i] = 180
		pix[i+1] = 90
		pix[i+2] = 45
	}
	path := filepath.Join(dir, "out.jpg")
	if err := w.WriteJPEG(path, 16, 16, 3, pix, 90, 0); err != nil {
		t.Fatalf("WriteJPEG: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !HasJPEGHeader(data) {
		t.Fatal("output is not a JPEG")
	}
	gotW, gotH, _, gotPix, err := Decode(data, MimeJPEG)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if gotW != 16 || gotH != 16 {
		t.Fatalf("got %dx%d, want 16x16", gotW, gotH)
	}
	if int(gotPix[0]) < 160 || int(gotPix[0]) > 200 {
		t.Errorf("red = %d, want ~180", gotPix[0])
	}
}
