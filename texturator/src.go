package texturator

import (
	"github.com/Skryldev/texture-pipeline/core"
	"github.com/Skryldev/texture-pipeline/pixel"
)

type srcState uint8

const (
	srcStateNew srcState = iota
	srcStateLoaded
	srcStateMissing
)

type normalState uint8

const (
	normalUnknown normalState = iota
	normalNormalized
	normalNonNormalized
)

// src caches everything known about one source image.  There is exactly one
// record per ImageID; the decoded pixels and classifications are computed
// lazily, at most once.
type src struct {
	name     string
	mime     string
	state    srcState
	image    *pixel.Image
	contents [4]pixel.Content
	solid    [4]pixel.Component
	normal   normalState
}

func newSrc() *src {
	s := &src{}
	// contents[R] doubles as the "not yet classified" marker.
	s.contents[core.ChannelR] = pixel.ContentCount
	return s
}

// findOrAddSrc creates the source record on first reference.  It returns
// nil when no image record exists at all; a findable record with a missing
// payload is still created (and the error logged once).
func (t *Texturator) findOrAddSrc(id core.ImageID) *src {
	name, mime := t.cache.ImageName(id)
	if name == "" {
		return nil
	}
	s, ok := t.srcs[id]
	if !ok {
		s = newSrc()
		s.name = name
		s.mime = mime
		t.srcs[id] = s
		if !t.cache.ImageExists(id) {
			t.logger.Error("missing source image", "image", name)
		}
	}
	return s
}

// loadSrc decodes the source payload on first access, transitioning the
// state new -> loaded or new -> missing.
func (t *Texturator) loadSrc(id core.ImageID, s *src) {
	if s.state != srcStateNew {
		return
	}
	data, mime, ok := t.cache.ImageBytes(id)
	if !ok {
		s.state = srcStateMissing
		return
	}
	img := &pixel.Image{}
	if err := img.Read(data, mime); err != nil {
		t.logger.Error("image decode failed", "image", s.name, "error", err.Error())
		s.state = srcStateMissing
		return
	}
	s.image = img
	s.state = srcStateLoaded
}

// ensureContents computes and caches the per-channel classification.
func (t *Texturator) ensureContents(id core.ImageID, s *src) {
	t.loadSrc(id, s)
	if s.image != nil && s.contents[core.ChannelR] == pixel.ContentCount {
		s.contents, s.solid = s.image.GetContents(t.settings.FixAccidentalAlpha)
	}
}

// getComponentContent returns the cached classification of one channel.
func (t *Texturator) getComponentContent(channel core.ColorChannel, id core.ImageID, s *src) pixel.Content {
	t.ensureContents(id, s)
	return s.contents[channel]
}

// needNormalization scans the source normal map once, rejecting as soon as
// any pixel's squared magnitude strays past the fixed-point tolerance.
func (t *Texturator) needNormalization(id core.ImageID, s *src) bool {
	t.loadSrc(id, s)
	if s.normal != normalUnknown {
		return s.normal == normalNonNormalized
	}
	if s.image == nil {
		s.normal = normalNormalized
		return false
	}
	img := s.image
	channels := img.ChannelCount()
	if channels < 3 {
		// Not scannable as a normal map.
		s.normal = normalNormalized
		return false
	}

	const one = int(pixel.ComponentMax)
	// The maximum error allowed, in squared fixed-point units.  The
	// effective linear tolerance is sqrt(errSqTol/one)/one (~0.008).
	const errSqTol = 4 * one

	data := img.Data()
	for i := 0; i < len(data); i += channels {
		x := 2*int(data[i]) - one
		y := 2*int(data[i+1]) - one
		z := 2*int(data[i+2]) - one
		mSq := x*x + y*y + z*z
		errSq := mSq - one*one
		if errSq < 0 {
			errSq = -errSq
		}
		if errSq > errSqTol {
			s.normal = normalNonNormalized
			return true
		}
	}

	s.normal = normalNormalized
	return false
}

func (t *Texturator) srcWidth(id core.ImageID, s *src) int {
	t.loadSrc(id, s)
	if s.image == nil {
		return 0
	}
	return s.image.Width()
}

func (t *Texturator) srcHeight(id core.ImageID, s *src) int {
	t.loadSrc(id, s)
	if s.image == nil {
		return 0
	}
	return s.image.Height()
}
