package pixel

// Content classifies the values observed in one channel.
type Content uint8

const (
	ContentSolid0  Content = iota // all values 0.0
	ContentSolid1                 // all values 1.0
	ContentSolid                  // all values constant in the open range (0.0, 1.0)
	ContentBinary                 // all values 0.0 or 1.0
	ContentVarying                // values vary over [0.0, 1.0]
	ContentCount                  // sentinel: classification not yet computed
)

// IsSolid reports whether the channel holds a single value.
func IsSolid(c Content) bool {
	return c == ContentSolid0 || c == ContentSolid1 || c == ContentSolid
}

// IsBinary reports whether the channel holds only 0.0 and 1.0 values.
func IsBinary(c Content) bool {
	return c == ContentSolid0 || c == ContentSolid1 || c == ContentBinary
}

// Minimum texture size for which we detect and fix accidental alpha.  Edge
// pixels contribute a significant area proportion for small textures.
const (
	accidentalPadding = 1
	accidentalSizeMin = 32
)

// GetContents classifies every channel and reports the first-pixel color
// (which is the solid color whenever a channel classifies as solid).  With
// fixAccidentalAlpha set, 4-channel images at least 32px on both axes ignore
// a one-pixel border so that editor re-save artifacts don't flip an opaque
// texture to translucent.
func (im *Image) GetContents(fixAccidentalAlpha bool) (content [4]Content, solid [4]Component) {
	// Default to opaque black.
	content = [4]Content{ContentSolid0, ContentSolid0, ContentSolid0, ContentSolid1}
	solid = [4]Component{0, 0, 0, ComponentMax}

	width, height, channels := im.width, im.height, im.channels
	if width*height*channels == 0 {
		return
	}
	data := im.buf

	// Track which values occur per channel with bitmasks: observed-min,
	// observed-max, observed-other, plus observed-varying seeded from the
	// first scanned pixel.
	var mins, maxs, others, varyings uint32
	var seed [4]Component

	scan := func(pixels []Component, stride, count int) {
		for i := 0; i < channels; i++ {
			seed[i] = pixels[i]
		}
		for p := 0; p < count; p++ {
			base := p * stride
			for i := 0; i < channels; i++ {
				bit := uint32(1) << i
				c := pixels[base+i]
				switch c {
				case 0:
					mins |= bit
				case ComponentMax:
					maxs |= bit
				default:
					others |= bit
				}
				if c != seed[i] {
					varyings |= bit
				}
			}
		}
	}

	ignoreEdges := fixAccidentalAlpha && channels == 4 &&
		width >= accidentalSizeMin && height >= accidentalSizeMin
	if ignoreEdges {
		const pad = accidentalPadding
		rowStride := width * 4
		rowLen := (width - 2*pad) * 4
		rowBegin := pad*rowStride + pad*4
		for i := 0; i < 4; i++ {
			seed[i] = data[rowBegin+i]
		}
		for y := pad; y != height-pad; y++ {
			row := data[rowBegin : rowBegin+rowLen]
			for p := 0; p < len(row); p += 4 {
				for i := 0; i < 4; i++ {
					bit := uint32(1) << i
					c := row[p+i]
					switch c {
					case 0:
						mins |= bit
					case ComponentMax:
						maxs |= bit
					default:
						others |= bit
					}
					if c != seed[i] {
						varyings |= bit
					}
				}
			}
			rowBegin += rowStride
		}
	} else {
		scan(data, channels, width*height)
	}

	for i := 0; i < channels; i++ {
		solid[i] = seed[i]
	}

	// Assign content state from what values were observed.
	for i := 0; i < channels; i++ {
		bit := uint32(1) << i
		switch {
		case others&bit != 0:
			if varyings&bit != 0 {
				content[i] = ContentVarying
			} else {
				content[i] = ContentSolid
			}
		case mins&bit != 0 && maxs&bit != 0:
			content[i] = ContentBinary
		case mins&bit != 0:
			content[i] = ContentSolid0
		case maxs&bit != 0:
			content[i] = ContentSolid1
		}
		// Unused channel: keep the default.
	}
	return
}

// AreChannelsSolid reports whether every channel of the image is solid, and
// if so returns the solid color.
func (im *Image) AreChannelsSolid(fixAccidentalAlpha bool) (solid [4]Component, ok bool) {
	content, solid := im.GetContents(fixAccidentalAlpha)
	for i := 0; i < im.channels; i++ {
		if !IsSolid(content[i]) {
			return solid, false
		}
	}
	return solid, true
}
