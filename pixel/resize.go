package pixel

import "github.com/Skryldev/texture-pipeline/colorconv"

// resizeImage shrinks an image with an averaging filter: each destination
// pixel accumulates the weighted sum of the source pixels under its
// fractional footprint, divided by the footprint area.  This works for
// arbitrary resizing but degrades to nearest-neighbor when upscaling; the
// pipeline only shrinks, so that trade-off is fine.
//
// With premulAlpha, 4-channel images additionally accumulate
// alpha-premultiplied RGB and divide by the accumulated alpha, so fully
// transparent source pixels don't bleed unweighted color into the result.
func resizeImage(channels int, premulAlpha bool, srcW, srcH int, src []float32, dstW, dstH int, dst []float32) {
	premul := premulAlpha && channels == 4

	// Each destination pixel maps to a fixed-size area in the source image.
	dstToSrcX := float32(srcW) / float32(dstW)
	dstToSrcY := float32(srcH) / float32(dstH)
	recipArea := 1 / (dstToSrcX * dstToSrcY)

	srcRowStride := srcW * channels

	var sum [4]float32
	var premulSum [3]float32

	addScaled := func(off int, scale float32) {
		p := src[off : off+channels]
		for c := 0; c < channels; c++ {
			sum[c] += p[c] * scale
		}
		if premul {
			aScaled := p[3] * scale
			premulSum[0] += p[0] * aScaled
			premulSum[1] += p[1] * aScaled
			premulSum[2] += p[2] * aScaled
		}
	}

	// addRow accumulates one source row's overlap with the destination
	// pixel's X footprint.
	addRow := func(rowOff int, ixBegin, ixLast, ixEnd int, srcX0, srcX1, weightY float32) {
		if ixBegin == ixLast {
			// Destination is entirely within a single source column.
			addScaled(rowOff+ixBegin*channels, weightY*(srcX1-srcX0))
			return
		}
		addScaled(rowOff+ixBegin*channels, weightY*(1-srcX0+float32(ixBegin)))
		for ix := ixBegin + 1; ix != ixLast; ix++ {
			addScaled(rowOff+ix*channels, weightY)
		}
		addScaled(rowOff+ixLast*channels, weightY*(1-float32(ixEnd)+srcX1))
	}

	for dstIY := 0; dstIY != dstH; dstIY++ {
		// Source Y range overlapping the destination pixel.
		srcY0 := float32(dstIY) * dstToSrcY
		srcY1 := srcY0 + dstToSrcY
		iyBegin := int(srcY0)
		iyEnd := int(srcY1) + 1
		if iyEnd > srcH {
			iyEnd = srcH
		}
		iyLast := iyEnd - 1

		dstRow := dstIY * dstW * channels
		for dstIX := 0; dstIX != dstW; dstIX++ {
			// Source X range overlapping the destination pixel.
			srcX0 := float32(dstIX) * dstToSrcX
			srcX1 := srcX0 + dstToSrcX
			ixBegin := int(srcX0)
			ixEnd := int(srcX1) + 1
			if ixEnd > srcW {
				ixEnd = srcW
			}
			ixLast := ixEnd - 1

			sum = [4]float32{}
			premulSum = [3]float32{}

			if iyBegin == iyLast {
				// Destination is entirely within a single source row.
				addRow(iyBegin*srcRowStride, ixBegin, ixLast, ixEnd,
					srcX0, srcX1, srcY1-srcY0)
			} else {
				// First partial row.
				addRow(iyBegin*srcRowStride, ixBegin, ixLast, ixEnd,
					srcX0, srcX1, 1-srcY0+float32(iyBegin))
				// Interior whole rows.
				for iy := iyBegin + 1; iy != iyLast; iy++ {
					addRow(iy*srcRowStride, ixBegin, ixLast, ixEnd,
						srcX0, srcX1, 1)
				}
				// Last partial row.
				addRow(iyLast*srcRowStride, ixBegin, ixLast, ixEnd,
					srcX0, srcX1, 1-float32(iyEnd)+srcY1)
			}

			// Store the pixel average by dividing the sum by area.
			out := dst[dstRow+dstIX*channels:]
			if premul {
				a := sum[3]
				if a < colorconv.ColorTol {
					// Alpha of 0 is not invertible; use the
					// non-premultiplied RGB.
					out[0] = sum[0] * recipArea
					out[1] = sum[1] * recipArea
					out[2] = sum[2] * recipArea
				} else {
					s := 1 / a
					out[0] = premulSum[0] * s
					out[1] = premulSum[1] * s
					out[2] = premulSum[2] * s
				}
				out[3] = a * recipArea
			} else {
				for c := 0; c < channels; c++ {
					out[c] = sum[c] * recipArea
				}
			}
		}
	}
}
