package pngdec

// FilterType is the per-scanline reconstruction method tag stored as the
// leading byte of every row in the decompressed image data stream.
type FilterType uint8

const (
	FilterNone FilterType = iota
	FilterSub
	FilterUp
	FilterAverage
	FilterPaeth
)

// unfilterPass reconstructs every scanline of a single reduced image (or
// the whole image, for non-interlaced data) from in into out. in holds height rows
// of (1 + bytesPerLine) bytes each — a leading filter-type byte followed by
// the filtered scanline. out receives height*bytesPerLine reconstructed
// bytes with the filter bytes stripped. Reconstruction is sequential: each
// row after the first may reference the immediately preceding
// already-reconstructed row.
func unfilterPass(in []byte, out []byte, height int, bytesPerPixel, bytesPerLine int) error {
	inStride := bytesPerLine + 1
	for line := 0; line < height; line++ {
		inOff := line * inStride
		outOff := line * bytesPerLine
		filterType := FilterType(in[inOff])
		src := in[inOff+1 : inOff+1+bytesPerLine]
		dst := out[outOff : outOff+bytesPerLine]
		var prev []byte
		if line > 0 {
			prev = out[outOff-bytesPerLine : outOff]
		}
		if err := unfilterRow(filterType, dst, src, prev, bytesPerPixel); err != nil {
			return err
		}
	}
	return nil
}

func unfilterRow(ft FilterType, dst, src, prev []byte, bpp int) error {
	switch ft {
	case FilterNone:
		copy(dst, src)
	case FilterSub:
		unfilterSub(dst, src, bpp)
	case FilterUp:
		unfilterUp(dst, src, prev)
	case FilterAverage:
		unfilterAverage(dst, src, prev, bpp)
	case FilterPaeth:
		unfilterPaeth(dst, src, prev, bpp)
	default:
		return newDecodeError(ErrUnknownFilterType, 0, "")
	}
	return nil
}

// unfilterSub reverses the "subtract the pixel to the left" filter. The
// first bytesPerPixel bytes of a scanline have no left neighbor and pass
// through unchanged.
func unfilterSub(dst, src []byte, bpp int) {
	for i := 0; i < len(src); i++ {
		var left uint8
		if i >= bpp {
			left = dst[i-bpp]
		}
		dst[i] = src[i] + left
	}
}

// unfilterUp reverses the "subtract the pixel above" filter. When prev is
// nil (first scanline), it degrades to FilterNone.
func unfilterUp(dst, src, prev []byte) {
	for i := 0; i < len(src); i++ {
		var up uint8
		if prev != nil {
			up = prev[i]
		}
		dst[i] = src[i] + up
	}
}

// unfilterAverage reverses the "subtract the floor-average of left and up"
// filter, using a wide intermediate sum so the >>1 divide never wraps.
func unfilterAverage(dst, src, prev []byte, bpp int) {
	for i := 0; i < len(src); i++ {
		var left, up uint16
		if i >= bpp {
			left = uint16(dst[i-bpp])
		}
		if prev != nil {
			up = uint16(prev[i])
		}
		avg := uint8((left + up) >> 1)
		dst[i] = src[i] + avg
	}
}

// unfilterPaeth reverses the Paeth predictor filter.
func unfilterPaeth(dst, src, prev []byte, bpp int) {
	for i := 0; i < len(src); i++ {
		var left, up, upLeft int32
		if i >= bpp {
			left = int32(dst[i-bpp])
		}
		if prev != nil {
			up = int32(prev[i])
			if i >= bpp {
				upLeft = int32(prev[i-bpp])
			}
		}
		dst[i] = src[i] + paethPredictor(left, up, upLeft)
	}
}

// paethPredictor picks whichever of left, up, or upLeft is closest to the
// linear gradient left + up - upLeft, preferring left on ties with up,
// and up on ties with upLeft. Intermediate arithmetic is carried in at
// least 16 bits so the gradient and its distances never wrap.
func paethPredictor(left, up, upLeft int32) uint8 {
	p := left + up - upLeft
	distLeft := abs32(p - left)
	distUp := abs32(p - up)
	distUpLeft := abs32(p - upLeft)

	switch {
	case distLeft <= distUp && distLeft <= distUpLeft:
		return uint8(left)
	case distUp <= distUpLeft:
		return uint8(up)
	default:
		return uint8(upLeft)
	}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
