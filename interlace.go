package pngdec

// reducedImage describes the geometry of one of the seven Adam7 passes.
type reducedImage struct {
	Width, Height               uint32
	BytesPerPixel, BytesPerLine int
}

// adam7PassGeometry computes the pixel dimensions and byte strides of all
// seven Adam7 reduced images for a full image of the given size, channel
// count, and bit depth. A pass with zero width or height contributes no
// scanlines to the compressed stream.
func adam7PassGeometry(width, height uint32, channels, bitDepth uint8) [7]reducedImage {
	var passes [7]reducedImage
	for pass := 1; pass <= 7; pass++ {
		w, h := adam7PassDimensions(pass, width, height)
		bpp, bpl := bytesPerPixelAndLine(channels, bitDepth, w)
		passes[pass-1] = reducedImage{Width: w, Height: h, BytesPerPixel: bpp, BytesPerLine: bpl}
	}
	return passes
}

// adam7PassDimensions returns the pixel width and height of the given
// 1-indexed Adam7 pass for a full image of size (width, height).
func adam7PassDimensions(pass int, width, height uint32) (w, h uint32) {
	switch pass {
	case 1:
		return (width + 7) >> 3, (height + 7) >> 3
	case 2:
		return (width >> 3) + ((width & 7) / 5), (height + 7) >> 3
	case 3:
		return ((width >> 3) << 1) + (((width & 7) + 3) >> 2), (height >> 3) + ((height & 7) / 5)
	case 4:
		return ((width >> 3) << 1) + (((width & 7) + 1) >> 2), (height + 3) >> 2
	case 5:
		return (width >> 1) + (width & 1), ((height >> 3) << 1) + (((height & 7) + 1) >> 2)
	case 6:
		return width >> 1, (height >> 1) + (height & 1)
	case 7:
		return width, height >> 1
	default:
		return 0, 0
	}
}

// adam7PixelOrigin maps a pixel at (col, row) within the given 1-indexed
// pass to its (x, y) position in the final, de-interlaced image.
func adam7PixelOrigin(pass int, col, row uint32) (x, y uint32) {
	switch pass {
	case 1:
		return col * 8, row * 8
	case 2:
		return col*8 + 4, row * 8
	case 3:
		return col * 4, row*8 + 4
	case 4:
		return col*4 + 2, row * 4
	case 5:
		return col * 2, row*4 + 2
	case 6:
		return col*2 + 1, row * 2
	case 7:
		return col, row*2 + 1
	default:
		return 0, 0
	}
}
