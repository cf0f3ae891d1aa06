package pngdec

import (
	"bytes"
	"image"
	"image/color"
	"io"

	"github.com/pkg/errors"
)

// Image is the canonical decoded result: a flat 8-bit RGBA pixel buffer
// plus the dimensions needed to interpret it. It satisfies image.Image so
// callers can drop it straight into the standard image/draw pipeline.
type Image struct {
	Width, Height int
	Pix           []byte // RGBA8, row-major, Width*Height*4 bytes
}

func (im *Image) ColorModel() color.Model { return color.RGBAModel }
func (im *Image) Bounds() image.Rectangle { return image.Rect(0, 0, im.Width, im.Height) }

func (im *Image) At(x, y int) color.Color {
	o := (y*im.Width + x) * 4
	return color.RGBA{R: im.Pix[o], G: im.Pix[o+1], B: im.Pix[o+2], A: im.Pix[o+3]}
}

// Result is the outcome of a Decode call: the image plus every error the
// decoder's error policy recorded along the way, in encounter order,
// including the unrecoverable one that stopped the decode, if any. A non-nil Err means
// the decode could not proceed past an unrecoverable error (or fail-fast
// was requested), in which case Image is nil.
type Result struct {
	Image  *Image
	Errors []*DecodeError
	Err    error
}

// decoder holds the mutable state accumulated while scanning the chunk
// stream of a single PNG bitstream.
type decoder struct {
	opts  Options
	diag  *diagnostics
	chunk *chunkReader

	header    ImageHeader
	hasIHDR   bool
	hasIDAT   bool
	hasPLTE   bool
	palette   Palette
	pixelType PixelType
	trns      Transparency
	channels  uint8
	inflate   inflateStream
}

// Decode parses a complete PNG bitstream from r and materializes it into a
// flat RGBA8 Image. It always returns a Result; check Result.Err to learn
// whether the decode reached completion.
func Decode(r io.Reader, opts Options) Result {
	d := &decoder{
		opts:  opts,
		diag:  newDiagnostics(opts.Logger, opts.FailFast),
		chunk: newChunkReader(r),
	}
	img, err := d.run()
	return Result{Image: img, Errors: d.diag.errors(), Err: err}
}

func (d *decoder) run() (*Image, error) {
	if err := d.chunk.readSignature(); err != nil {
		if herr := d.diag.handle(err); herr != nil {
			return nil, herr
		}
	}

	for {
		c, err := d.chunk.next()
		if err == io.EOF {
			return nil, newDecodeError(ErrNoIHDRBeforeIEND, d.chunk.offset, "stream ended without IEND")
		}
		if err != nil {
			return nil, err
		}

		if !d.hasIHDR && c.Type != ctIHDR {
			if herr := d.diag.handle(newDecodeError(ErrFirstChunkNotIHDR, d.chunk.offset, c.Type.String())); herr != nil {
				return nil, herr
			}
		}

		var done bool
		var stepErr error
		switch c.Type {
		case ctIHDR:
			stepErr = d.decodeIHDR(c.Data)
		case ctPLTE:
			stepErr = d.decodePLTE(c.Data)
		case ctIDAT:
			stepErr = d.decodeIDAT(c.Data)
		case ctTRNS:
			stepErr = d.decodeTRNS(c.Data)
		case ctIEND:
			stepErr = d.finalizeAtIEND()
			done = true
		default:
			d.opts.Logger.Debug().Str("chunk", c.Type.String()).Msg("ignoring unrecognized chunk")
		}
		if stepErr != nil {
			return nil, stepErr
		}

		if d.opts.ValidateCRC && !verifyCRC(c) {
			if herr := d.diag.handle(newDecodeError(ErrChecksumMismatch, d.chunk.offset, c.Type.String())); herr != nil {
				return nil, herr
			}
		}
		if done {
			break
		}
	}

	return d.materialize()
}

func (d *decoder) decodeIHDR(data []byte) error {
	if len(data) != ihdrDataLength {
		if herr := d.diag.handle(newDecodeError(ErrInvalidIHDRLength, d.chunk.offset, "")); herr != nil {
			return herr
		}
	}
	if len(data) < ihdrDataLength {
		return errors.New("pngdec: truncated IHDR, cannot continue")
	}

	hdr := parseIHDR(data)
	if ct, ok := colorTypeFromByte(data[9]); ok {
		hdr.ColorType = ct
	} else {
		if herr := d.diag.handle(newDecodeError(ErrUnsupportedColorType, d.chunk.offset, "")); herr != nil {
			return herr
		}
		hdr.ColorType = Greyscale
	}

	if !bitDepthAllowed(hdr.ColorType.supportedBitDepths(), hdr.BitDepth) {
		if herr := d.diag.handle(newDecodeError(ErrUnsupportedBitDepth, d.chunk.offset, "")); herr != nil {
			return herr
		}
	}

	if hdr.CompressionMethod != 0 {
		if herr := d.diag.handle(newDecodeError(ErrUnsupportedCompressionMethod, d.chunk.offset, "")); herr != nil {
			return herr
		}
		hdr.CompressionMethod = 0
	}
	if hdr.FilterMethod != 0 {
		if herr := d.diag.handle(newDecodeError(ErrUnsupportedFilterMethod, d.chunk.offset, "")); herr != nil {
			return herr
		}
		hdr.FilterMethod = 0
	}
	if hdr.InterlaceMethod != 0 && hdr.InterlaceMethod != 1 {
		if herr := d.diag.handle(newDecodeError(ErrUnsupportedInterlaceMethod, d.chunk.offset, "")); herr != nil {
			return herr
		}
		hdr.InterlaceMethod = 0
	}

	d.hasIHDR = true
	d.header = hdr
	d.channels = hdr.ColorType.channels()
	bpp, bpl := bytesPerPixelAndLine(d.channels, hdr.BitDepth, hdr.Width)
	d.header.BytesPerPixel, d.header.BytesPerLine = bpp, bpl

	pt, ok := newPixelType(hdr.ColorType, hdr.BitDepth)
	if !ok {
		return d.diag.handle(newDecodeError(ErrIllegalColorTypeBitDepth, d.chunk.offset, ""))
	}
	d.pixelType = pt
	return nil
}

func (d *decoder) decodePLTE(data []byte) error {
	if len(data)%3 != 0 {
		if herr := d.diag.handle(newDecodeError(ErrInvalidPLTELength, d.chunk.offset, "")); herr != nil {
			return herr
		}
	}
	if d.hasIDAT {
		if herr := d.diag.handle(newDecodeError(ErrPLTEBeforeIHDR, d.chunk.offset, "PLTE after IDAT")); herr != nil {
			return herr
		}
	}
	if d.hasPLTE {
		if herr := d.diag.handle(newDecodeError(ErrDuplicatePLTE, d.chunk.offset, "")); herr != nil {
			return herr
		}
	}
	if !d.hasIHDR {
		if herr := d.diag.handle(newDecodeError(ErrPLTEBeforeIHDR, d.chunk.offset, "PLTE before IHDR")); herr != nil {
			return herr
		}
	}
	if d.hasIHDR && (d.header.ColorType == Greyscale || d.header.ColorType == GreyscaleAlpha) {
		if herr := d.diag.handle(newDecodeError(ErrPLTEForbidden, d.chunk.offset, d.header.ColorType.String())); herr != nil {
			return herr
		}
	}
	d.hasPLTE = true
	d.palette = Palette(data)
	return nil
}

func (d *decoder) decodeIDAT(data []byte) error {
	d.hasIDAT = true
	if len(data) == 0 {
		return nil
	}
	d.inflate.feed(data)
	return nil
}

func (d *decoder) decodeTRNS(data []byte) error {
	if !d.hasIHDR {
		return d.diag.handle(newDecodeError(ErrTRNSBeforeIHDR, d.chunk.offset, ""))
	}
	if d.header.ColorType.hasIntrinsicAlpha() {
		if herr := d.diag.handle(newDecodeError(ErrTRNSForbidden, d.chunk.offset, d.header.ColorType.String())); herr != nil {
			return herr
		}
		return nil
	}

	trns, ok := newTransparency(d.pixelType, data)
	if !ok {
		if herr := d.diag.handle(newDecodeError(ErrInvalidTRNSLength, d.chunk.offset, "")); herr != nil {
			return herr
		}
		return nil
	}
	d.trns = trns
	return nil
}

func (d *decoder) finalizeAtIEND() error {
	if !d.hasIHDR {
		return d.diag.handle(newDecodeError(ErrNoIHDRBeforeIEND, d.chunk.offset, ""))
	}
	if !d.hasPLTE && d.header.ColorType == IndexedColor {
		if herr := d.diag.handle(newDecodeError(ErrMissingRequiredPLTE, d.chunk.offset, "")); herr != nil {
			return herr
		}
	}
	return nil
}

// materialize inflates the accumulated IDAT stream, reconstructs every
// scanline's filter, and expands pixels into the final RGBA8 buffer.
func (d *decoder) materialize() (*Image, error) {
	raw, err := d.inflate.finish()
	if err != nil {
		if herr := d.diag.handle(err); herr != nil {
			return nil, herr
		}
		raw = nil
	}

	out := &Image{Width: int(d.header.Width), Height: int(d.header.Height)}
	out.Pix = make([]byte, out.Width*out.Height*4)

	if d.header.InterlaceMethod == 1 {
		return d.materializeAdam7(raw, out)
	}
	return d.materializeNone(raw, out)
}

func (d *decoder) materializeNone(raw []byte, out *Image) (*Image, error) {
	bpp, bpl := d.header.BytesPerPixel, d.header.BytesPerLine
	height := int(d.header.Height)

	if len(raw) < height*(bpl+1) {
		if herr := d.diag.handle(newDecodeError(ErrInflateFailed, 0, "truncated decompressed image data")); herr != nil {
			return nil, herr
		}
		return out, nil
	}

	unfiltered := make([]byte, bpl*height)
	if err := unfilterPass(raw, unfiltered, height, bpp, bpl); err != nil {
		if herr := d.diag.handle(err); herr != nil {
			return nil, herr
		}
		return out, nil
	}

	pixelsPerRow := int(d.header.Width)
	for row := 0; row < height; row++ {
		rowBytes := unfiltered[row*bpl : (row+1)*bpl]
		dstOff := row * out.Width * 4
		dst := materializeRow(nil, rowBytes, d.pixelType, pixelsPerRow, d.palette, d.trns)
		copy(out.Pix[dstOff:dstOff+len(dst)], dst)
	}
	return out, nil
}

func (d *decoder) materializeAdam7(raw []byte, out *Image) (*Image, error) {
	passes := adam7PassGeometry(d.header.Width, d.header.Height, d.channels, d.header.BitDepth)

	var cursor int
	for passIdx, pass := range passes {
		if pass.Width == 0 || pass.Height == 0 || pass.BytesPerLine == 0 {
			continue
		}
		passBytes := pass.BytesPerLine * int(pass.Height)
		inBytes := passBytes + int(pass.Height) // one filter byte per row
		if cursor+inBytes > len(raw) {
			if herr := d.diag.handle(newDecodeError(ErrInflateFailed, 0, "truncated Adam7 pass data")); herr != nil {
				return nil, herr
			}
			break
		}

		unfiltered := make([]byte, passBytes)
		if err := unfilterPass(raw[cursor:cursor+inBytes], unfiltered, int(pass.Height), pass.BytesPerPixel, pass.BytesPerLine); err != nil {
			if herr := d.diag.handle(err); herr != nil {
				return nil, herr
			}
			cursor += inBytes
			continue
		}

		for row := uint32(0); row < pass.Height; row++ {
			rowBytes := unfiltered[int(row)*pass.BytesPerLine : int(row+1)*pass.BytesPerLine]
			pixels := materializeRow(nil, rowBytes, d.pixelType, int(pass.Width), d.palette, d.trns)
			for col := uint32(0); col < pass.Width; col++ {
				x, y := adam7PixelOrigin(passIdx+1, col, row)
				if int(x) >= out.Width || int(y) >= out.Height {
					continue
				}
				dstOff := (int(y)*out.Width + int(x)) * 4
				copy(out.Pix[dstOff:dstOff+4], pixels[col*4:col*4+4])
			}
		}
		cursor += inBytes
	}
	return out, nil
}

// DecodeBytes is a convenience wrapper for Decode over an in-memory
// bitstream.
func DecodeBytes(data []byte, opts Options) Result {
	return Decode(bytes.NewReader(data), opts)
}
