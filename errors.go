package pngdec

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCode identifies one of the twenty-four distinct ways a PNG bitstream
// can fail to decode. Each code carries a fixed recoverability classification
// (see ErrorCode.Recoverable) independent of where in the stream it occurs.
type ErrorCode int

const (
	ErrInvalidHeader ErrorCode = iota + 1
	ErrPLTEBeforeIHDR
	ErrInvalidIHDRLength
	ErrUnsupportedBitDepth
	ErrDuplicatePLTE
	ErrPLTEForbidden
	ErrChecksumMismatch
	ErrIHDRAfterPLTE
	ErrInvalidPLTELength
	ErrUnsupportedCompressionMethod
	ErrUnsupportedFilterMethod
	ErrUnsupportedInterlaceMethod
	ErrFirstChunkNotIHDR
	ErrInflateFailed
	ErrNoIHDRBeforeIEND
	ErrMissingRequiredPLTE
	ErrUnknownFilterType
	ErrUnsupportedColorType
	ErrTRNSBeforeIHDR
	ErrTRNSForbidden
	ErrInvalidTRNSLength
	ErrIllegalColorTypeBitDepth
	ErrPixelTypeUndefined
	ErrSampleOutOfRange
)

// Recoverable reports whether the decoder's error-accumulation policy may
// substitute a sentinel value and continue decoding after this error, as
// opposed to aborting the decode outright.
func (c ErrorCode) Recoverable() bool {
	switch c {
	case ErrInvalidHeader,
		ErrPLTEForbidden,
		ErrChecksumMismatch,
		ErrUnsupportedCompressionMethod,
		ErrUnsupportedFilterMethod,
		ErrUnsupportedInterlaceMethod,
		ErrFirstChunkNotIHDR,
		ErrTRNSForbidden,
		ErrInvalidTRNSLength:
		return true
	default:
		return false
	}
}

func (c ErrorCode) String() string {
	switch c {
	case ErrInvalidHeader:
		return "invalid PNG header"
	case ErrPLTEBeforeIHDR:
		return "PLTE chunk appeared before IHDR chunk"
	case ErrInvalidIHDRLength:
		return "invalid IHDR data length"
	case ErrUnsupportedBitDepth:
		return "unsupported bit depth"
	case ErrDuplicatePLTE:
		return "duplicate PLTE chunk"
	case ErrPLTEForbidden:
		return "PLTE chunk forbidden for this color type"
	case ErrChecksumMismatch:
		return "CRC checksum mismatch"
	case ErrIHDRAfterPLTE:
		return "IHDR chunk appeared after PLTE chunk"
	case ErrInvalidPLTELength:
		return "invalid PLTE data length"
	case ErrUnsupportedCompressionMethod:
		return "unsupported compression method"
	case ErrUnsupportedFilterMethod:
		return "unsupported filter method"
	case ErrUnsupportedInterlaceMethod:
		return "unsupported interlace method"
	case ErrFirstChunkNotIHDR:
		return "first chunk is not IHDR"
	case ErrInflateFailed:
		return "zlib decompression failed"
	case ErrNoIHDRBeforeIEND:
		return "no IHDR chunk seen before IEND"
	case ErrMissingRequiredPLTE:
		return "PLTE chunk required for this color type but missing"
	case ErrUnknownFilterType:
		return "unknown scanline filter type"
	case ErrUnsupportedColorType:
		return "unsupported color type"
	case ErrTRNSBeforeIHDR:
		return "tRNS chunk appeared before IHDR chunk"
	case ErrTRNSForbidden:
		return "tRNS chunk forbidden for this color type"
	case ErrInvalidTRNSLength:
		return "invalid tRNS data length"
	case ErrIllegalColorTypeBitDepth:
		return "illegal color type and bit depth combination"
	case ErrPixelTypeUndefined:
		return "pixel type undefined (IHDR not yet seen)"
	case ErrSampleOutOfRange:
		return "normalized sample out of range"
	default:
		return "unknown error"
	}
}

// DecodeError is the structured error type surfaced by every failure mode
// in the decode pipeline. It carries the classified code, an approximate
// byte offset into the input stream, and a human-readable detail message;
// it wraps cleanly with github.com/pkg/errors so callers can use
// errors.Cause / errors.As to recover the code.
type DecodeError struct {
	Code      ErrorCode
	Offset    int64
	Detail    string
	Recovered bool
}

func (e *DecodeError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("pngdec: %s (offset %d)", e.Code, e.Offset)
	}
	return fmt.Sprintf("pngdec: %s: %s (offset %d)", e.Code, e.Detail, e.Offset)
}

// newDecodeError builds a DecodeError at the given byte offset, wrapped
// with a stack trace via pkg/errors for diagnostic logging.
func newDecodeError(code ErrorCode, offset int64, detail string) error {
	return errors.WithStack(&DecodeError{Code: code, Offset: offset, Detail: detail, Recovered: false})
}

// asDecodeError unwraps err (following pkg/errors causes) to its underlying
// *DecodeError, if any.
func asDecodeError(err error) (*DecodeError, bool) {
	de, ok := errors.Cause(err).(*DecodeError)
	return de, ok
}
