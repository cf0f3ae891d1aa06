package pngdec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodeRecoverability(t *testing.T) {
	recoverable := []ErrorCode{
		ErrInvalidHeader,
		ErrPLTEForbidden,
		ErrChecksumMismatch,
		ErrUnsupportedCompressionMethod,
		ErrUnsupportedFilterMethod,
		ErrUnsupportedInterlaceMethod,
		ErrFirstChunkNotIHDR,
		ErrTRNSForbidden,
		ErrInvalidTRNSLength,
	}
	for _, c := range recoverable {
		assert.True(t, c.Recoverable(), "%s should be recoverable", c)
	}

	unrecoverable := []ErrorCode{
		ErrPLTEBeforeIHDR,
		ErrInvalidIHDRLength,
		ErrUnsupportedBitDepth,
		ErrDuplicatePLTE,
		ErrIHDRAfterPLTE,
		ErrInvalidPLTELength,
		ErrInflateFailed,
		ErrNoIHDRBeforeIEND,
		ErrMissingRequiredPLTE,
		ErrUnknownFilterType,
		ErrUnsupportedColorType,
		ErrTRNSBeforeIHDR,
		ErrIllegalColorTypeBitDepth,
		ErrPixelTypeUndefined,
	}
	for _, c := range unrecoverable {
		assert.False(t, c.Recoverable(), "%s should not be recoverable", c)
	}
}

func TestDecodeErrorMessage(t *testing.T) {
	err := &DecodeError{Code: ErrChecksumMismatch, Offset: 42, Detail: "IDAT"}
	assert.Contains(t, err.Error(), "CRC checksum mismatch")
	assert.Contains(t, err.Error(), "IDAT")
	assert.Contains(t, err.Error(), "42")
}

func TestAsDecodeErrorUnwrapsWrappedError(t *testing.T) {
	err := newDecodeError(ErrInvalidHeader, 0, "bad signature")
	de, ok := asDecodeError(err)
	assert.True(t, ok)
	assert.Equal(t, ErrInvalidHeader, de.Code)
}
