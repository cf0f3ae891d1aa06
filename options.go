package pngdec

import "github.com/rs/zerolog"

// Options configures a Decode call. Use DefaultOptions rather than the zero
// value: the zero value leaves CRC validation off, which DefaultOptions
// turns on.
type Options struct {
	// FailFast aborts the decode on the first recoverable error instead of
	// substituting the documented sentinel and continuing.
	FailFast bool

	// ValidateCRC verifies every chunk's CRC-32 against its stored value.
	// Disabling this skips checksum work entirely; it does not change
	// how other malformed-chunk errors are handled.
	ValidateCRC bool

	// Logger receives structured diagnostics for every recorded error
	// and, at debug level, each unrecognized chunk that is skipped. The zero value
	// (zerolog.Logger{}) discards everything.
	Logger zerolog.Logger
}

// DefaultOptions returns the Options a decode runs with when none are
// supplied explicitly: CRC validation on, fail-fast off, logging disabled.
func DefaultOptions() Options {
	return Options{
		FailFast:    false,
		ValidateCRC: true,
		Logger:      zerolog.Nop(),
	}
}
