package pngdec

import "github.com/rs/zerolog"

// diagnostics accumulates the classified errors encountered during a decode
// and enforces the fail-fast / unrecoverable exit policy. It mirrors the
// original decoder's error manager: every error is recorded and logged;
// an unrecoverable code always aborts the decode regardless of fail-fast,
// and a recoverable code aborts only when fail-fast is requested by the
// caller (see Options.FailFast).
type diagnostics struct {
	log      zerolog.Logger
	failFast bool
	errs     []*DecodeError
}

func newDiagnostics(log zerolog.Logger, failFast bool) *diagnostics {
	return &diagnostics{log: log, failFast: failFast}
}

// handle records err and returns a non-nil error only when the decode must
// stop: either the code is unrecoverable, or fail-fast is set. When it
// returns nil, the caller should substitute the documented sentinel value
// and continue decoding.
func (d *diagnostics) handle(err error) error {
	de, ok := asDecodeError(err)
	if !ok {
		d.log.Error().Err(err).Msg("unclassified decode error")
		return err
	}
	de.Recovered = de.Code.Recoverable()
	d.errs = append(d.errs, de)

	ev := d.log.Warn()
	if !de.Recovered {
		ev = d.log.Error()
	}
	ev.Int("code", int(de.Code)).
		Int64("offset", de.Offset).
		Str("detail", de.Detail).
		Bool("recovered", de.Recovered).
		Msg(de.Code.String())

	if !de.Recovered {
		return err
	}
	if d.failFast {
		return err
	}
	return nil
}

// errors returns every recorded error, in encounter order.
func (d *diagnostics) errors() []*DecodeError {
	return d.errs
}
