package pngdec

import (
	"io"

	"github.com/klauspost/compress/zlib"
)

// initialOutputCapacity is the starting size of the decompressed output
// buffer. It grows by doubling rather than being sized up front, since the
// decoder never knows the uncompressed image size until every IDAT chunk
// has been seen.
const initialOutputCapacity = 1024

// inflateStream is a true incremental zlib decompressor: feed is meant to
// be called once per IDAT chunk, each call pushing its bytes through the
// decompressor as far as they'll go before returning, rather than
// buffering the whole compressed stream and inflating it in one shot at
// the end. It is driven over an io.Pipe so klauspost/compress/zlib's
// ordinary io.Reader-based API can be fed incrementally: a background
// goroutine owns the zlib.Reader and blocks on the pipe between feed
// calls, exactly as if it were reading straight off the network.
type inflateStream struct {
	started bool
	pw      *io.PipeWriter
	done    chan inflateResult
}

type inflateResult struct {
	out []byte
	err error
}

// ensureStarted lazily launches the background decompression goroutine on
// the first byte of IDAT data, so an (invalid) image with no IDAT chunks
// never spins one up.
func (s *inflateStream) ensureStarted() {
	if s.started {
		return
	}
	s.started = true
	pr, pw := io.Pipe()
	s.pw = pw
	s.done = make(chan inflateResult, 1)
	go runInflate(pr, s.done)
}

// runInflate owns the zlib reader for the lifetime of one decode. It reads
// whatever pr currently has buffered, growing out by doubling it whenever
// the next read could push its length past half of its current capacity,
// until the stream ends (clean EOF from finish, or a decompression error).
func runInflate(pr *io.PipeReader, done chan<- inflateResult) {
	zr, err := zlib.NewReader(pr)
	if err != nil {
		pr.CloseWithError(err)
		done <- inflateResult{err: newDecodeError(ErrInflateFailed, 0, err.Error())}
		return
	}
	defer zr.Close()

	out := make([]byte, 0, initialOutputCapacity)
	for {
		out = growOutputBuffer(out)
		n, rerr := zr.Read(out[len(out):cap(out)])
		out = out[:len(out)+n]
		if rerr == io.EOF {
			pr.Close()
			done <- inflateResult{out: out}
			return
		}
		if rerr != nil {
			pr.CloseWithError(rerr)
			done <- inflateResult{out: out, err: newDecodeError(ErrInflateFailed, 0, rerr.Error())}
			return
		}
	}
}

// growOutputBuffer doubles buf's capacity whenever its length has reached
// (or passed) half of that capacity, so the buffer is never more than half
// full right before the next read.
func growOutputBuffer(buf []byte) []byte {
	if len(buf) < cap(buf)/2 {
		return buf
	}
	grown := make([]byte, len(buf), cap(buf)*2)
	copy(grown, buf)
	return grown
}

// feed pushes one IDAT chunk's raw bytes into the decompressor and blocks
// until the background goroutine has consumed them, so each call really
// does decompress incrementally rather than merely queuing bytes for
// later. If the stream has already finished (successfully or not), the
// pipe write fails and the bytes are silently discarded here: the actual
// outcome is reported once, by finish.
func (s *inflateStream) feed(data []byte) {
	if len(data) == 0 {
		return
	}
	s.ensureStarted()
	_, _ = s.pw.Write(data)
}

// finish signals end of input and waits for the background goroutine to
// drain whatever it can before returning the accumulated output.
func (s *inflateStream) finish() ([]byte, error) {
	if !s.started {
		return nil, nil
	}
	s.pw.Close()
	res := <-s.done
	return res.out, res.err
}
