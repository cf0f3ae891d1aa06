package pngdec

import (
	"encoding/binary"
	"io"

	"github.com/snksoft/crc"
)

var pngSignature = [8]byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

// chunkType is the four-character tag identifying a chunk's purpose.
type chunkType [4]byte

func (t chunkType) String() string { return string(t[:]) }

var (
	ctIHDR = chunkType{'I', 'H', 'D', 'R'}
	ctPLTE = chunkType{'P', 'L', 'T', 'E'}
	ctIDAT = chunkType{'I', 'D', 'A', 'T'}
	ctIEND = chunkType{'I', 'E', 'N', 'D'}
	ctTRNS = chunkType{'t', 'R', 'N', 'S'}
)

// rawChunk is a single parsed chunk: its length-prefixed type and data,
// with the trailing CRC left for the caller to verify against type+data.
type rawChunk struct {
	Type Type
	Data []byte
	CRC  uint32
}

// Type is the exported form of a chunk's four-character tag, surfaced on
// DecodeError and in verbose logging.
type Type = chunkType

// chunkReader pulls one chunk at a time off r, tracking the approximate
// byte offset for error reporting the way the original decoder's
// byte_reader does.
type chunkReader struct {
	r      io.Reader
	offset int64
}

func newChunkReader(r io.Reader) *chunkReader {
	return &chunkReader{r: r}
}

// readSignature consumes and validates the 8-byte PNG magic header.
func (cr *chunkReader) readSignature() error {
	var sig [8]byte
	if _, err := io.ReadFull(cr.r, sig[:]); err != nil {
		return newDecodeError(ErrInvalidHeader, cr.offset, "truncated header")
	}
	cr.offset += 8
	if sig != pngSignature {
		return newDecodeError(ErrInvalidHeader, cr.offset, "signature mismatch")
	}
	return nil
}

// next reads the next length-type-data-CRC chunk off the stream.
func (cr *chunkReader) next() (rawChunk, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(cr.r, lenBuf[:]); err != nil {
		if err == io.EOF {
			return rawChunk{}, io.EOF
		}
		return rawChunk{}, newDecodeError(ErrInvalidHeader, cr.offset, "truncated chunk length")
	}
	length := binary.BigEndian.Uint32(lenBuf[:])
	cr.offset += 4

	var typeBuf chunkType
	if _, err := io.ReadFull(cr.r, typeBuf[:]); err != nil {
		return rawChunk{}, newDecodeError(ErrInvalidHeader, cr.offset, "truncated chunk type")
	}
	cr.offset += 4

	data := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(cr.r, data); err != nil {
			return rawChunk{}, newDecodeError(ErrInvalidHeader, cr.offset, "truncated chunk data")
		}
	}
	cr.offset += int64(length)

	var crcBuf [4]byte
	if _, err := io.ReadFull(cr.r, crcBuf[:]); err != nil {
		return rawChunk{}, newDecodeError(ErrInvalidHeader, cr.offset, "truncated chunk CRC")
	}
	storedCRC := binary.BigEndian.Uint32(crcBuf[:])
	cr.offset += 4

	return rawChunk{Type: typeBuf, Data: data, CRC: storedCRC}, nil
}

// verifyCRC recomputes the IEEE/PNG-ZIP CRC-32 over type+data and compares
// it against the chunk's stored CRC.
func verifyCRC(c rawChunk) bool {
	precedingBytes := make([]byte, 0, 4+len(c.Data))
	precedingBytes = append(precedingBytes, c.Type[:]...)
	precedingBytes = append(precedingBytes, c.Data...)
	computed := crc.CalculateCRC(crc.CRC32, precedingBytes)
	return uint32(computed) == c.CRC
}
