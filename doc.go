// Package pngdec decodes a PNG bitstream into a canonical 8-bit RGBA pixel
// buffer.
//
// It implements the reader side of the PNG specification (ISO/IEC 15948):
// the critical chunk pipeline (IHDR, PLTE, IDAT, IEND), the tRNS ancillary
// chunk, all five scanline filters, both interlace schemes, and zlib/deflate
// decompression of the concatenated image data stream. It does not encode
// PNG, perform color management, or produce anything other than a flat
// RGBA8 buffer.
package pngdec
