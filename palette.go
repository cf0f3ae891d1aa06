package pngdec

// Palette holds the decoded PLTE chunk: consecutive (R, G, B) triples.
type Palette []byte

// entries returns the number of (R, G, B) triples in the palette.
func (p Palette) entries() int {
	return len(p) / 3
}

// rgb returns the red, green, and blue samples for palette index i. The
// caller must ensure i is within range; out-of-range lookups are handled
// by the pixel materializer, which falls back to opaque black rather than
// indexing past the slice.
func (p Palette) rgb(i int) (r, g, b uint8) {
	o := i * 3
	return p[o], p[o+1], p[o+2]
}
