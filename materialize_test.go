package pngdec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaterializePixelGrayscale8(t *testing.T) {
	row := []byte{0, 128, 255}
	r, g, b, a := materializePixel(row, 1, PixelTypeGrayscale8, nil, Transparency{})
	assert.EqualValues(t, 128, r)
	assert.EqualValues(t, 128, g)
	assert.EqualValues(t, 128, b)
	assert.EqualValues(t, 255, a)
}

func TestMaterializePixelGrayscale8Transparent(t *testing.T) {
	row := []byte{0, 128, 255}
	trns := Transparency{kind: TransparencyGrayscale, Gray: 128}
	_, _, _, a := materializePixel(row, 1, PixelTypeGrayscale8, nil, trns)
	assert.EqualValues(t, 0, a)
}

func TestMaterializePixelGrayscale1PacksMSBFirst(t *testing.T) {
	// byte 0b10110000 -> bits: 1,0,1,1,0,0,0,0
	row := []byte{0b10110000}
	expected := []uint8{1, 0, 1, 1, 0, 0, 0, 0}
	for i, want := range expected {
		r, _, _, _ := materializePixel(row, i, PixelTypeGrayscale1, nil, Transparency{})
		if want == 1 {
			assert.EqualValues(t, 255, r, "bit %d", i)
		} else {
			assert.EqualValues(t, 0, r, "bit %d", i)
		}
	}
}

func TestMaterializePixelRgb16Normalizes(t *testing.T) {
	row := []byte{0xFF, 0xFF, 0x00, 0x00, 0x80, 0x00}
	r, g, b, a := materializePixel(row, 0, PixelTypeRgb16, nil, Transparency{})
	assert.EqualValues(t, 255, r)
	assert.EqualValues(t, 0, g)
	assert.EqualValues(t, normalize16To8(0x8000), b)
	assert.EqualValues(t, 255, a)
}

func TestMaterializePixelPalette8(t *testing.T) {
	palette := Palette([]byte{10, 20, 30, 40, 50, 60})
	row := []byte{1}
	r, g, b, a := materializePixel(row, 0, PixelTypePalette8, palette, Transparency{})
	assert.EqualValues(t, 40, r)
	assert.EqualValues(t, 50, g)
	assert.EqualValues(t, 60, b)
	assert.EqualValues(t, 255, a)
}

func TestMaterializePixelPalette8Transparency(t *testing.T) {
	palette := Palette([]byte{10, 20, 30, 40, 50, 60})
	trns := Transparency{kind: TransparencyPalette, Palette: []byte{255, 0}}
	row := []byte{1}
	_, _, _, a := materializePixel(row, 0, PixelTypePalette8, palette, trns)
	assert.EqualValues(t, 0, a)
}

func TestMaterializePixelPalette8TransparencyShorterThanPalette(t *testing.T) {
	palette := Palette([]byte{10, 20, 30, 40, 50, 60})
	trns := Transparency{kind: TransparencyPalette, Palette: []byte{0}}
	row := []byte{1} // index 1, beyond the single tRNS entry -> opaque
	_, _, _, a := materializePixel(row, 0, PixelTypePalette8, palette, trns)
	assert.EqualValues(t, 255, a)
}

func TestMaterializePixelRgbAlpha8(t *testing.T) {
	row := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	r, g, b, a := materializePixel(row, 1, PixelTypeRgbAlpha8, nil, Transparency{})
	assert.EqualValues(t, 5, r)
	assert.EqualValues(t, 6, g)
	assert.EqualValues(t, 7, b)
	assert.EqualValues(t, 8, a)
}

func TestMaterializeRowAppendsAllPixels(t *testing.T) {
	row := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	out := materializeRow(nil, row, PixelTypeRgbAlpha8, 2, nil, Transparency{})
	assert.Len(t, out, 8)
	assert.Equal(t, row, out)
}

func TestExtractSubByteSample(t *testing.T) {
	row := []byte{0b11001000}
	assert.EqualValues(t, 0b11, extractSubByteSample(row, 0, 2))
	assert.EqualValues(t, 0b00, extractSubByteSample(row, 1, 2))
	assert.EqualValues(t, 0b10, extractSubByteSample(row, 2, 2))
	assert.EqualValues(t, 0b00, extractSubByteSample(row, 3, 2))
}
