package gif

import (
	"image"
	"image/color"
)

// argb packs a color as 0xAARRGGBB.
func argb(a, r, g, b byte) uint32 {
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// ARGBColor converts a packed 0xAARRGGBB pixel to a color.NRGBA.
func ARGBColor(c uint32) color.NRGBA {
	return color.NRGBA{
		R: uint8(c >> 16),
		G: uint8(c >> 8),
		B: uint8(c),
		A: uint8(c >> 24),
	}
}

// ToNRGBA copies a row-major packed ARGB buffer into a new NRGBA image.
// GIF colors are never premultiplied, so NRGBA holds them losslessly.
func ToNRGBA(pix []uint32, width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	n := min(len(pix), width*height)
	for i := range n {
		c := pix[i]
		o := 4 * i
		img.Pix[o+0] = uint8(c >> 16)
		img.Pix[o+1] = uint8(c >> 8)
		img.Pix[o+2] = uint8(c)
		img.Pix[o+3] = uint8(c >> 24)
	}
	return img
}

// fill sets every pixel of buf to c.
func fill(buf []uint32, c uint32) {
	if len(buf) == 0 {
		return
	}
	buf[0] = c
	for i := 1; i < len(buf); i *= 2 {
		copy(buf[i:], buf[:i])
	}
}
