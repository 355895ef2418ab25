package gif

import (
	"fmt"
	"sync"
)

// Renderer is a render session over a parsed Image. It owns the canvas
// the frames are composited onto and must advance through the frames in
// order; requesting an earlier frame than the last one rendered replays
// the animation from the first frame.
//
// A Renderer is safe for concurrent use; calls are serialized.
type Renderer struct {
	img *Image

	mu           sync.Mutex
	canvas       []uint32
	prevCanvas   []uint32 // snapshot restored by DisposalRestorePrevious
	lastIndex    int      // -1 before the first frame is drawn
	lastDisposal Disposal
	lastTransp   bool // whether the last drawn frame used transparency
	pixels       []uint32
}

// NewRenderer returns an independent render session over img.
func (img *Image) NewRenderer() *Renderer {
	r := &Renderer{img: img}
	r.reset()
	return r
}

// RenderFrame composites frames up to index i through the image's default
// session and returns a copy of the canvas as width*height packed ARGB
// pixels in row-major order.
func (img *Image) RenderFrame(i int) ([]uint32, error) {
	img.sessionOnce.Do(func() {
		img.session = img.NewRenderer()
	})
	return img.session.RenderFrame(i)
}

// reset starts over with a transparent canvas. The initial disposal makes
// the first frame draw onto a cleared, fully transparent canvas.
func (r *Renderer) reset() {
	n := r.img.width * r.img.height
	if len(r.canvas) != n {
		r.canvas = make([]uint32, n)
		r.prevCanvas = make([]uint32, n)
	} else {
		clear(r.canvas)
		clear(r.prevCanvas)
	}
	r.lastIndex = -1
	r.lastDisposal = DisposalRestoreBackground
	r.lastTransp = true
}

// RenderFrame composites frames up to index i and returns a copy of the
// canvas. A decode fault in a frame leaves the session on the last frame
// that rendered successfully.
func (r *Renderer) RenderFrame(i int) ([]uint32, error) {
	if i < 0 || i >= len(r.img.Frames) {
		return nil, fmt.Errorf("%w: %d of %d", ErrFrameIndex, i, len(r.img.Frames))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if i < r.lastIndex {
		r.reset()
	}
	for n := r.lastIndex + 1; n <= i; n++ {
		if err := r.drawFrame(n); err != nil {
			return nil, fmt.Errorf("frame %d: %w", n, err)
		}
	}

	out := make([]uint32, len(r.canvas))
	copy(out, r.canvas)
	return out, nil
}

// drawFrame disposes of the last frame and draws frame n on top.
func (r *Renderer) drawFrame(n int) error {
	fr := r.img.Frames[n]
	palette := r.img.palette(fr)

	// Decode first so a fault leaves the canvas untouched.
	if err := fr.checkCodeSize(); err != nil {
		return err
	}
	size := fr.Width * fr.Height
	if cap(r.pixels) < size {
		r.pixels = make([]uint32, size)
	}
	pixels := r.pixels[:size]
	clear(pixels)
	if err := decodeLZW(fr, colorAlphabet(fr, palette), pixels); err != nil {
		return err
	}
	if fr.Interlaced {
		pixels = deinterlace(pixels, fr.Width, fr.Height)
	}

	r.dispose(palette)
	r.blit(fr, pixels)

	r.lastIndex = n
	r.lastDisposal = fr.Disposal
	r.lastTransp = fr.Transparent
	return nil
}

// dispose prepares the canvas according to the last frame's disposal
// method. Reserved methods 4-7 leave the canvas as it is.
func (r *Renderer) dispose(palette []uint32) {
	switch r.lastDisposal {
	case DisposalNone, DisposalDoNotDispose:
		copy(r.prevCanvas, r.canvas)
	case DisposalRestoreBackground:
		copy(r.prevCanvas, r.canvas)
		var bg uint32
		if !r.lastTransp && r.img.BackgroundIndex < len(palette) {
			bg = palette[r.img.BackgroundIndex]
		}
		fill(r.canvas, bg)
	case DisposalRestorePrevious:
		copy(r.canvas, r.prevCanvas)
	}
}

// blit draws a frame's pixels at its offset, clipped to the canvas.
// Pixels with zero alpha keep the canvas pixel beneath.
func (r *Renderer) blit(fr *Frame, pixels []uint32) {
	cw, ch := r.img.width, r.img.height
	x0, x1 := max(fr.Left, 0), min(fr.Left+fr.Width, cw)
	if x0 >= x1 {
		return
	}
	for y := max(fr.Top, 0); y < min(fr.Top+fr.Height, ch); y++ {
		src := pixels[(y-fr.Top)*fr.Width+(x0-fr.Left):]
		dst := r.canvas[y*cw+x0 : y*cw+x1]
		for x := range dst {
			if c := src[x]; c>>24 != 0 {
				dst[x] = c
			}
		}
	}
}

// deinterlace reorders the rows of an interlaced frame into top-to-bottom
// order. Stored rows come in four passes: every 8th row from 0, every 8th
// from 4, every 4th from 2 and every 2nd from 1.
func deinterlace(pixels []uint32, width, height int) []uint32 {
	dst := make([]uint32, len(pixels))
	group2 := ceilDiv(height, 8)
	group3 := group2 + ceilDiv(height-4, 8)
	group4 := group3 + ceilDiv(height-2, 4)

	row := func(srcY, dstY int) {
		copy(dst[dstY*width:(dstY+1)*width], pixels[srcY*width:(srcY+1)*width])
	}
	for y := 0; y < group2; y++ {
		row(y, y*8)
	}
	for y := group2; y < group3; y++ {
		row(y, (y-group2)*8+4)
	}
	for y := group3; y < group4; y++ {
		row(y, (y-group3)*4+2)
	}
	for y := group4; y < height; y++ {
		row(y, (y-group4)*2+1)
	}
	return dst
}

// ceilDiv returns ceil(n/d) for d > 0, or 0 when n <= 0.
func ceilDiv(n, d int) int {
	if n <= 0 {
		return 0
	}
	return (n + d - 1) / d
}
