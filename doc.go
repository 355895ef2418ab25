// Package gif implements a pure Go GIF87a/GIF89a decoder.
//
// Parsing walks the block structure once and captures each frame's
// compressed payload and metadata. Pixels are produced lazily: rendering
// frame i LZW-decodes it and composites it onto a canvas carried over from
// frames 0..i-1, honouring each frame's disposal method.
//
// Parsing and rendering:
//
//	img, err := gif.Parse(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for i := range img.FrameCount() {
//	    pix, err := img.RenderFrame(i) // width*height packed ARGB
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    show(pix, img.FrameDelay(i))
//	}
//
// Frames are cheapest to render in increasing order. Requesting an earlier
// frame than the last one rendered replays the animation from frame 0.
// Use NewRenderer for independent render sessions over the same parsed
// image.
//
// The package also registers itself with the image package:
//
//	import _ "github.com/ajroetker/go-gif"
//	img, _, err := image.Decode(reader)
package gif
