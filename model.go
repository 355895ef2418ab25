package gif

import (
	"fmt"
	"image"
	"sync"
)

// Disposal tells how the canvas is treated after a frame is displayed.
type Disposal int

const (
	DisposalNone              Disposal = 0 // no disposal specified
	DisposalDoNotDispose      Disposal = 1 // leave the frame in place
	DisposalRestoreBackground Disposal = 2 // clear to the background color
	DisposalRestorePrevious   Disposal = 3 // restore the canvas as it was before the frame
)

func (d Disposal) String() string {
	switch d {
	case DisposalNone:
		return "None"
	case DisposalDoNotDispose:
		return "DoNotDispose"
	case DisposalRestoreBackground:
		return "RestoreBackground"
	case DisposalRestorePrevious:
		return "RestorePrevious"
	default:
		return fmt.Sprintf("Disposal(%d)", int(d))
	}
}

// Image is a parsed GIF data stream. It is immutable once Parse returns
// and may be shared between goroutines; rendering state lives in a
// Renderer.
type Image struct {
	Header string // "GIF87a" or "GIF89a"

	width  int
	height int

	HasGlobalColorTable bool
	ColorResolution     int // bits per primary color, 1-8
	SortFlag            bool
	GlobalColorTable    []uint32 // opaque ARGB
	BackgroundIndex     int
	PixelAspectRatio    int

	AppID       string // usually "NETSCAPE"
	AppAuthCode string // usually "2.0"
	loopCount   int

	Comments []string
	Frames   []*Frame

	sessionOnce sync.Once
	session     *Renderer
}

// Frame is one image descriptor of a GIF stream together with the graphic
// control extension that preceded it.
type Frame struct {
	// Graphic control extension
	Disposal         Disposal
	Transparent      bool
	TransparentIndex byte
	Delay            int // hundredths of a second

	// Image descriptor
	Left, Top          int
	Width, Height      int
	HasLocalColorTable bool
	Interlaced         bool
	SortFlag           bool
	LocalColorTable    []uint32 // opaque ARGB

	// Image data
	MinCodeSize int
	data        []byte // concatenated sub-blocks plus lzwGuardBytes zeros
}

// FirstCodeSize is the width of the first code in the frame's LZW stream.
func (fr *Frame) FirstCodeSize() int { return fr.MinCodeSize + 1 }

// ClearCode is the LZW code that resets the dictionary.
func (fr *Frame) ClearCode() int { return 1 << uint(fr.MinCodeSize) }

// EndOfInfoCode is the LZW code that terminates the stream.
func (fr *Frame) EndOfInfoCode() int { return fr.ClearCode() + 1 }

// Bounds returns the frame rectangle in canvas coordinates.
func (fr *Frame) Bounds() image.Rectangle {
	return image.Rect(fr.Left, fr.Top, fr.Left+fr.Width, fr.Top+fr.Height)
}

// DataLen returns the size of the frame's compressed payload.
func (fr *Frame) DataLen() int {
	if len(fr.data) < lzwGuardBytes {
		return 0
	}
	return len(fr.data) - lzwGuardBytes
}

// palette returns the color table in effect for fr.
func (img *Image) palette(fr *Frame) []uint32 {
	if fr.HasLocalColorTable {
		return fr.LocalColorTable
	}
	return img.GlobalColorTable
}

// Width returns the logical screen width.
func (img *Image) Width() int { return img.width }

// Height returns the logical screen height.
func (img *Image) Height() int { return img.height }

// FrameCount returns the number of frames.
func (img *Image) FrameCount() int { return len(img.Frames) }

// LoopCount returns the Netscape repeat count, 0 meaning loop forever.
func (img *Image) LoopCount() int { return img.loopCount }

// Frame returns frame i, or nil if i is out of range.
func (img *Image) Frame(i int) *Frame {
	if i < 0 || i >= len(img.Frames) {
		return nil
	}
	return img.Frames[i]
}

// FrameDelay returns the delay of frame i in hundredths of a second, or 0
// if i is out of range.
func (img *Image) FrameDelay(i int) int {
	fr := img.Frame(i)
	if fr == nil {
		return 0
	}
	return fr.Delay
}

// BackgroundColor returns the ARGB background color: the background index
// looked up in the first frame's local color table if it has one, else in
// the global color table, else 0.
func (img *Image) BackgroundColor() uint32 {
	var tbl []uint32
	switch {
	case len(img.Frames) > 0 && img.Frames[0].HasLocalColorTable:
		tbl = img.Frames[0].LocalColorTable
	case img.HasGlobalColorTable:
		tbl = img.GlobalColorTable
	}
	if img.BackgroundIndex < len(tbl) {
		return tbl[img.BackgroundIndex]
	}
	return 0
}
