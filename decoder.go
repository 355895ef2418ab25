package gif

import (
	"fmt"
	"image"
	"image/color"
	"io"
)

// Animation holds every composited frame of a GIF.
type Animation struct {
	Frames    []*image.NRGBA
	Delay     []int // hundredths of a second, one per frame
	Disposal  []Disposal
	LoopCount int
	Config    image.Config
}

// DecodeConfig returns the logical screen size without decoding any
// frames.
func DecodeConfig(r io.Reader) (image.Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return image.Config{}, err
	}
	img, err := Parse(data)
	if err != nil {
		return image.Config{}, err
	}
	return img.Config(), nil
}

// Decode decodes the first frame of a GIF, composited onto the logical
// screen.
func Decode(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	img, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if img.FrameCount() == 0 {
		return nil, fmt.Errorf("%w: no frames", ErrDecode)
	}
	pix, err := img.RenderFrame(0)
	if err != nil {
		return nil, err
	}
	return ToNRGBA(pix, img.width, img.height), nil
}

// DecodeAll decodes every frame of a GIF in display order.
func DecodeAll(r io.Reader) (*Animation, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	img, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	anim := &Animation{
		Frames:    make([]*image.NRGBA, 0, img.FrameCount()),
		Delay:     make([]int, 0, img.FrameCount()),
		Disposal:  make([]Disposal, 0, img.FrameCount()),
		LoopCount: img.LoopCount(),
		Config:    img.Config(),
	}
	rd := img.NewRenderer()
	for i, fr := range img.Frames {
		pix, err := rd.RenderFrame(i)
		if err != nil {
			return nil, err
		}
		anim.Frames = append(anim.Frames, ToNRGBA(pix, img.width, img.height))
		anim.Delay = append(anim.Delay, fr.Delay)
		anim.Disposal = append(anim.Disposal, fr.Disposal)
	}
	return anim, nil
}

// Config returns the image configuration of the logical screen.
func (img *Image) Config() image.Config {
	return image.Config{
		Width:      img.width,
		Height:     img.height,
		ColorModel: color.NRGBAModel,
	}
}

// Register format with image package
func init() {
	image.RegisterFormat("gif", "GIF8?a", Decode, DecodeConfig)
}
