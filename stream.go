package gif

import (
	"encoding/binary"
	"fmt"
)

// Block introducers and extension labels.
const (
	blockExtension  = 0x21
	blockImage      = 0x2C
	blockTrailer    = 0x3B
	extPlainText    = 0x01
	extGraphicCtrl  = 0xF9
	extComment      = 0xFE
	extApplication  = 0xFF
	headerLen       = 6
	screenDescLen   = 7
	graphicCtrlLen  = 8
	imageDescLen    = 10 // including the separator
	appHeaderLen    = 14 // introducer, label, block size, 11 byte identifier
	netscapeDataLen = 3
)

// Packed field masks.
const (
	flagColorTable   = 0x80
	flagInterlace    = 0x40
	flagImageSort    = 0x20
	flagScreenSort   = 0x08
	maskColorRes     = 0x70
	maskTableSize    = 0x07
	maskDisposal     = 0x1C
	flagTransparency = 0x01
)

// Parse parses a complete GIF data stream held in data. Frame pixels are
// not decoded; see Image.RenderFrame.
//
// A missing trailer is accepted: parsing succeeds with the frames read
// when the data runs out. All other structural faults are reported as a
// *FormatError.
func Parse(data []byte) (*Image, error) {
	p := &parser{data: data, img: &Image{}}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.img, nil
}

// parser walks a GIF stream block by block.
type parser struct {
	data []byte
	pos  int
	img  *Image

	// pending collects a graphic control extension until the image
	// descriptor it applies to completes the frame.
	pending *Frame
}

func (p *parser) parse() error {
	if err := p.parseHeader(); err != nil {
		return err
	}
	if err := p.parseScreenDescriptor(); err != nil {
		return err
	}

	for p.pos < len(p.data) {
		switch p.data[p.pos] {
		case blockExtension:
			if err := p.parseExtension(); err != nil {
				return err
			}
		case blockImage:
			if err := p.parseImage(); err != nil {
				return err
			}
		case blockTrailer:
			return nil
		default:
			return formatError(p.pos, fmt.Errorf("%w: 0x%02x", ErrUnknownBlock, p.data[p.pos]))
		}
	}
	return nil
}

// need fails with ErrTruncatedData unless n bytes are available at pos.
func (p *parser) need(n int) error {
	if n < 0 || p.pos+n > len(p.data) {
		return formatError(p.pos, ErrTruncatedData)
	}
	return nil
}

func (p *parser) uint16At(off int) int {
	return int(binary.LittleEndian.Uint16(p.data[off : off+2]))
}

func (p *parser) parseHeader() error {
	if err := p.need(headerLen); err != nil {
		return err
	}
	h := string(p.data[:headerLen])
	if h != "GIF87a" && h != "GIF89a" {
		return formatError(0, fmt.Errorf("%w: %q", ErrInvalidHeader, h))
	}
	p.img.Header = h
	p.pos = headerLen
	return nil
}

func (p *parser) parseScreenDescriptor() error {
	if err := p.need(screenDescLen); err != nil {
		return err
	}
	img := p.img
	img.width = p.uint16At(p.pos)
	img.height = p.uint16At(p.pos + 2)
	b := p.data[p.pos+4]
	img.HasGlobalColorTable = b&flagColorTable != 0
	img.ColorResolution = int(b&maskColorRes)>>4 + 1
	img.SortFlag = b&flagScreenSort != 0
	img.BackgroundIndex = int(p.data[p.pos+5])
	img.PixelAspectRatio = int(p.data[p.pos+6])
	p.pos += screenDescLen

	if img.HasGlobalColorTable {
		tbl, err := p.readColorTable(int(b & maskTableSize))
		if err != nil {
			return err
		}
		img.GlobalColorTable = tbl
	}
	return nil
}

// readColorTable reads 2^(exp+1) RGB triples as opaque ARGB colors.
func (p *parser) readColorTable(exp int) ([]uint32, error) {
	n := 1 << uint(exp+1)
	if err := p.need(3 * n); err != nil {
		return nil, err
	}
	tbl := make([]uint32, n)
	for c := range tbl {
		rgb := p.data[p.pos+3*c:]
		tbl[c] = argb(0xFF, rgb[0], rgb[1], rgb[2])
	}
	p.pos += 3 * n
	return tbl, nil
}

func (p *parser) parseExtension() error {
	if err := p.need(2); err != nil {
		return err
	}
	switch p.data[p.pos+1] {
	case extGraphicCtrl:
		return p.parseGraphicControl()
	case extApplication:
		return p.parseApplication()
	case extComment:
		p.pos += 2
		text, err := p.readSubBlocks(0)
		if err != nil {
			return err
		}
		p.img.Comments = append(p.img.Comments, string(text))
		return nil
	case extPlainText:
		// Plain text is not rendered; it closes the frame being built.
		p.pending = nil
		p.pos += 2
		return p.skipSubBlocks()
	default:
		return formatError(p.pos+1, fmt.Errorf("%w: 0x%02x", ErrUnknownExtension, p.data[p.pos+1]))
	}
}

func (p *parser) parseGraphicControl() error {
	if err := p.need(graphicCtrlLen); err != nil {
		return err
	}
	if p.pending == nil {
		p.pending = &Frame{}
	}
	fr := p.pending
	b := p.data[p.pos+3]
	fr.Disposal = Disposal(b&maskDisposal) >> 2
	fr.Transparent = b&flagTransparency != 0
	fr.Delay = p.uint16At(p.pos + 4)
	fr.TransparentIndex = p.data[p.pos+6]
	// Byte 7 is the block terminator.
	p.pos += graphicCtrlLen
	return nil
}

func (p *parser) parseApplication() error {
	if err := p.need(appHeaderLen + 1); err != nil {
		return err
	}
	p.img.AppID = string(p.data[p.pos+3 : p.pos+11])
	p.img.AppAuthCode = string(p.data[p.pos+11 : p.pos+14])
	p.pos += appHeaderLen

	if p.data[p.pos] == netscapeDataLen {
		// Sub-block ID, little-endian repeat count, terminator.
		if err := p.need(netscapeDataLen + 2); err != nil {
			return err
		}
		p.img.loopCount = p.uint16At(p.pos + 2)
		p.pos += netscapeDataLen + 2
		return nil
	}
	return p.skipSubBlocks()
}

func (p *parser) parseImage() error {
	if err := p.need(imageDescLen); err != nil {
		return err
	}
	fr := p.pending
	if fr == nil {
		fr = &Frame{}
	}
	p.pending = nil

	fr.Left = p.uint16At(p.pos + 1)
	fr.Top = p.uint16At(p.pos + 3)
	fr.Width = p.uint16At(p.pos + 5)
	fr.Height = p.uint16At(p.pos + 7)
	b := p.data[p.pos+9]
	fr.HasLocalColorTable = b&flagColorTable != 0
	fr.Interlaced = b&flagInterlace != 0
	fr.SortFlag = b&flagImageSort != 0
	p.pos += imageDescLen

	if fr.HasLocalColorTable {
		tbl, err := p.readColorTable(int(b & maskTableSize))
		if err != nil {
			return err
		}
		fr.LocalColorTable = tbl
	}

	if err := p.need(1); err != nil {
		return err
	}
	fr.MinCodeSize = int(p.data[p.pos])
	p.pos++
	payload, err := p.readSubBlocks(lzwGuardBytes)
	if err != nil {
		return err
	}
	fr.data = payload

	p.img.Frames = append(p.img.Frames, fr)
	return nil
}

// subBlocksLen scans the sub-block chain at pos and returns the total data
// size and the offset just past the zero-size terminator.
func (p *parser) subBlocksLen() (size, end int, err error) {
	i := p.pos
	for {
		if i >= len(p.data) {
			return 0, 0, formatError(i, ErrTruncatedData)
		}
		n := int(p.data[i])
		i++
		if n == 0 {
			return size, i, nil
		}
		if i+n > len(p.data) {
			return 0, 0, formatError(i-1, ErrTruncatedData)
		}
		size += n
		i += n
	}
}

// readSubBlocks concatenates the data of the sub-block chain at pos,
// followed by pad zero bytes.
func (p *parser) readSubBlocks(pad int) ([]byte, error) {
	size, end, err := p.subBlocksLen()
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, size+pad)
	for i := p.pos; i < end-1; {
		n := int(p.data[i])
		out = append(out, p.data[i+1:i+1+n]...)
		i += n + 1
	}
	p.pos = end
	return out[:size+pad], nil
}

func (p *parser) skipSubBlocks() error {
	_, end, err := p.subBlocksLen()
	if err != nil {
		return err
	}
	p.pos = end
	return nil
}
