package gif

import (
	"bytes"
	"compress/lzw"
	"testing"
)

// codeWriter packs variable-width codes LSB first, the way a GIF encoder
// lays out an LZW stream.
type codeWriter struct {
	buf   []byte
	acc   uint32
	nbits uint
}

func (w *codeWriter) write(code uint32, width int) {
	w.acc |= code << w.nbits
	w.nbits += uint(width)
	for w.nbits >= 8 {
		w.buf = append(w.buf, byte(w.acc))
		w.acc >>= 8
		w.nbits -= 8
	}
}

// bytes flushes any partial byte and returns the packed stream.
func (w *codeWriter) bytes() []byte {
	if w.nbits > 0 {
		w.buf = append(w.buf, byte(w.acc))
		w.acc, w.nbits = 0, 0
	}
	return w.buf
}

// code is one LZW code with the width it is written at.
type code struct {
	value uint32
	width int
}

func packCodes(codes ...code) []byte {
	var w codeWriter
	for _, c := range codes {
		w.write(c.value, c.width)
	}
	return w.bytes()
}

// lzwEncode compresses palette indices with the standard library encoder,
// which emits a GIF compatible stream (leading CLEAR, trailing EOI).
func lzwEncode(t *testing.T, minCodeSize int, indices []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := lzw.NewWriter(&buf, lzw.LSB, minCodeSize)
	if _, err := w.Write(indices); err != nil {
		t.Fatalf("lzw write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("lzw close: %v", err)
	}
	return buf.Bytes()
}

// rgb is a color table entry.
type rgb [3]byte

// tableExp returns the packed size exponent of a color table.
func tableExp(tbl []rgb) byte {
	exp := byte(0)
	for 1<<(exp+1) < len(tbl) {
		exp++
	}
	return exp
}

// gifBuilder assembles GIF data streams block by block.
type gifBuilder struct {
	buf bytes.Buffer
}

func newGIF(width, height int, global []rgb, bgIndex byte) *gifBuilder {
	b := &gifBuilder{}
	b.buf.WriteString("GIF89a")
	b.u16(width)
	b.u16(height)
	var packed byte = 0x70 // 8 bit color resolution
	if global != nil {
		packed |= 0x80 | tableExp(global)
	}
	b.buf.WriteByte(packed)
	b.buf.WriteByte(bgIndex)
	b.buf.WriteByte(0)
	b.table(global)
	return b
}

func (b *gifBuilder) u16(v int) {
	b.buf.WriteByte(byte(v))
	b.buf.WriteByte(byte(v >> 8))
}

func (b *gifBuilder) table(tbl []rgb) {
	if tbl == nil {
		return
	}
	n := 1 << (tableExp(tbl) + 1)
	for i := range n {
		var c rgb
		if i < len(tbl) {
			c = tbl[i]
		}
		b.buf.Write(c[:])
	}
}

func (b *gifBuilder) subBlocks(data []byte) {
	for len(data) > 0 {
		n := min(len(data), 255)
		b.buf.WriteByte(byte(n))
		b.buf.Write(data[:n])
		data = data[n:]
	}
	b.buf.WriteByte(0)
}

func (b *gifBuilder) graphicControl(d Disposal, transparent bool, tidx byte, delay int) *gifBuilder {
	b.buf.Write([]byte{0x21, 0xF9, 0x04})
	packed := byte(d) << 2
	if transparent {
		packed |= 1
	}
	b.buf.WriteByte(packed)
	b.u16(delay)
	b.buf.WriteByte(tidx)
	b.buf.WriteByte(0)
	return b
}

func (b *gifBuilder) netscape(loops int) *gifBuilder {
	b.buf.Write([]byte{0x21, 0xFF, 0x0B})
	b.buf.WriteString("NETSCAPE2.0")
	b.buf.Write([]byte{0x03, 0x01})
	b.u16(loops)
	b.buf.WriteByte(0)
	return b
}

func (b *gifBuilder) comment(text string) *gifBuilder {
	b.buf.Write([]byte{0x21, 0xFE})
	b.subBlocks([]byte(text))
	return b
}

// frameSpec describes one image descriptor and its data.
type frameSpec struct {
	left, top, width, height int
	interlaced               bool
	local                    []rgb
	minCodeSize              int
	indices                  []byte // encoded with lzwEncode unless raw is set
	raw                      []byte
}

func (b *gifBuilder) image(t *testing.T, f frameSpec) *gifBuilder {
	t.Helper()
	b.buf.WriteByte(0x2C)
	b.u16(f.left)
	b.u16(f.top)
	b.u16(f.width)
	b.u16(f.height)
	var packed byte
	if f.local != nil {
		packed |= 0x80 | tableExp(f.local)
	}
	if f.interlaced {
		packed |= 0x40
	}
	b.buf.WriteByte(packed)
	b.table(f.local)
	mcs := f.minCodeSize
	if mcs == 0 {
		mcs = 2
	}
	b.buf.WriteByte(byte(mcs))
	data := f.raw
	if data == nil {
		data = lzwEncode(t, mcs, f.indices)
	}
	b.subBlocks(data)
	return b
}

func (b *gifBuilder) trailer() *gifBuilder {
	b.buf.WriteByte(0x3B)
	return b
}

func (b *gifBuilder) bytes() []byte { return b.buf.Bytes() }

func TestCodeWriter_PacksLSBFirst(t *testing.T) {
	got := packCodes(code{4, 3}, code{1, 3}, code{5, 3})
	// 100 | 001<<3 | 101<<6 = 0b01_001_100, 0b1
	want := []byte{0x4C, 0x01}
	if !bytes.Equal(got, want) {
		t.Errorf("packCodes = %#v, want %#v", got, want)
	}
}
