package gif

// lzwGuardBytes is the number of zero bytes appended to every frame payload
// so that the three-byte window read by bitReader never leaves the slice.
const lzwGuardBytes = 2

// maxCodeSize is the widest LZW code a GIF stream may use.
const maxCodeSize = 12

// bitReader extracts LSB-first codes of up to 12 bits from a frame payload.
//
// Unlike a general purpose reader it does not check bounds per read: the
// payload carries lzwGuardBytes trailing zeros and callers never ask for
// more bits than bitsAvailable reports.
type bitReader struct {
	data      []byte
	bitPos    int // next bit to read
	bitsTotal int // logical bits, guard excluded
}

// newBitReader creates a bit reader over a guarded payload.
func newBitReader(data []byte) *bitReader {
	n := len(data) - lzwGuardBytes
	if n < 0 {
		n = 0
	}
	return &bitReader{
		data:      data,
		bitsTotal: n << 3,
	}
}

// read returns the next n bits (1 <= n <= 12) as an unsigned value.
func (r *bitReader) read(n int) uint32 {
	i := r.bitPos >> 3
	window := uint32(r.data[i]) | uint32(r.data[i+1])<<8 | uint32(r.data[i+2])<<16
	window >>= uint(r.bitPos & 7)
	r.bitPos += n
	return window & (1<<uint(n) - 1)
}

// bitsAvailable returns the number of logical bits left.
func (r *bitReader) bitsAvailable() int {
	if r.bitPos >= r.bitsTotal {
		return 0
	}
	return r.bitsTotal - r.bitPos
}
