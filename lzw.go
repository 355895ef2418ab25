package gif

import "fmt"

// decodeLZW expands the compressed payload of fr into out, one alphabet
// value per pixel. Literal codes take their value from alphabet.
//
// A stream that ends early (no EOI, or fewer bits than the next code needs)
// leaves the rest of out untouched. Producing more values than out can hold
// or referencing a code that is neither assigned nor the next free code is
// a decode fault.
func decodeLZW(fr *Frame, alphabet []uint32, out []uint32) error {
	if err := fr.checkCodeSize(); err != nil {
		return err
	}

	codes := newCodeTable(fr.FirstCodeSize(), alphabet)
	in := newBitReader(fr.data)
	clearCode, endOfInfoCode := fr.ClearCode(), fr.EndOfInfoCode()

	var cand []uint32
	outPos := 0
	emit := func(vals []uint32) error {
		if len(vals) > len(out)-outPos {
			return fmt.Errorf("%w: pixel data exceeds %dx%d frame", ErrDecode, fr.Width, fr.Height)
		}
		outPos += copy(out[outPos:], vals)
		return nil
	}

	currCodeSize := codes.clear()
	prevCode := -1 // no previous code right after a CLEAR
	for currCodeSize <= in.bitsAvailable() {
		code := int(in.read(currCodeSize))
		switch {
		case code == clearCode:
			currCodeSize = codes.clear()
			prevCode = -1
			continue
		case code == endOfInfoCode:
			return nil
		case prevCode < 0:
			// First code after a CLEAR is emitted as is; nothing is added.
			if code >= clearCode {
				return fmt.Errorf("%w: code %d follows clear code", ErrDecode, code)
			}
			if err := emit(codes.entry(code)); err != nil {
				return err
			}
			prevCode = code
			continue
		}

		prevVals := codes.entry(prevCode)
		cand = append(cand[:0], prevVals...)
		switch {
		case codes.valid(code):
			vals := codes.entry(code)
			if err := emit(vals); err != nil {
				return err
			}
			cand = append(cand, vals[0])
		case code == codes.nextCode:
			// KwKwK: the code being defined is the one just read.
			cand = append(cand, prevVals[0])
			if err := emit(cand); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: code %d not in table (next %d)", ErrDecode, code, codes.nextCode)
		}
		currCodeSize = codes.add(cand)
		prevCode = code
	}
	return nil
}

// checkCodeSize rejects minimum code sizes whose first code would not fit
// in maxCodeSize bits.
func (fr *Frame) checkCodeSize() error {
	if fr.MinCodeSize < 2 || fr.MinCodeSize >= maxCodeSize {
		return fmt.Errorf("%w: invalid LZW minimum code size %d", ErrDecode, fr.MinCodeSize)
	}
	return nil
}

// identityAlphabet maps every literal code of a stream to itself.
func identityAlphabet(minCodeSize int) []uint32 {
	n := 1 << uint(minCodeSize)
	a := make([]uint32, n)
	for i := range a {
		a[i] = uint32(i)
	}
	return a
}

// colorAlphabet maps literal codes to ARGB colors from palette. The
// transparent index, if any, maps to 0.
func colorAlphabet(fr *Frame, palette []uint32) []uint32 {
	a := make([]uint32, 1<<uint(fr.MinCodeSize))
	copy(a, palette)
	if fr.Transparent && int(fr.TransparentIndex) < len(palette) && int(fr.TransparentIndex) < len(a) {
		a[fr.TransparentIndex] = 0
	}
	return a
}

// DecodeIndices returns the raw palette indices of the frame, in stream
// order. Interlaced frames are not reordered.
func (fr *Frame) DecodeIndices() ([]byte, error) {
	if fr.MinCodeSize < 2 || fr.MinCodeSize > 8 {
		return nil, fmt.Errorf("%w: invalid LZW minimum code size %d", ErrDecode, fr.MinCodeSize)
	}
	out := make([]uint32, fr.Width*fr.Height)
	if err := decodeLZW(fr, identityAlphabet(fr.MinCodeSize), out); err != nil {
		return nil, err
	}
	idx := make([]byte, len(out))
	for i, v := range out {
		idx[i] = byte(v)
	}
	return idx, nil
}
