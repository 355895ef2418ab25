package gif

// maxCodes is the size of the GIF LZW dictionary.
const maxCodes = 1 << maxCodeSize

// span locates one dictionary entry in the code table arena.
type span struct {
	start, length int32
}

// codeTable is the LZW dictionary of a single frame decode.
//
// Entries are stored back to back in one arena; spans indexes them by code.
// Literal codes map to a single alphabet value, which is a palette color in
// render mode and the index itself in index mode.
type codeTable struct {
	arena []uint32
	spans [maxCodes]span

	clearCode     int
	initCodeSize  int
	initCodeLimit int
	literalEnd    int // arena length covering literals only

	nextCode      int
	currCodeSize  int
	nextCodeLimit int
}

// newCodeTable builds a table for a stream whose first code width is
// firstCodeSize. Literal code c takes alphabet[c], or 0 when the alphabet is
// shorter than the literal range.
func newCodeTable(firstCodeSize int, alphabet []uint32) *codeTable {
	clearCode := 1 << uint(firstCodeSize-1)
	t := &codeTable{
		arena:         make([]uint32, clearCode, 2*maxCodes),
		clearCode:     clearCode,
		initCodeSize:  firstCodeSize,
		initCodeLimit: 1<<uint(firstCodeSize) - 1,
		literalEnd:    clearCode,
	}
	copy(t.arena, alphabet)
	for c := range clearCode {
		t.spans[c] = span{start: int32(c), length: 1}
	}
	// CLEAR and EOI have no output of their own.
	t.spans[clearCode] = span{start: int32(clearCode), length: 0}
	t.spans[clearCode+1] = span{start: int32(clearCode), length: 0}
	t.clear()
	return t
}

// clear resets the dictionary to its literal entries and returns the
// initial code width.
func (t *codeTable) clear() int {
	t.currCodeSize = t.initCodeSize
	t.nextCodeLimit = t.initCodeLimit
	t.nextCode = t.clearCode + 2
	t.arena = t.arena[:t.literalEnd]
	return t.currCodeSize
}

// add appends seq as the next dictionary entry and returns the code width
// to use for the following read. Once all 4096 codes are assigned the table
// is left as is.
func (t *codeTable) add(seq []uint32) int {
	if t.nextCode < maxCodes {
		if t.nextCode == t.nextCodeLimit && t.currCodeSize < maxCodeSize {
			t.currCodeSize++
			t.nextCodeLimit = 1<<uint(t.currCodeSize) - 1
		}
		start := len(t.arena)
		t.arena = append(t.arena, seq...)
		t.spans[t.nextCode] = span{start: int32(start), length: int32(len(seq))}
		t.nextCode++
	}
	return t.currCodeSize
}

// valid reports whether code currently has a dictionary entry.
func (t *codeTable) valid(code int) bool {
	return code >= 0 && code < t.nextCode
}

// entry returns the values of code. The slice aliases the arena and is only
// valid until the next add or clear.
func (t *codeTable) entry(code int) []uint32 {
	s := t.spans[code]
	return t.arena[s.start : s.start+s.length : s.start+s.length]
}
