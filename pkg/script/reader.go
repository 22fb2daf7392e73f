package script

import (
	"bytes"
	"fmt"

	"github.com/zurustar/twinscript/pkg/opcode"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// DefaultCharset is the code page of text operands in the original data.
var DefaultCharset encoding.Encoding = charmap.CodePage850

// Reader decodes little-endian operands from a Script, advancing a cursor.
//
// Errors are sticky: after the first out-of-bounds read every further read
// returns zero values and Err reports the failure. Handlers can decode a
// whole operand list and let the dispatcher check Err once.
type Reader struct {
	s       *Script
	pos     int
	err     error
	charset encoding.Encoding
}

// NewReader creates a Reader positioned at pos. A nil charset selects
// DefaultCharset.
func NewReader(s *Script, pos int, charset encoding.Encoding) *Reader {
	if charset == nil {
		charset = DefaultCharset
	}
	return &Reader{s: s, pos: pos, charset: charset}
}

// Pos returns the cursor.
func (r *Reader) Pos() int {
	return r.pos
}

// Seek moves the cursor to an absolute offset. Seeking to Len() is allowed
// (end of script); anything else outside the script sets the error.
func (r *Reader) Seek(pos int) {
	if pos < 0 || pos > r.s.Len() {
		r.fail(fmt.Errorf("%w: seek to %d (len %d)", ErrOutOfBounds, pos, r.s.Len()))
		return
	}
	r.pos = pos
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) {
	r.Seek(r.pos + n)
}

// Err returns the first decode error.
func (r *Reader) Err() error {
	return r.err
}

// Script returns the underlying script.
func (r *Reader) Script() *Script {
	return r.s
}

func (r *Reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.pos < 0 || r.pos+n > r.s.Len() {
		r.fail(fmt.Errorf("%w: read %d bytes at %d (len %d)", ErrOutOfBounds, n, r.pos, r.s.Len()))
		return nil
	}
	b := r.s.code[r.pos : r.pos+n]
	r.pos += n
	return b
}

// U8 reads an unsigned byte.
func (r *Reader) U8() int {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return int(b[0])
}

// I8 reads a signed byte.
func (r *Reader) I8() int {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return int(int8(b[0]))
}

// U16 reads an unsigned little-endian 16-bit value.
func (r *Reader) U16() int {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return int(uint16(b[0]) | uint16(b[1])<<8)
}

// I16 reads a signed little-endian 16-bit value.
func (r *Reader) I16() int {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return int(int16(uint16(b[0]) | uint16(b[1])<<8))
}

// U32 reads an unsigned little-endian 32-bit value.
func (r *Reader) U32() int {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return int(uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24)
}

// Text reads NUL-terminated text and decodes it from the reader's charset.
// The terminator is consumed.
func (r *Reader) Text() string {
	if r.err != nil {
		return ""
	}
	rest := r.s.code[r.pos:]
	n := bytes.IndexByte(rest, 0)
	if n < 0 {
		r.fail(fmt.Errorf("%w: unterminated text at %d", ErrOutOfBounds, r.pos))
		return ""
	}
	raw := r.take(n + 1)
	return decodeText(r.charset, raw[:n])
}

// Signed reads a signed value of the given byte width (1 or 2).
func (r *Reader) Signed(width int) int {
	if width == 1 {
		return r.I8()
	}
	return r.I16()
}

// Arg decodes one declared operand. Text operands are returned in s with
// n left zero.
func (r *Reader) Arg(a opcode.ArgType) (n int, s string) {
	switch a.Width {
	case opcode.U8:
		return r.U8(), ""
	case opcode.I8:
		return r.I8(), ""
	case opcode.U16:
		return r.U16(), ""
	case opcode.I16:
		return r.I16(), ""
	case opcode.U32:
		return r.U32(), ""
	case opcode.String:
		return 0, r.Text()
	default:
		r.fail(fmt.Errorf("script: unsupported operand width %v", a.Width))
		return 0, ""
	}
}

func decodeText(charset encoding.Encoding, raw []byte) string {
	out, err := charset.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(out)
}

// EncodeText encodes s in charset and appends the NUL terminator. A nil
// charset selects DefaultCharset.
func EncodeText(charset encoding.Encoding, s string) ([]byte, error) {
	if charset == nil {
		charset = DefaultCharset
	}
	out, err := charset.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("script: cannot encode %q: %w", s, err)
	}
	return append(out, 0), nil
}

// Condition reads an inline condition opcode and its optional parameter.
func (r *Reader) Condition(t *opcode.Table) (c *opcode.Condition, param int) {
	c = t.Condition(byte(r.U8()))
	if c.HasParam() {
		param = r.U8()
	}
	return c, param
}

// Operand reads an inline operator opcode and a signed comparison value of
// the given width (1 or 2 bytes).
func (r *Reader) Operand(t *opcode.Table, width int) (op *opcode.Operator, value int) {
	op = t.Operator(byte(r.U8()))
	return op, r.Signed(width)
}
