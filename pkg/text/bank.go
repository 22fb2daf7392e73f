// Package text decodes dialogue text banks.
//
// A bank is a little-endian uint16 offset table followed by the entries it
// points to. The table has one slot per entry plus a closing slot holding
// the end of the last entry, so the first offset divided by two is the slot
// count. Entries are NUL-terminated and encoded in a DOS code page.
//
// An optional index bank of little-endian uint16 values maps each entry,
// in order, to the message id used by scripts.
package text

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/zurustar/twinscript/pkg/fileutil"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

var (
	ErrMalformed     = errors.New("text: malformed bank")
	ErrIndexMismatch = errors.New("text: index does not match bank")
)

// Bank resolves message ids to text. It implements world.Resources.
type Bank struct {
	entries []string
	byID    map[int]int
}

// Decode parses a bank. A nil charset selects code page 850.
func Decode(data []byte, charset encoding.Encoding) (*Bank, error) {
	if charset == nil {
		charset = charmap.CodePage850
	}
	if len(data) < 2 {
		return nil, fmt.Errorf("%w: %d bytes", ErrMalformed, len(data))
	}
	first := u16(data, 0)
	if first < 2 || first%2 != 0 || first > len(data) {
		return nil, fmt.Errorf("%w: offset table size %d", ErrMalformed, first)
	}
	slots := first / 2
	offsets := make([]int, slots)
	for i := range offsets {
		offsets[i] = u16(data, i*2)
	}
	// 終端スロットがない古い形式ではファイル末尾を終端とする
	if offsets[slots-1] != len(data) {
		offsets = append(offsets, len(data))
	}

	dec := charset.NewDecoder()
	b := &Bank{entries: make([]string, 0, len(offsets)-1)}
	for i := 0; i+1 < len(offsets); i++ {
		start, end := offsets[i], offsets[i+1]
		if start < first || end < start || end > len(data) {
			return nil, fmt.Errorf("%w: entry %d spans %d..%d", ErrMalformed, i, start, end)
		}
		raw := data[start:end]
		if n := bytes.IndexByte(raw, 0); n >= 0 {
			raw = raw[:n]
		}
		s, err := dec.Bytes(raw)
		if err != nil {
			return nil, fmt.Errorf("text: entry %d: %w", i, err)
		}
		b.entries = append(b.entries, string(s))
	}
	return b, nil
}

// Load reads a bank and, when index is not empty, its index bank.
func Load(fs fileutil.FileSystem, bank, index string, charset encoding.Encoding) (*Bank, error) {
	data, err := fs.ReadFile(bank)
	if err != nil {
		return nil, fmt.Errorf("failed to read text bank %s: %w", bank, err)
	}
	b, err := Decode(data, charset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", bank, err)
	}
	if index == "" {
		return b, nil
	}
	idx, err := fs.ReadFile(index)
	if err != nil {
		return nil, fmt.Errorf("failed to read text index %s: %w", index, err)
	}
	if err := b.SetIndex(idx); err != nil {
		return nil, fmt.Errorf("%s: %w", index, err)
	}
	return b, nil
}

// SetIndex maps entries to message ids from an index bank.
func (b *Bank) SetIndex(idx []byte) error {
	if len(idx)%2 != 0 || len(idx)/2 != len(b.entries) {
		return fmt.Errorf("%w: %d ids for %d entries", ErrIndexMismatch, len(idx)/2, len(b.entries))
	}
	b.byID = make(map[int]int, len(b.entries))
	for i := range b.entries {
		b.byID[u16(idx, i*2)] = i
	}
	return nil
}

// Len returns the number of entries.
func (b *Bank) Len() int {
	return len(b.entries)
}

// Text returns the text of a message id. Without an index the id is the
// entry number.
func (b *Bank) Text(id int) (string, bool) {
	i := id
	if b.byID != nil {
		var ok bool
		if i, ok = b.byID[id]; !ok {
			return "", false
		}
	}
	if i < 0 || i >= len(b.entries) {
		return "", false
	}
	return b.entries[i], true
}

// Encode builds a bank from entries, with the closing slot. It is the
// inverse of Decode and is used to author fixtures.
func Encode(entries []string, charset encoding.Encoding) ([]byte, error) {
	if charset == nil {
		charset = charmap.CodePage850
	}
	enc := charset.NewEncoder()
	table := (len(entries) + 1) * 2
	out := make([]byte, table)
	for i, s := range entries {
		putU16(out[i*2:], len(out))
		raw, err := enc.Bytes([]byte(s))
		if err != nil {
			return nil, fmt.Errorf("text: entry %d: %w", i, err)
		}
		out = append(out, raw...)
		out = append(out, 0)
	}
	if len(out) > 0xFFFF {
		return nil, fmt.Errorf("%w: %d bytes exceed the offset range", ErrMalformed, len(out))
	}
	putU16(out[len(entries)*2:], len(out))
	return out, nil
}

func u16(p []byte, off int) int {
	return int(p[off]) | int(p[off+1])<<8
}

func putU16(p []byte, v int) {
	p[0] = byte(v)
	p[1] = byte(v >> 8)
}
