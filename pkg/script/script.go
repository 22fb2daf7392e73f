// Package script holds compiled actor programs and the operand reader used
// to decode them.
//
// Every Script owns a private byte buffer. Branch opcodes rewrite their own
// opcode byte to memoise outcomes, so two actors must never share a buffer
// even when their scripts are byte-identical.
package script

import (
	"errors"
	"fmt"

	"github.com/zurustar/twinscript/pkg/fileutil"
	"github.com/zurustar/twinscript/pkg/opcode"
)

// ErrOutOfBounds is returned when a read, jump or patch falls outside the
// script.
var ErrOutOfBounds = errors.New("script: offset out of bounds")

// ErrLengthMismatch is returned when restoring bytes of a different length.
var ErrLengthMismatch = errors.New("script: length mismatch")

// Script is one compiled LIFE or MOVE program of one actor instance.
type Script struct {
	kind     opcode.Kind
	code     []byte
	pristine []byte
}

// New copies code into a new actor-private Script.
func New(kind opcode.Kind, code []byte) *Script {
	s := &Script{
		kind:     kind,
		code:     make([]byte, len(code)),
		pristine: make([]byte, len(code)),
	}
	copy(s.code, code)
	copy(s.pristine, code)
	return s
}

// Kind returns the program family of the script.
func (s *Script) Kind() opcode.Kind {
	return s.kind
}

// Len returns the script length in bytes. It never changes.
func (s *Script) Len() int {
	return len(s.code)
}

// InBounds reports whether off addresses a byte of the script.
func (s *Script) InBounds(off int) bool {
	return off >= 0 && off < len(s.code)
}

// At returns the byte at off.
func (s *Script) At(off int) (byte, error) {
	if !s.InBounds(off) {
		return 0, fmt.Errorf("%w: %d (len %d)", ErrOutOfBounds, off, len(s.code))
	}
	return s.code[off], nil
}

// Bytes returns a copy of the current bytes, self-modified opcodes included.
func (s *Script) Bytes() []byte {
	out := make([]byte, len(s.code))
	copy(out, s.code)
	return out
}

// PatchOpcode rewrites the single opcode byte at off. It is the only way a
// script changes after loading; operand bytes and length are never touched.
func (s *Script) PatchOpcode(off int, code byte) error {
	if !s.InBounds(off) {
		return fmt.Errorf("%w: patch at %d (len %d)", ErrOutOfBounds, off, len(s.code))
	}
	s.code[off] = code
	return nil
}

// Reset restores the bytes the script was loaded with.
func (s *Script) Reset() {
	copy(s.code, s.pristine)
}

// Restore overwrites the current bytes, e.g. from a snapshot. The length
// must match.
func (s *Script) Restore(code []byte) error {
	if len(code) != len(s.code) {
		return fmt.Errorf("%w: have %d, got %d", ErrLengthMismatch, len(s.code), len(code))
	}
	copy(s.code, code)
	return nil
}

// Loader reads binary script files through a FileSystem.
type Loader struct {
	fs fileutil.FileSystem
}

// NewLoader creates a Loader rooted at basePath on the real file system.
func NewLoader(basePath string) *Loader {
	return &Loader{fs: fileutil.NewRealFS(basePath)}
}

// NewLoaderFS creates a Loader over an arbitrary FileSystem.
func NewLoaderFS(fs fileutil.FileSystem) *Loader {
	return &Loader{fs: fs}
}

// Load reads name (case-insensitively) as a script of the given kind.
func (l *Loader) Load(kind opcode.Kind, name string) (*Script, error) {
	data, err := l.fs.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s script %s: %w", kind, name, err)
	}
	return New(kind, data), nil
}
