// Package asm builds, assembles and disassembles actor scripts.
//
// Builder is the programmatic form used by tests and tools:
//
//	b := asm.NewBuilder(opcode.LBA2, opcode.Life)
//	b.If("IF", "DISTANCE", 2, ">", 1000, "skip").
//		Op("SET_VAR_GAME", 0, 1).
//		Label("skip").
//		Op("ENDIF").
//		Op("END")
//	code, err := b.Bytes()
//
// Assemble accepts the same program as text, one instruction per line.
package asm

import (
	"errors"
	"fmt"
	"math"

	"github.com/zurustar/twinscript/pkg/opcode"
	"github.com/zurustar/twinscript/pkg/script"
	"golang.org/x/text/encoding"
)

var (
	ErrUnknownMnemonic = errors.New("unknown mnemonic")
	ErrUnknownLabel    = errors.New("unknown label")
	ErrDuplicateLabel  = errors.New("duplicate label")
	ErrOperand         = errors.New("bad operand")
)

// Ref is a label reference, resolved to an absolute offset by Bytes.
type Ref string

type fixup struct {
	at    int
	label string
}

// Builder emits the bytes of one script. The first error is sticky and
// reported by Bytes.
type Builder struct {
	table   *opcode.Table
	kind    opcode.Kind
	charset encoding.Encoding

	buf        []byte
	labels     map[string]int
	fixups     []fixup
	switchCond *opcode.Condition
	err        error
}

// NewBuilder creates a Builder for one program family of a table.
func NewBuilder(t *opcode.Table, kind opcode.Kind) *Builder {
	return &Builder{table: t, kind: kind, charset: script.DefaultCharset, labels: make(map[string]int)}
}

// WithCharset sets the code page text operands are encoded in.
func (b *Builder) WithCharset(cs encoding.Encoding) *Builder {
	if cs != nil {
		b.charset = cs
	}
	return b
}

// Len returns the number of bytes emitted so far.
func (b *Builder) Len() int {
	return len(b.buf)
}

// Label binds name to the current offset.
func (b *Builder) Label(name string) *Builder {
	if _, dup := b.labels[name]; dup {
		b.fail(fmt.Errorf("%w: %s", ErrDuplicateLabel, name))
		return b
	}
	b.labels[name] = len(b.buf)
	return b
}

// Offset returns the offset bound to a label.
func (b *Builder) Offset(name string) (int, bool) {
	off, ok := b.labels[name]
	return off, ok
}

// Op emits a command with generic operands. Each argument is an int, a Ref
// (for 2-byte label operands) or a string (for text operands).
// SET_DIRMODE takes its mode and optional target as plain ints.
func (b *Builder) Op(name string, args ...any) *Builder {
	cmd, ok := b.command(name)
	if !ok {
		return b
	}
	switch {
	case cmd.Has(opcode.HasCondition) || cmd.Has(opcode.HasOperand):
		b.fail(fmt.Errorf("%w: %s needs a condition, use If/Switch/Case", ErrOperand, name))
		return b
	case cmd.Op == opcode.OpSetDirMode || cmd.Op == opcode.OpSetDirModeObj:
		b.buf = append(b.buf, cmd.Code)
		for _, a := range args {
			n, err := intArg(a)
			if err == nil {
				err = checkRange(opcode.U8, n)
			}
			if err != nil {
				b.fail(fmt.Errorf("%s: %w", name, err))
				return b
			}
			b.buf = append(b.buf, byte(n))
		}
		return b
	}
	if len(args) != len(cmd.Args) {
		b.fail(fmt.Errorf("%w: %s takes %d operands, got %d", ErrOperand, name, len(cmd.Args), len(args)))
		return b
	}
	b.buf = append(b.buf, cmd.Code)
	for i, a := range cmd.Args {
		if err := b.operand(a, args[i]); err != nil {
			b.fail(fmt.Errorf("%s operand %d: %w", name, i, err))
			return b
		}
	}
	if cmd.Op == opcode.OpEndSwitch {
		b.switchCond = nil
	}
	return b
}

// Jump emits an unconditional branch (GOTO, ELSE, OFFSET, BREAK) to label.
func (b *Builder) Jump(name, label string) *Builder {
	return b.Op(name, Ref(label))
}

// If emits a condition-bearing branch:
// [opcode][condition][param?][operator][value][label].
// param is ignored when the condition takes none.
func (b *Builder) If(name, cond string, param int, operator string, value int, label string) *Builder {
	return b.branch(name, cond, param, operator, value, Ref(label))
}

// IfAt is If with an absolute target offset instead of a label.
func (b *Builder) IfAt(name, cond string, param int, operator string, value, target int) *Builder {
	return b.branch(name, cond, param, operator, value, target)
}

func (b *Builder) branch(name, cond string, param int, operator string, value int, target any) *Builder {
	cmd, ok := b.command(name)
	if !ok {
		return b
	}
	if !cmd.Has(opcode.HasCondition) || cmd.Op == opcode.OpSwitch {
		b.fail(fmt.Errorf("%w: %s is not a conditional branch", ErrOperand, name))
		return b
	}
	b.buf = append(b.buf, cmd.Code)
	c, ok := b.condition(cond, param)
	if !ok {
		return b
	}
	b.comparison(operator, value, c.ValueWidth)
	if err := b.operand(opcode.ArgType{Width: opcode.I16, Role: opcode.RoleLabel}, target); err != nil {
		b.fail(fmt.Errorf("%s target: %w", name, err))
	}
	return b
}

// Switch emits SWITCH [condition][param?].
func (b *Builder) Switch(cond string, param int) *Builder {
	cmd, ok := b.command("SWITCH")
	if !ok {
		return b
	}
	b.buf = append(b.buf, cmd.Code)
	if c, ok := b.condition(cond, param); ok {
		b.switchCond = c
	}
	return b
}

// Case emits CASE or OR_CASE [operator][value][label]; the value width
// follows the condition of the enclosing SWITCH.
func (b *Builder) Case(name, operator string, value int, label string) *Builder {
	return b.caseTo(name, operator, value, Ref(label))
}

func (b *Builder) caseTo(name, operator string, value int, target any) *Builder {
	cmd, ok := b.command(name)
	if !ok {
		return b
	}
	if !cmd.Has(opcode.HasOperand) {
		b.fail(fmt.Errorf("%w: %s is not a case", ErrOperand, name))
		return b
	}
	width := 1
	if b.switchCond != nil {
		width = b.switchCond.ValueWidth
	}
	b.buf = append(b.buf, cmd.Code)
	b.comparison(operator, value, width)
	if err := b.operand(opcode.ArgType{Width: opcode.I16, Role: opcode.RoleLabel}, target); err != nil {
		b.fail(fmt.Errorf("%s target: %w", name, err))
	}
	return b
}

// Raw appends bytes verbatim, e.g. an opcode the table does not know.
func (b *Builder) Raw(p ...byte) *Builder {
	b.buf = append(b.buf, p...)
	return b
}

// Bytes resolves label references and returns the script.
func (b *Builder) Bytes() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	out := make([]byte, len(b.buf))
	copy(out, b.buf)
	for _, f := range b.fixups {
		off, ok := b.labels[f.label]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownLabel, f.label)
		}
		putI16(out[f.at:], off)
	}
	return out, nil
}

// MustBytes is Bytes that panics on error, for tests and fixtures.
func (b *Builder) MustBytes() []byte {
	out, err := b.Bytes()
	if err != nil {
		panic(err)
	}
	return out
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *Builder) command(name string) (*opcode.Command, bool) {
	if b.err != nil {
		return nil, false
	}
	cmd, ok := b.table.Lookup(b.kind, name)
	if !ok {
		b.fail(fmt.Errorf("%w: %s %s", ErrUnknownMnemonic, b.kind, name))
	}
	return cmd, ok
}

func (b *Builder) condition(name string, param int) (*opcode.Condition, bool) {
	c, ok := b.table.LookupCondition(name)
	if !ok {
		b.fail(fmt.Errorf("%w: condition %s", ErrUnknownMnemonic, name))
		return nil, false
	}
	b.buf = append(b.buf, c.Code)
	if c.HasParam() {
		if err := checkRange(opcode.U8, param); err != nil {
			b.fail(fmt.Errorf("condition %s param: %w", name, err))
			return nil, false
		}
		b.buf = append(b.buf, byte(param))
	}
	return c, true
}

func (b *Builder) comparison(operator string, value, width int) {
	op, ok := b.table.LookupOperator(operator)
	if !ok {
		b.fail(fmt.Errorf("%w: operator %s", ErrUnknownMnemonic, operator))
		return
	}
	w := opcode.I16
	if width == 1 {
		w = opcode.I8
	}
	if err := checkRange(w, value); err != nil {
		b.fail(fmt.Errorf("comparison value: %w", err))
		return
	}
	b.buf = append(b.buf, op.Code)
	if width == 1 {
		b.buf = append(b.buf, byte(int8(value)))
		return
	}
	b.buf = append(b.buf, 0, 0)
	putI16(b.buf[len(b.buf)-2:], value)
}

func (b *Builder) operand(a opcode.ArgType, v any) error {
	if a.Width == opcode.String {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: want text, got %T", ErrOperand, v)
		}
		enc, err := script.EncodeText(b.charset, s)
		if err != nil {
			return err
		}
		b.buf = append(b.buf, enc...)
		return nil
	}
	if ref, ok := v.(Ref); ok {
		if a.Width != opcode.I16 && a.Width != opcode.U16 {
			return fmt.Errorf("%w: label reference needs a 2-byte operand", ErrOperand)
		}
		b.fixups = append(b.fixups, fixup{at: len(b.buf), label: string(ref)})
		b.buf = append(b.buf, 0, 0)
		return nil
	}
	n, err := intArg(v)
	if err != nil {
		return err
	}
	if err := checkRange(a.Width, n); err != nil {
		return err
	}
	switch a.Width.Size() {
	case 1:
		b.buf = append(b.buf, byte(n))
	case 2:
		b.buf = append(b.buf, 0, 0)
		putI16(b.buf[len(b.buf)-2:], n)
	case 4:
		u := uint32(n)
		b.buf = append(b.buf, byte(u), byte(u>>8), byte(u>>16), byte(u>>24))
	}
	return nil
}

func intArg(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	default:
		return 0, fmt.Errorf("%w: want number, got %T", ErrOperand, v)
	}
}

// checkRange rejects values an operand of width w cannot hold. 2-byte and
// 4-byte operands accept both their signed and unsigned spellings.
func checkRange(w opcode.Width, n int) error {
	var lo, hi int64
	switch w {
	case opcode.U8:
		lo, hi = 0, math.MaxUint8
	case opcode.I8:
		lo, hi = math.MinInt8, math.MaxInt8
	case opcode.U16, opcode.I16:
		lo, hi = math.MinInt16, math.MaxUint16
	case opcode.U32:
		lo, hi = math.MinInt32, math.MaxUint32
	default:
		return fmt.Errorf("%w: no numeric encoding for %s", ErrOperand, w)
	}
	if v := int64(n); v < lo || v > hi {
		return fmt.Errorf("%w: %d does not fit %s", ErrOperand, n, w)
	}
	return nil
}

func putI16(dst []byte, v int) {
	u := uint16(int16(v))
	dst[0] = byte(u)
	dst[1] = byte(u >> 8)
}
