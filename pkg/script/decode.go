package script

import (
	"fmt"

	"github.com/zurustar/twinscript/pkg/opcode"
	"golang.org/x/text/encoding"
)

// Instruction is one decoded instruction, used by tooling that needs to
// walk a script without executing it.
type Instruction struct {
	Offset int
	Size   int
	Code   byte
	Cmd    *opcode.Command
	Args   []int
	Text   string

	// Inline condition or switch operand, when the command carries one.
	Cond     *opcode.Condition
	Param    int
	Operator *opcode.Operator
	Value    int

	// Target is the absolute jump offset of branch commands.
	Target    int
	HasTarget bool
}

// Decoder walks a script instruction by instruction. It remembers the
// condition of the last SWITCH so CASE operands decode with the right
// width.
type Decoder struct {
	table      *opcode.Table
	s          *Script
	charset    encoding.Encoding
	switchCond *opcode.Condition
}

// NewDecoder creates a Decoder. A nil charset selects DefaultCharset.
func NewDecoder(t *opcode.Table, s *Script, charset encoding.Encoding) *Decoder {
	return &Decoder{table: t, s: s, charset: charset}
}

// Decode decodes the instruction at off, reading the live opcode byte.
func (d *Decoder) Decode(off int) (Instruction, error) {
	r := NewReader(d.s, off, d.charset)
	code := byte(r.U8())
	cmd := d.table.Command(d.s.Kind(), code)
	in := Instruction{Offset: off, Code: code, Cmd: cmd}

	switch {
	case !cmd.Has(opcode.SelfDecodes):
		for _, a := range cmd.Args {
			n, text := r.Arg(a)
			if a.Width == opcode.String {
				in.Text = text
				continue
			}
			in.Args = append(in.Args, n)
		}
	case cmd.Op == opcode.OpSwitch:
		in.Cond, in.Param = r.Condition(d.table)
		d.switchCond = in.Cond
	case cmd.Has(opcode.HasCondition):
		in.Cond, in.Param = r.Condition(d.table)
		in.Operator, in.Value = r.Operand(d.table, in.Cond.ValueWidth)
		in.Target, in.HasTarget = r.I16(), true
	case cmd.Has(opcode.HasOperand):
		width := 1
		if d.switchCond != nil {
			width = d.switchCond.ValueWidth
		}
		in.Operator, in.Value = r.Operand(d.table, width)
		in.Target, in.HasTarget = r.I16(), true
	case cmd.Op == opcode.OpSetDirMode || cmd.Op == opcode.OpSetDirModeObj:
		if cmd.Op == opcode.OpSetDirModeObj {
			in.Args = append(in.Args, r.U8())
		}
		mode := r.U8()
		in.Args = append(in.Args, mode)
		if opcode.DirModeHasTarget(mode) {
			in.Args = append(in.Args, r.U8())
		}
	default:
		in.Target, in.HasTarget = r.I16(), true
	}
	if cmd.Op == opcode.OpEndSwitch {
		d.switchCond = nil
	}

	if err := r.Err(); err != nil {
		return in, fmt.Errorf("decode %s at %d: %w", cmd.Name, off, err)
	}
	in.Size = r.Pos() - off
	return in, nil
}

// All decodes the whole script from offset 0.
func (d *Decoder) All() ([]Instruction, error) {
	d.switchCond = nil
	var out []Instruction
	for off := 0; off < d.s.Len(); {
		in, err := d.Decode(off)
		if err != nil {
			return out, err
		}
		out = append(out, in)
		off += in.Size
	}
	return out, nil
}
