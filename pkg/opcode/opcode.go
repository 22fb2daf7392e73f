// Package opcode defines the instruction set of the actor script engine.
// Both the assembler and the VM depend on it: the assembler encodes
// instructions from these descriptors and the VM decodes and dispatches them.
//
// A Table holds, per game version, four fixed 256-slot arrays indexed by the
// opcode byte: LIFE commands, MOVE commands, conditions and operators.
// Unknown bytes resolve to a zero-operand no-op descriptor so replaying an
// unmodified binary script never fails to decode.
package opcode

import "fmt"

// Kind identifies which of an actor's two programs a script belongs to.
type Kind uint8

const (
	// Life is the behaviour/trigger program.
	Life Kind = iota
	// Move is the movement/track program.
	Move
)

func (k Kind) String() string {
	switch k {
	case Life:
		return "LIFE"
	case Move:
		return "MOVE"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Width is the primitive encoding of an operand.
type Width uint8

const (
	U8 Width = iota + 1
	I8
	U16
	I16
	U32
	// String is NUL-terminated text; its size depends on the content.
	String
)

// Size returns the fixed byte size of the width, or 0 for String.
func (w Width) Size() int {
	switch w {
	case U8, I8:
		return 1
	case U16, I16:
		return 2
	case U32:
		return 4
	default:
		return 0
	}
}

func (w Width) String() string {
	switch w {
	case U8:
		return "u8"
	case I8:
		return "i8"
	case U16:
		return "u16"
	case I16:
		return "i16"
	case U32:
		return "u32"
	case String:
		return "string"
	default:
		return fmt.Sprintf("Width(%d)", uint8(w))
	}
}

// Role is the semantic meaning of an operand, used by tooling and by the
// assembler to resolve label references.
type Role uint8

const (
	RoleNone Role = iota
	RoleActor
	RoleLabel
	RoleText
	RoleBehaviour
	RolePoint
	RoleTrack
	RoleVar
	RoleSample
	RoleAnim
	RoleBody
	// RoleReserved marks bytes the original engine used as scratch space.
	// They are decoded to keep alignment and otherwise ignored.
	RoleReserved
)

func (r Role) String() string {
	switch r {
	case RoleNone:
		return ""
	case RoleActor:
		return "actor"
	case RoleLabel:
		return "label"
	case RoleText:
		return "text"
	case RoleBehaviour:
		return "behaviour"
	case RolePoint:
		return "point"
	case RoleTrack:
		return "track"
	case RoleVar:
		return "var"
	case RoleSample:
		return "sample"
	case RoleAnim:
		return "anim"
	case RoleBody:
		return "body"
	case RoleReserved:
		return "reserved"
	default:
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
}

// ArgType is one declared operand of a command.
type ArgType struct {
	Width Width
	Role  Role
}

func (a ArgType) String() string {
	if a.Role == RoleNone {
		return a.Width.String()
	}
	return a.Role.String() + ":" + a.Width.String()
}

// Flags are behaviour flags of a command descriptor.
type Flags uint8

const (
	// SelfDecodes means the handler parses its trailing bytes itself
	// (branch offsets, inline conditions) instead of the generic decoder.
	SelfDecodes Flags = 1 << iota
	// CmdState means the command parks until an external UI collaborator
	// reports completion.
	CmdState
	// SkipSideScenes means the command must not fire while the engine is
	// evaluating an inactive side scene.
	SkipSideScenes
	// HasCondition means the instruction carries an inline
	// [condition][param?][operator][value] block right after the opcode.
	HasCondition
	// HasOperand means the instruction carries an inline [operator][value]
	// block compared against the active switch value.
	HasOperand
)

// Command describes one LIFE or MOVE opcode.
type Command struct {
	Code  byte
	Name  string
	Op    Op
	Args  []ArgType
	Flags Flags
}

// Has reports whether all of the given flags are set.
func (c *Command) Has(f Flags) bool {
	return c.Flags&f == f
}

// FixedSize returns the byte size of the generic operands, and false when
// an operand has variable size.
func (c *Command) FixedSize() (int, bool) {
	n := 0
	for _, a := range c.Args {
		s := a.Width.Size()
		if s == 0 {
			return 0, false
		}
		n += s
	}
	return n, true
}

// Condition describes a value-producing condition opcode.
type Condition struct {
	Code byte
	Name string
	Cond Cond
	// Param is the role of the optional one-byte parameter; RoleNone means
	// the condition takes no parameter.
	Param Role
	// ValueWidth is 1 or 2 and governs the size of the comparison operand.
	ValueWidth int
}

// HasParam reports whether the condition reads a one-byte parameter.
func (c *Condition) HasParam() bool {
	return c.Param != RoleNone
}

// Comparator is a numeric comparison.
type Comparator uint8

const (
	CmpNever Comparator = iota
	CmpEq
	CmpGt
	CmpLt
	CmpGe
	CmpLe
	CmpNe
)

// Compare applies the comparator to a and b.
func (c Comparator) Compare(a, b int) bool {
	switch c {
	case CmpEq:
		return a == b
	case CmpGt:
		return a > b
	case CmpLt:
		return a < b
	case CmpGe:
		return a >= b
	case CmpLe:
		return a <= b
	case CmpNe:
		return a != b
	default:
		return false
	}
}

// Symbol returns the source form of the comparator.
func (c Comparator) Symbol() string {
	switch c {
	case CmpEq:
		return "=="
	case CmpGt:
		return ">"
	case CmpLt:
		return "<"
	case CmpGe:
		return ">="
	case CmpLe:
		return "<="
	case CmpNe:
		return "!="
	default:
		return "?"
	}
}

// Operator describes an operator opcode.
type Operator struct {
	Code byte
	Cmp  Comparator
}

// Name returns the mnemonic of the operator. Undefined operator codes are
// named OP_XX.
func (o *Operator) Name() string {
	if o.Cmp == CmpNever {
		return fmt.Sprintf("OP_%02X", o.Code)
	}
	return o.Cmp.Symbol()
}

// DirModeHasTarget reports whether a SET_DIRMODE mode is followed by a
// target actor byte (follow and same-position modes).
func DirModeHasTarget(mode int) bool {
	return mode == 2 || mode == 4 || mode == 6
}
