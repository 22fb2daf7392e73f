package opcode

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Game identifies the game version a table was reverse-engineered from.
type Game string

const (
	GameLBA1 Game = "lba1"
	GameLBA2 Game = "lba2"
)

// ErrUnknownGame is returned for an unsupported game version.
var ErrUnknownGame = errors.New("unknown game version")

// Table is the immutable opcode table of one game version.
type Table struct {
	Game       Game
	Life       [256]Command
	Move       [256]Command
	Conditions [256]Condition
	Operators  [256]Operator

	lifeByName map[string]*Command
	moveByName map[string]*Command
	condByName map[string]*Condition
	opBySymbol map[string]*Operator
}

// Command returns the descriptor for code in the given program family.
// It never returns nil.
func (t *Table) Command(kind Kind, code byte) *Command {
	if kind == Move {
		return &t.Move[code]
	}
	return &t.Life[code]
}

// Condition returns the descriptor for a condition code. It never returns nil.
func (t *Table) Condition(code byte) *Condition {
	return &t.Conditions[code]
}

// Operator returns the descriptor for an operator code. It never returns nil.
func (t *Table) Operator(code byte) *Operator {
	return &t.Operators[code]
}

// Lookup finds a command by mnemonic (case-insensitive).
func (t *Table) Lookup(kind Kind, name string) (*Command, bool) {
	m := t.lifeByName
	if kind == Move {
		m = t.moveByName
	}
	name = strings.ToUpper(name)
	if c, ok := m[name]; ok {
		return c, true
	}
	if code, ok := placeholderCode(name, "UNKNOWN_"); ok && t.Command(kind, code).Op == OpUnknown {
		return t.Command(kind, code), true
	}
	return nil, false
}

// LookupCondition finds a condition by mnemonic (case-insensitive).
func (t *Table) LookupCondition(name string) (*Condition, bool) {
	name = strings.ToUpper(name)
	if c, ok := t.condByName[name]; ok {
		return c, true
	}
	if code, ok := placeholderCode(name, "UNKNOWN_COND_"); ok && t.Conditions[code].Cond == CondUnknown {
		return &t.Conditions[code], true
	}
	return nil, false
}

// LookupOperator finds an operator by its symbol.
func (t *Table) LookupOperator(symbol string) (*Operator, bool) {
	if o, ok := t.opBySymbol[symbol]; ok {
		return o, true
	}
	if code, ok := placeholderCode(strings.ToUpper(symbol), "OP_"); ok && t.Operators[code].Cmp == CmpNever {
		return &t.Operators[code], true
	}
	return nil, false
}

// placeholderCode parses the generated name of an undefined descriptor,
// e.g. UNKNOWN_3F.
func placeholderCode(name, prefix string) (byte, bool) {
	hex, ok := strings.CutPrefix(name, prefix)
	if !ok || len(hex) != 2 {
		return 0, false
	}
	n, err := strconv.ParseUint(hex, 16, 8)
	if err != nil {
		return 0, false
	}
	return byte(n), true
}

// CodeOf returns the first opcode byte whose descriptor dispatches to op.
func (t *Table) CodeOf(kind Kind, op Op) (byte, bool) {
	cmds := &t.Life
	if kind == Move {
		cmds = &t.Move
	}
	for i := range cmds {
		if cmds[i].Op == op {
			return byte(i), true
		}
	}
	return 0, false
}

// ForGame returns the table of the given game version.
func ForGame(g Game) (*Table, error) {
	switch Game(strings.ToLower(string(g))) {
	case GameLBA1:
		return LBA1, nil
	case GameLBA2:
		return LBA2, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGame, g)
	}
}

// def is the source form of a command descriptor.
type def struct {
	name  string
	op    Op
	args  []ArgType
	flags Flags
}

func c(name string, op Op, args ...ArgType) def {
	return def{name: name, op: op, args: args}
}

func (d def) with(f Flags) def {
	d.flags |= f
	return d
}

// branch declares a condition-bearing branch with a trailing jump label.
func branch(name string, op Op) def {
	return c(name, op, label).with(SelfDecodes | HasCondition)
}

// jump declares an unconditional branch with a trailing jump label.
func jump(name string, op Op) def {
	return c(name, op, label).with(SelfDecodes)
}

// present declares a presentation-only command.
func present(name string, args ...ArgType) def {
	return c(name, OpPresent, args...)
}

// cond is the source form of a condition descriptor.
type cond struct {
	name  string
	kind  Cond
	param Role
	width int
}

func cd(name string, kind Cond, param Role, width int) cond {
	return cond{name: name, kind: kind, param: param, width: width}
}

var (
	u8        = ArgType{Width: U8}
	i16       = ArgType{Width: I16}
	u32       = ArgType{Width: U32}
	str       = ArgType{Width: String}
	actor     = ArgType{Width: U8, Role: RoleActor}
	label     = ArgType{Width: I16, Role: RoleLabel}
	textID    = ArgType{Width: I16, Role: RoleText}
	behaviour = ArgType{Width: U8, Role: RoleBehaviour}
	point     = ArgType{Width: U8, Role: RolePoint}
	track     = ArgType{Width: U8, Role: RoleTrack}
	varIdx    = ArgType{Width: U8, Role: RoleVar}
	sample    = ArgType{Width: I16, Role: RoleSample}
	body      = ArgType{Width: U8, Role: RoleBody}
	anim8     = ArgType{Width: U8, Role: RoleAnim}
	anim16    = ArgType{Width: I16, Role: RoleAnim}
	reserved  = ArgType{Width: U32, Role: RoleReserved}
)

// mustBuild assembles and validates a table. Descriptor mistakes are
// programming errors and panic at package initialisation.
func mustBuild(game Game, life, move []def, conds []cond) *Table {
	t := &Table{
		Game:       game,
		lifeByName: make(map[string]*Command),
		moveByName: make(map[string]*Command),
		condByName: make(map[string]*Condition),
		opBySymbol: make(map[string]*Operator),
	}
	fill(game, Life, t.Life[:], life, t.lifeByName)
	fill(game, Move, t.Move[:], move, t.moveByName)

	if len(conds) > 256 {
		panic(fmt.Sprintf("opcode: %s condition table too large", game))
	}
	for i := range t.Conditions {
		code := byte(i)
		if i < len(conds) && conds[i].name != "" {
			d := conds[i]
			if d.width != 1 && d.width != 2 {
				panic(fmt.Sprintf("opcode: %s condition %s has value width %d", game, d.name, d.width))
			}
			if d.kind == CondUnknown || d.kind >= NumConds {
				panic(fmt.Sprintf("opcode: %s condition %s has invalid kind", game, d.name))
			}
			t.Conditions[i] = Condition{Code: code, Name: d.name, Cond: d.kind, Param: d.param, ValueWidth: d.width}
			if _, dup := t.condByName[d.name]; dup {
				panic(fmt.Sprintf("opcode: %s duplicate condition %s", game, d.name))
			}
			t.condByName[d.name] = &t.Conditions[i]
			continue
		}
		t.Conditions[i] = Condition{Code: code, Name: fmt.Sprintf("UNKNOWN_COND_%02X", code), Cond: CondUnknown, ValueWidth: 1}
	}

	cmps := []Comparator{CmpEq, CmpGt, CmpLt, CmpGe, CmpLe, CmpNe}
	for i := range t.Operators {
		t.Operators[i] = Operator{Code: byte(i), Cmp: CmpNever}
		if i < len(cmps) {
			t.Operators[i].Cmp = cmps[i]
			t.opBySymbol[cmps[i].Symbol()] = &t.Operators[i]
		}
	}
	return t
}

func fill(game Game, kind Kind, dst []Command, defs []def, byName map[string]*Command) {
	if len(defs) > len(dst) {
		panic(fmt.Sprintf("opcode: %s %s table too large", game, kind))
	}
	for i := range dst {
		code := byte(i)
		if i >= len(defs) || defs[i].name == "" {
			dst[i] = Command{Code: code, Name: fmt.Sprintf("UNKNOWN_%02X", code), Op: OpUnknown}
			continue
		}
		d := defs[i]
		if d.op == OpUnknown || d.op >= NumOps {
			panic(fmt.Sprintf("opcode: %s %s %s has invalid op", game, kind, d.name))
		}
		for _, a := range d.args {
			if a.Width < U8 || a.Width > String {
				panic(fmt.Sprintf("opcode: %s %s %s has invalid operand width", game, kind, d.name))
			}
		}
		if d.flags&(HasCondition|HasOperand) != 0 && d.flags&SelfDecodes == 0 {
			panic(fmt.Sprintf("opcode: %s %s %s carries inline condition but is not self-decoding", game, kind, d.name))
		}
		if d.flags&HasCondition != 0 && d.flags&HasOperand != 0 {
			panic(fmt.Sprintf("opcode: %s %s %s declares both condition and operand", game, kind, d.name))
		}
		dst[i] = Command{Code: code, Name: d.name, Op: d.op, Args: d.args, Flags: d.flags}
		if _, dup := byName[d.name]; dup {
			panic(fmt.Sprintf("opcode: %s %s duplicate mnemonic %s", game, kind, d.name))
		}
		byName[d.name] = &dst[i]
	}
}
