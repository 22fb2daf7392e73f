package vm

import (
	"github.com/zurustar/twinscript/pkg/opcode"
)

// Branch layout: [opcode][condition][param?][operator][value][offset:i16].
// The offset is absolute from the start of the script.

func registerFlow() {
	handlers[opcode.OpUnknown] = opUnknown
	handlers[opcode.OpNop] = func(*exec) error { return nil }
	handlers[opcode.OpEnd] = opEnd
	handlers[opcode.OpEndLife] = opTerminate
	handlers[opcode.OpBrutalExit] = opTerminate

	handlers[opcode.OpIf] = opIf
	handlers[opcode.OpSnif] = opSnif
	handlers[opcode.OpSwif] = opSwif
	handlers[opcode.OpOneIf] = opOneIf
	handlers[opcode.OpNeverIf] = opNeverIf
	handlers[opcode.OpOrIf] = opOrIf
	handlers[opcode.OpAndIf] = opAndIf
	handlers[opcode.OpJump] = opJump
	handlers[opcode.OpGoto] = opJump

	handlers[opcode.OpSwitch] = opSwitch
	handlers[opcode.OpCase] = opCase(false)
	handlers[opcode.OpOrCase] = opCase(true)
	handlers[opcode.OpEndSwitch] = func(x *exec) error {
		x.p.Switch = Switch{}
		return nil
	}
}

func opUnknown(x *exec) error {
	x.e.log.Debug("unknown opcode skipped",
		"actor", x.p.Actor, "kind", x.p.Kind, "offset", x.p.OpcodeCursor, "op", x.cmd.Name)
	return nil
}

// opEnd closes a LIFE pass; the next frame starts again at the current
// comportment. A MOVE program ends for good.
func opEnd(x *exec) error {
	if x.p.Kind == opcode.Life {
		x.yield(x.p.Behaviour)
		return nil
	}
	x.p.terminate()
	return nil
}

func opTerminate(x *exec) error {
	x.p.terminate()
	return nil
}

// branch reads the condition and trailing offset of the instruction.
func (x *exec) branch() (ok bool, target int, err error) {
	ok, err = x.testCondition()
	if err != nil {
		return false, 0, err
	}
	target = x.r.I16()
	if err := x.r.Err(); err != nil {
		return false, 0, newDecodeError(err)
	}
	return ok, target, nil
}

// opIf falls into the block when the condition holds, else jumps past it.
func opIf(x *exec) error {
	ok, target, err := x.branch()
	if err != nil || ok {
		return err
	}
	return x.jump(target)
}

// opSnif always jumps past its block. A false condition rewrites the
// instruction to SWIF.
func opSnif(x *exec) error {
	ok, target, err := x.branch()
	if err != nil {
		return err
	}
	if !ok {
		if err := x.patchTo(x.e.patch[x.p.Kind].swif); err != nil {
			return err
		}
	}
	return x.jump(target)
}

// opSwif runs its block when the condition holds and always rewrites the
// instruction back to SNIF.
func opSwif(x *exec) error {
	ok, target, err := x.branch()
	if err != nil {
		return err
	}
	if err := x.patchTo(x.e.patch[x.p.Kind].snif); err != nil {
		return err
	}
	if ok {
		return nil
	}
	return x.jump(target)
}

// opOneIf runs its block the first time the condition holds, then becomes
// NEVERIF for good.
func opOneIf(x *exec) error {
	ok, target, err := x.branch()
	if err != nil {
		return err
	}
	if !ok {
		return x.jump(target)
	}
	return x.patchTo(x.e.patch[x.p.Kind].neverIf)
}

// opNeverIf evaluates the condition to keep the decoder aligned and always
// skips its block.
func opNeverIf(x *exec) error {
	_, target, err := x.branch()
	if err != nil {
		return err
	}
	return x.jump(target)
}

// opOrIf jumps into the block as soon as one alternative holds.
func opOrIf(x *exec) error {
	ok, target, err := x.branch()
	if err != nil || !ok {
		return err
	}
	return x.jump(target)
}

// opAndIf jumps past the block as soon as one term fails.
func opAndIf(x *exec) error {
	ok, target, err := x.branch()
	if err != nil || ok {
		return err
	}
	return x.jump(target)
}

func opJump(x *exec) error {
	target := x.r.I16()
	if err := x.r.Err(); err != nil {
		return newDecodeError(err)
	}
	return x.jump(target)
}

func (x *exec) patchTo(code byte) error {
	if !x.e.patch[x.p.Kind].ok {
		return nil
	}
	return x.patch(code)
}

// opSwitch evaluates [condition][param?] and keeps the value for the CASE
// instructions up to END_SWITCH.
func opSwitch(x *exec) error {
	c, v, err := x.readCondition()
	if err != nil {
		return err
	}
	x.p.Switch = Switch{Active: true, Condition: c.Code, Value: v}
	return nil
}

// opCase compares [operator][value] against the switch value, then reads
// [offset]. CASE skips to the offset on mismatch; OR_CASE jumps to it on
// match.
func opCase(orCase bool) handler {
	return func(x *exec) error {
		sw := x.p.Switch
		if !sw.Active {
			return NewRuntimeError(ErrorNoSwitch, x.cmd.Name+" outside SWITCH")
		}
		c := x.e.table.Condition(sw.Condition)
		op, v := x.readOperand(c)
		target := x.r.I16()
		if err := x.r.Err(); err != nil {
			return newDecodeError(err)
		}
		match := evaluate(op, sw.Value, v)
		if match == orCase {
			return x.jump(target)
		}
		return nil
	}
}
