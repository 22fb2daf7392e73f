package vm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/zurustar/twinscript/pkg/opcode"
	"github.com/zurustar/twinscript/pkg/script"
	"github.com/zurustar/twinscript/pkg/world"
)

// exec is the context of one instruction dispatch.
type exec struct {
	e     *Engine
	p     *Program
	r     *script.Reader
	actor *world.Actor
	cmd   *opcode.Command
	args  []int
	text  string
}

type handler func(x *exec) error

// handlers is indexed by opcode.Op; init verifies it is exhaustive.
var handlers [opcode.NumOps]handler

func init() {
	registerFlow()
	registerLife()
	registerMove()
	for op := opcode.OpUnknown; op < opcode.NumOps; op++ {
		if handlers[op] == nil {
			panic(fmt.Sprintf("vm: no handler for op %d", op))
		}
	}
}

// step runs p until it yields, terminates or hits the instruction cap.
func (e *Engine) step(ctx context.Context, p *Program) State {
	if p.State == Terminated {
		return Terminated
	}
	if p.Stopped {
		return p.State
	}
	if p.State == Waiting {
		p.fire(triggerResume)
	}
	if p.Started {
		p.Cursor = p.ResumeOffset
	}
	p.Started = true
	p.Continue = true

	actor, _ := e.world.Actor(p.Actor)
	r := script.NewReader(p.script, p.Cursor, e.charset)
	for n := 0; p.Continue; n++ {
		if n >= e.maxOps {
			e.log.Warn("instruction cap reached, parking program",
				"actor", p.Actor, "kind", p.Kind, "offset", p.Cursor, "cap", e.maxOps, "type", ErrorInstructionCap)
			p.ResumeOffset = p.Cursor
			p.Continue = false
			break
		}
		if ctx.Err() != nil {
			p.ResumeOffset = p.Cursor
			p.Continue = false
			break
		}
		if err := e.dispatch(p, r, actor); err != nil {
			e.fault(p, err)
			return p.State
		}
	}

	if p.State == Running {
		p.Cursor = p.ResumeOffset
		p.fire(triggerPark)
	}
	return p.State
}

// dispatch executes the instruction at p.Cursor.
func (e *Engine) dispatch(p *Program, r *script.Reader, actor *world.Actor) (err error) {
	if p.Cursor >= p.script.Len() {
		e.log.Debug("program ran off the end of its script", "actor", p.Actor, "kind", p.Kind, "len", p.script.Len())
		p.terminate()
		return nil
	}

	p.OpcodeCursor = p.Cursor
	r.Seek(p.Cursor)
	code := byte(r.U8())
	cmd := e.table.Command(p.Kind, code)
	x := &exec{e: e, p: p, r: r, actor: actor, cmd: cmd}

	if !cmd.Has(opcode.SelfDecodes) {
		for _, a := range cmd.Args {
			n, text := r.Arg(a)
			if a.Width == opcode.String {
				x.text = text
				continue
			}
			x.args = append(x.args, n)
		}
		if r.Err() != nil {
			return newDecodeError(r.Err())
		}
	}

	if cmd.Has(opcode.SkipSideScenes) && e.world.IsSideScene() {
		p.Cursor = r.Pos()
		return nil
	}

	if e.log.Enabled(context.Background(), slog.LevelDebug) {
		e.log.Debug("dispatch", "actor", p.Actor, "kind", p.Kind, "offset", p.OpcodeCursor, "op", cmd.Name, "args", x.args)
	}

	defer func() {
		if rec := recover(); rec != nil {
			re := NewRuntimeError(ErrorHandlerPanic, fmt.Sprint(rec))
			err = re
		}
	}()

	p.Steps++
	if err := handlers[cmd.Op](x); err != nil {
		return err
	}
	if r.Err() != nil {
		return newDecodeError(r.Err())
	}
	if p.Continue {
		p.Cursor = r.Pos()
	}
	return nil
}

// fault logs a program error with its location and terminates the program.
func (e *Engine) fault(p *Program, err error) {
	var re *RuntimeError
	if !errors.As(err, &re) {
		re = NewRuntimeError(ErrorHandlerPanic, "handler failed")
		re.Err = err
	}
	re.Actor = p.Actor
	re.Kind = p.Kind
	re.Offset = p.OpcodeCursor
	if re.Command == "" {
		if b, aerr := p.script.At(p.OpcodeCursor); aerr == nil {
			re.Command = e.table.Command(p.Kind, b).Name
		}
	}
	e.log.Error("program fault, terminating",
		"actor", p.Actor, "kind", p.Kind, "offset", p.OpcodeCursor, "type", re.Type, "error", re)
	p.terminate()
}

// jump moves the cursor to an absolute offset. -1 (0xFFFF) terminates the
// program; any other target outside the script is a fault.
func (x *exec) jump(target int) error {
	if target == -1 {
		x.p.terminate()
		return nil
	}
	if !x.p.script.InBounds(target) {
		return newJumpError(target, x.p.script.Len())
	}
	x.r.Seek(target)
	return nil
}

// park yields and re-enters the current instruction next frame.
func (x *exec) park() {
	x.p.Continue = false
	x.p.ResumeOffset = x.p.OpcodeCursor
}

// yield stops for this frame and resumes at off next frame.
func (x *exec) yield(off int) {
	x.p.Continue = false
	x.p.ResumeOffset = off
}

// arg returns the i-th generically decoded operand.
func (x *exec) arg(i int) int {
	if i < len(x.args) {
		return x.args[i]
	}
	return 0
}

// obj resolves an actor operand.
func (x *exec) obj(i int) (*world.Actor, error) {
	a, ok := x.e.world.Actor(i)
	if !ok {
		return nil, newMissingActorError(i)
	}
	return a, nil
}

// self returns the running actor.
func (x *exec) self() (*world.Actor, error) {
	if x.actor == nil {
		return nil, newMissingActorError(x.p.Actor)
	}
	return x.actor, nil
}

// programs resolves the programs of another actor.
func (x *exec) programs(i int) (*ActorPrograms, error) {
	ap, ok := x.e.Programs(i)
	if !ok {
		return nil, newMissingActorError(i)
	}
	return ap, nil
}

// patch rewrites the opcode byte of the running instruction.
func (x *exec) patch(code byte) error {
	if err := x.p.script.PatchOpcode(x.p.OpcodeCursor, code); err != nil {
		return newDecodeError(err)
	}
	return nil
}
