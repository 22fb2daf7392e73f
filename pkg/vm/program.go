package vm

import (
	"context"
	"fmt"
	"time"

	"github.com/qmuntal/stateless"
	"github.com/zurustar/twinscript/pkg/opcode"
	"github.com/zurustar/twinscript/pkg/script"
	"github.com/zurustar/twinscript/pkg/world"
)

// State is the dispatch state of a program.
type State int

const (
	// Running: the program is executing instructions within this frame.
	Running State = iota
	// Waiting: the program yielded and resumes at ResumeOffset next frame.
	Waiting
	// Terminated is absorbing; the program never runs again.
	Terminated
)

func (s State) String() string {
	switch s {
	case Running:
		return "Running"
	case Waiting:
		return "Waiting"
	case Terminated:
		return "Terminated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type trigger string

const (
	triggerResume    trigger = "resume"
	triggerPark      trigger = "park"
	triggerTerminate trigger = "terminate"
)

// Switch is the context of an active SWITCH block.
type Switch struct {
	Active    bool
	Condition byte
	Value     int
}

// Program is the execution state of one actor's LIFE or MOVE script.
type Program struct {
	Actor int
	Kind  opcode.Kind

	// Cursor points at an opcode boundary whenever dispatch begins.
	Cursor int
	// OpcodeCursor is the offset of the instruction currently executing;
	// self-modifying branches patch the byte there.
	OpcodeCursor int
	// ResumeOffset is where the next frame starts; -1 once terminated.
	ResumeOffset int
	Continue     bool
	State        State
	Started      bool

	TrackIndex       int
	TrackOffset      int
	SavedTrackOffset int
	// Stopped suspends a MOVE program until RESTORE_LAST_TRACK or SET_TRACK.
	Stopped bool

	Behaviour      int
	SavedBehaviour int

	WaitUntil    time.Duration
	LastSeenTime time.Duration
	AnimCounter  int
	// Target is the armed heading of a blocking rotation, -1 when unarmed.
	Target int

	Switch  Switch
	Pending world.Ticket

	// Steps counts handler invocations.
	Steps int

	script *script.Script
	engine *Engine
	fsm    *stateless.StateMachine
}

func newProgram(e *Engine, actor int, kind opcode.Kind, s *script.Script) *Program {
	p := &Program{Actor: actor, Kind: kind, script: s, engine: e}
	p.init()
	p.fsm = stateless.NewStateMachineWithExternalStorage(
		func(_ context.Context) (stateless.State, error) {
			return p.State, nil
		},
		func(_ context.Context, s stateless.State) error {
			p.State = s.(State)
			return nil
		},
		stateless.FiringImmediate,
	)
	p.fsm.Configure(Waiting).
		Permit(triggerResume, Running).
		Permit(triggerTerminate, Terminated)
	p.fsm.Configure(Running).
		Permit(triggerPark, Waiting).
		Permit(triggerTerminate, Terminated)
	p.fsm.Configure(Terminated)
	return p
}

// init puts the program in its freshly loaded state.
func (p *Program) init() {
	p.Cursor = 0
	p.OpcodeCursor = 0
	p.ResumeOffset = 0
	p.Continue = false
	p.State = Waiting
	p.Started = false
	p.TrackIndex = -1
	p.TrackOffset = -1
	p.SavedTrackOffset = -1
	p.Stopped = false
	p.Behaviour = 0
	p.SavedBehaviour = 0
	p.Steps = 0
	p.clearWait()
	p.Switch = Switch{}
}

func (p *Program) clearWait() {
	p.WaitUntil = 0
	p.LastSeenTime = 0
	p.AnimCounter = 0
	p.Target = -1
	p.Pending = 0
}

// Script returns the actor-private script of the program.
func (p *Program) Script() *script.Script {
	return p.script
}

// Terminated reports whether the program has permanently stopped.
func (p *Program) Terminated() bool {
	return p.State == Terminated
}

// Step runs the program for one frame and returns its state afterwards.
func (p *Program) Step(ctx context.Context) State {
	return p.engine.step(ctx, p)
}

func (p *Program) fire(t trigger) {
	if err := p.fsm.Fire(t); err != nil {
		p.engine.log.Error("invalid program transition",
			"actor", p.Actor, "kind", p.Kind, "state", p.State, "trigger", string(t), "error", err)
	}
}

// terminate makes the program permanently Terminated. It is idempotent.
func (p *Program) terminate() {
	if p.State == Terminated {
		return
	}
	p.ResumeOffset = -1
	p.Continue = false
	p.clearWait()
	p.Switch = Switch{}
	p.fire(triggerTerminate)
}

// redirect makes the program resume at off on its next step, discarding any
// pending wait. Terminated programs are left alone.
func (p *Program) redirect(off int) bool {
	if p.State == Terminated {
		return false
	}
	p.ResumeOffset = off
	p.Cursor = off
	p.Started = true
	p.Stopped = false
	p.clearWait()
	p.Switch = Switch{}
	return true
}

// ActorPrograms holds both programs of one actor.
type ActorPrograms struct {
	Life *Program
	Move *Program
}

// Program returns the program of the given kind.
func (a *ActorPrograms) Program(kind opcode.Kind) *Program {
	if kind == opcode.Move {
		return a.Move
	}
	return a.Life
}
