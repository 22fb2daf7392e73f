// Package vm executes actor LIFE and MOVE scripts one frame at a time.
//
// Every actor owns two programs. Each frame the Engine steps actors in
// ascending index order, LIFE before MOVE. A program runs instructions until
// it yields (parks on a wait, ends its comportment) or terminates. One
// faulty program never stops the frame: faults terminate that program and
// are logged with actor, program kind and offset.
package vm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/zurustar/twinscript/pkg/logger"
	"github.com/zurustar/twinscript/pkg/opcode"
	"github.com/zurustar/twinscript/pkg/script"
	"github.com/zurustar/twinscript/pkg/world"
	"golang.org/x/text/encoding"
)

// DefaultMaxInstructions is the per-program, per-frame instruction cap.
const DefaultMaxInstructions = 1000

// DefaultFrameDuration is the simulated time of one frame at 60 fps.
const DefaultFrameDuration = time.Second / 60

// Engine owns the programs of every actor of a scene.
type Engine struct {
	table    *opcode.Table
	world    world.World
	log      *slog.Logger
	maxOps   int
	frameDur time.Duration
	charset  encoding.Encoding

	actors []*ActorPrograms
	frame  int

	// Cached codes of the self-modification targets.
	patch [2]patchCodes
}

type patchCodes struct {
	snif, swif, neverIf byte
	ok                  bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithMaxInstructions sets the per-frame instruction cap. Values <= 0 keep
// the default.
func WithMaxInstructions(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxOps = n
		}
	}
}

// WithFrameDuration sets the time a world.Ticker advances per frame.
func WithFrameDuration(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.frameDur = d
		}
	}
}

// WithCharset sets the code page of text operands.
func WithCharset(cs encoding.Encoding) Option {
	return func(e *Engine) {
		e.charset = cs
	}
}

// New creates an Engine executing scripts of table t against w.
func New(t *opcode.Table, w world.World, opts ...Option) *Engine {
	e := &Engine{
		table:    t,
		world:    w,
		log:      logger.Component("vm"),
		maxOps:   DefaultMaxInstructions,
		frameDur: DefaultFrameDuration,
		charset:  script.DefaultCharset,
	}
	for _, opt := range opts {
		opt(e)
	}
	for _, kind := range []opcode.Kind{opcode.Life, opcode.Move} {
		pc := &e.patch[kind]
		var ok1, ok2, ok3 bool
		pc.snif, ok1 = t.CodeOf(kind, opcode.OpSnif)
		pc.swif, ok2 = t.CodeOf(kind, opcode.OpSwif)
		pc.neverIf, ok3 = t.CodeOf(kind, opcode.OpNeverIf)
		pc.ok = ok1 && ok2 && ok3
	}
	return e
}

// Table returns the opcode table of the engine.
func (e *Engine) Table() *opcode.Table {
	return e.table
}

// World returns the world the engine acts on.
func (e *Engine) World() world.World {
	return e.world
}

// Load installs private copies of an actor's LIFE and MOVE scripts. A nil
// script yields a program that terminates on its first step.
func (e *Engine) Load(actor int, life, move []byte) (*ActorPrograms, error) {
	if actor < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNoActor, actor)
	}
	for len(e.actors) <= actor {
		e.actors = append(e.actors, nil)
	}
	ap := &ActorPrograms{
		Life: newProgram(e, actor, opcode.Life, script.New(opcode.Life, life)),
		Move: newProgram(e, actor, opcode.Move, script.New(opcode.Move, move)),
	}
	e.actors[actor] = ap
	e.log.Debug("actor loaded", "actor", actor, "life", len(life), "move", len(move))
	return ap, nil
}

// Programs returns the programs of an actor.
func (e *Engine) Programs(actor int) (*ActorPrograms, bool) {
	if actor < 0 || actor >= len(e.actors) || e.actors[actor] == nil {
		return nil, false
	}
	return e.actors[actor], true
}

// FrameCount returns the number of frames stepped since the last Reset.
func (e *Engine) FrameCount() int {
	return e.frame
}

// Reset restores every script to its loaded bytes and every program to its
// initial state, as on scene reload.
func (e *Engine) Reset() {
	for _, ap := range e.actors {
		if ap == nil {
			continue
		}
		for _, p := range []*Program{ap.Life, ap.Move} {
			p.script.Reset()
			p.init()
		}
	}
	e.frame = 0
}

// Frame advances the world clock (when the world is a Ticker) and steps
// every actor once. It returns ctx.Err() if cancelled between actors.
func (e *Engine) Frame(ctx context.Context) error {
	if t, ok := e.world.(world.Ticker); ok {
		t.Tick(e.frameDur)
	}
	e.frame++
	for i, ap := range e.actors {
		if err := ctx.Err(); err != nil {
			return err
		}
		if ap == nil {
			continue
		}
		if e.removed(i, ap) {
			continue
		}
		ap.Life.Step(ctx)
		if e.removed(i, ap) {
			continue
		}
		ap.Move.Step(ctx)
	}
	return nil
}

// removed terminates both programs of an actor that is gone or dead.
func (e *Engine) removed(i int, ap *ActorPrograms) bool {
	a, ok := e.world.Actor(i)
	if ok && !a.Dead {
		return false
	}
	if !ap.Life.Terminated() || !ap.Move.Terminated() {
		e.log.Debug("actor removed, terminating programs", "actor", i, "frame", e.frame)
	}
	ap.Life.terminate()
	ap.Move.terminate()
	return true
}

// Run steps n frames, stopping early on cancellation.
func (e *Engine) Run(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if err := e.Frame(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Live returns the number of actors with at least one running program.
func (e *Engine) Live() int {
	n := 0
	for _, ap := range e.actors {
		if ap != nil && (!ap.Life.Terminated() || !ap.Move.Terminated()) {
			n++
		}
	}
	return n
}
