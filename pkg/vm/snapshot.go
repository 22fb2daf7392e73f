package vm

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/zurustar/twinscript/pkg/opcode"
	"github.com/zurustar/twinscript/pkg/world"
)

// Snapshot is the serialisable state of every loaded program, including
// the self-modified script bytes, plus the variable banks and the clock
// the scripts read. Actors, hero, random source and dialog belong to the
// World and are not carried: replaying a snapshot needs a World in the
// same state for those.
type Snapshot struct {
	Game      opcode.Game       `cbor:"game"`
	Frame     int               `cbor:"frame"`
	Now       time.Duration     `cbor:"now"`
	GameVars  []int             `cbor:"game_vars"`
	SceneVars []int             `cbor:"scene_vars"`
	Programs  []ProgramSnapshot `cbor:"programs"`
}

// ProgramSnapshot captures one Program.
type ProgramSnapshot struct {
	Actor            int           `cbor:"actor"`
	Kind             opcode.Kind   `cbor:"kind"`
	Code             []byte        `cbor:"code"`
	Cursor           int           `cbor:"cursor"`
	OpcodeCursor     int           `cbor:"opcode_cursor"`
	ResumeOffset     int           `cbor:"resume"`
	State            State         `cbor:"state"`
	Started          bool          `cbor:"started"`
	TrackIndex       int           `cbor:"track_index"`
	TrackOffset      int           `cbor:"track_offset"`
	SavedTrackOffset int           `cbor:"saved_track_offset"`
	Stopped          bool          `cbor:"stopped"`
	Behaviour        int           `cbor:"behaviour"`
	SavedBehaviour   int           `cbor:"saved_behaviour"`
	WaitUntil        time.Duration `cbor:"wait_until"`
	LastSeenTime     time.Duration `cbor:"last_seen"`
	AnimCounter      int           `cbor:"anim_counter"`
	Target           int           `cbor:"target"`
	Switch           Switch        `cbor:"switch"`
	Pending          world.Ticket  `cbor:"pending"`
	Steps            int           `cbor:"steps"`
}

// Capture returns the in-memory snapshot of the engine.
func (e *Engine) Capture() Snapshot {
	s := Snapshot{
		Game:      e.table.Game,
		Frame:     e.frame,
		Now:       e.world.Now(),
		GameVars:  bankValues(e.world.GameVars()),
		SceneVars: bankValues(e.world.SceneVars()),
	}
	for _, ap := range e.actors {
		if ap == nil {
			continue
		}
		for _, p := range []*Program{ap.Life, ap.Move} {
			s.Programs = append(s.Programs, ProgramSnapshot{
				Actor:            p.Actor,
				Kind:             p.Kind,
				Code:             p.script.Bytes(),
				Cursor:           p.Cursor,
				OpcodeCursor:     p.OpcodeCursor,
				ResumeOffset:     p.ResumeOffset,
				State:            p.State,
				Started:          p.Started,
				TrackIndex:       p.TrackIndex,
				TrackOffset:      p.TrackOffset,
				SavedTrackOffset: p.SavedTrackOffset,
				Stopped:          p.Stopped,
				Behaviour:        p.Behaviour,
				SavedBehaviour:   p.SavedBehaviour,
				WaitUntil:        p.WaitUntil,
				LastSeenTime:     p.LastSeenTime,
				AnimCounter:      p.AnimCounter,
				Target:           p.Target,
				Switch:           p.Switch,
				Pending:          p.Pending,
				Steps:            p.Steps,
			})
		}
	}
	return s
}

// Snapshot encodes the engine state as CBOR.
func (e *Engine) Snapshot() ([]byte, error) {
	data, err := cbor.Marshal(e.Capture())
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// Restore decodes a CBOR snapshot and applies it. The snapshot must have
// been taken from the same game with the same actors and script lengths.
func (e *Engine) Restore(data []byte) error {
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return e.Apply(s)
}

// Apply restores an in-memory snapshot. Nothing is changed on error.
func (e *Engine) Apply(s Snapshot) error {
	if s.Game != e.table.Game {
		return fmt.Errorf("%w: game %q, engine runs %q", ErrSnapshotMismatch, s.Game, e.table.Game)
	}
	if err := checkBank("game", e.world.GameVars(), s.GameVars); err != nil {
		return err
	}
	if err := checkBank("scene", e.world.SceneVars(), s.SceneVars); err != nil {
		return err
	}
	targets := make([]*Program, len(s.Programs))
	for i, ps := range s.Programs {
		ap, ok := e.Programs(ps.Actor)
		if !ok {
			return fmt.Errorf("%w: actor %d not loaded", ErrSnapshotMismatch, ps.Actor)
		}
		p := ap.Program(ps.Kind)
		if len(ps.Code) != p.script.Len() {
			return fmt.Errorf("%w: actor %d %s has %d bytes, snapshot %d",
				ErrSnapshotMismatch, ps.Actor, ps.Kind, p.script.Len(), len(ps.Code))
		}
		targets[i] = p
	}

	for i, ps := range s.Programs {
		p := targets[i]
		if err := p.script.Restore(ps.Code); err != nil {
			return err
		}
		p.Cursor = ps.Cursor
		p.OpcodeCursor = ps.OpcodeCursor
		p.ResumeOffset = ps.ResumeOffset
		p.State = ps.State
		p.Started = ps.Started
		p.Continue = false
		p.TrackIndex = ps.TrackIndex
		p.TrackOffset = ps.TrackOffset
		p.SavedTrackOffset = ps.SavedTrackOffset
		p.Stopped = ps.Stopped
		p.Behaviour = ps.Behaviour
		p.SavedBehaviour = ps.SavedBehaviour
		p.WaitUntil = ps.WaitUntil
		p.LastSeenTime = ps.LastSeenTime
		p.AnimCounter = ps.AnimCounter
		p.Target = ps.Target
		p.Switch = ps.Switch
		p.Pending = ps.Pending
		p.Steps = ps.Steps
	}
	if b := e.world.GameVars(); b != nil {
		b.Load(s.GameVars)
	}
	if b := e.world.SceneVars(); b != nil {
		b.Load(s.SceneVars)
	}
	if c, ok := e.world.(world.Clock); ok {
		c.SetNow(s.Now)
	}
	e.frame = s.Frame
	return nil
}

func bankValues(b *world.VarBank) []int {
	if b == nil {
		return nil
	}
	return b.Values()
}

func checkBank(name string, b *world.VarBank, vals []int) error {
	n := 0
	if b != nil {
		n = b.Len()
	}
	if len(vals) != n {
		return fmt.Errorf("%w: %s bank has %d variables, snapshot %d", ErrSnapshotMismatch, name, n, len(vals))
	}
	return nil
}
