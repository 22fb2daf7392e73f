package vm

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zurustar/twinscript/pkg/asm"
	"github.com/zurustar/twinscript/pkg/opcode"
	"github.com/zurustar/twinscript/pkg/scene"
	"github.com/zurustar/twinscript/pkg/world"
)

// testFrame is the simulated duration of one frame in the engine tests.
const testFrame = 100 * time.Millisecond

// testAnimFrames is the animation loop length of spawned actors.
const testAnimFrames = 3

type fixture struct {
	t      *testing.T
	world  *scene.World
	engine *Engine
	rec    *scene.Recorder
	logs   *bytes.Buffer
}

func newFixture(t *testing.T, opts ...scene.Option) *fixture {
	t.Helper()
	f := &fixture{t: t, rec: scene.NewRecorder(), logs: &bytes.Buffer{}}
	base := []scene.Option{scene.WithAudio(f.rec), scene.WithPresenter(f.rec)}
	f.world = scene.New(opcode.GameLBA2, append(base, opts...)...)
	f.withEngine()
	return f
}

// withEngine replaces the engine; call it before spawning actors.
func (f *fixture) withEngine(opts ...Option) *fixture {
	log := slog.New(slog.NewTextHandler(f.logs, &slog.HandlerOptions{Level: slog.LevelWarn}))
	base := []Option{WithLogger(log), WithFrameDuration(testFrame)}
	f.engine = New(opcode.LBA2, f.world, append(base, opts...)...)
	return f
}

// spawn adds an actor at the origin and loads its programs.
func (f *fixture) spawn(life, move []byte) int {
	f.t.Helper()
	a := world.NewActor(0)
	a.Name = fmt.Sprintf("actor%d", f.world.NumActors())
	i := f.world.Add(a, testAnimFrames)
	_, err := f.engine.Load(i, life, move)
	require.NoError(f.t, err)
	return i
}

func (f *fixture) actor(i int) *world.Actor {
	f.t.Helper()
	a, ok := f.world.Actor(i)
	require.True(f.t, ok)
	return a
}

func (f *fixture) life(i int) *Program {
	f.t.Helper()
	ap, ok := f.engine.Programs(i)
	require.True(f.t, ok)
	return ap.Life
}

func (f *fixture) move(i int) *Program {
	f.t.Helper()
	ap, ok := f.engine.Programs(i)
	require.True(f.t, ok)
	return ap.Move
}

func (f *fixture) frame() {
	f.t.Helper()
	require.NoError(f.t, f.engine.Frame(context.Background()))
}

func (f *fixture) run(n int) {
	f.t.Helper()
	require.NoError(f.t, f.engine.Run(context.Background(), n))
}

func (f *fixture) gameVar(i int) int {
	return f.world.GameVars().Get(i)
}

func lifeCode(build func(b *asm.Builder)) []byte {
	b := asm.NewBuilder(opcode.LBA2, opcode.Life)
	build(b)
	return b.MustBytes()
}

func moveCode(build func(b *asm.Builder)) []byte {
	b := asm.NewBuilder(opcode.LBA2, opcode.Move)
	build(b)
	return b.MustBytes()
}

// fixedDistance reports a settable planar distance between any two points.
type fixedDistance struct {
	*scene.Euclid
	d int
}

func (g *fixedDistance) Distance(world.Vec3, world.Vec3) int {
	return g.d
}

type texts map[int]string

func (t texts) Text(id int) (string, bool) {
	s, ok := t[id]
	return s, ok
}

func code(t *testing.T, kind opcode.Kind, name string) byte {
	t.Helper()
	c, ok := opcode.LBA2.Lookup(kind, name)
	require.True(t, ok, name)
	return c.Code
}
