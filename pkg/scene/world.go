// Package scene is the in-memory world scripts run against: an actor
// registry, variable banks, the hero, Euclidean geometry, a manual clock and
// recorders for the dialog, audio and presentation surfaces. It is used by
// the headless runner, the viewer and the engine tests.
package scene

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/zurustar/twinscript/pkg/logger"
	"github.com/zurustar/twinscript/pkg/opcode"
	"github.com/zurustar/twinscript/pkg/world"
)

// DefaultAnimFrames is the loop length of an animation when the actor has
// none configured.
const DefaultAnimFrames = 8

// World implements world.World.
type World struct {
	actors    []*world.Actor
	animLen   []int
	animClock []int
	animSeen  []int

	gameVars  *world.VarBank
	sceneVars *world.VarBank
	hero      *world.Hero

	geometry  world.Geometry
	audio     world.Audio
	dialog    world.Dialog
	resources world.Resources
	presenter world.Presenter

	now    time.Duration
	frames int
	rng    *rand.Rand
	side   bool

	nextScene   int
	sceneChange map[int]bool
	ending      world.Ending

	log *slog.Logger
}

// Option configures a World.
type Option func(*World)

// WithGeometry replaces the default Euclidean geometry.
func WithGeometry(g world.Geometry) Option {
	return func(w *World) { w.geometry = g }
}

// WithAudio sets the audio surface.
func WithAudio(a world.Audio) Option {
	return func(w *World) { w.audio = a }
}

// WithDialog replaces the default dialog.
func WithDialog(d world.Dialog) Option {
	return func(w *World) { w.dialog = d }
}

// WithResources sets the text resolver.
func WithResources(r world.Resources) Option {
	return func(w *World) { w.resources = r }
}

// WithPresenter sets the presentation surface.
func WithPresenter(p world.Presenter) Option {
	return func(w *World) { w.presenter = p }
}

// WithSeed seeds the random source.
func WithSeed(seed uint64) Option {
	return func(w *World) { w.rng = newRand(seed) }
}

// WithSideScene marks the world as a loaded but inactive scene.
func WithSideScene(side bool) Option {
	return func(w *World) { w.side = side }
}

// WithVarBanks replaces the variable banks.
func WithVarBanks(game, scene *world.VarBank) Option {
	return func(w *World) {
		w.gameVars = game
		w.sceneVars = scene
	}
}

// New creates an empty world with the variable banks of game g.
func New(g opcode.Game, opts ...Option) *World {
	game, sc := DefaultBanks(g)
	w := &World{
		gameVars:    game,
		sceneVars:   sc,
		hero:        &world.Hero{},
		geometry:    NewEuclid(nil),
		dialog:      NewDialog(0),
		rng:         newRand(1),
		nextScene:   -1,
		sceneChange: make(map[int]bool),
		log:         logger.Component("scene"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// DefaultBanks returns fresh game and scene variable banks sized and bounded
// for a game version.
func DefaultBanks(g opcode.Game) (game, scene *world.VarBank) {
	if g == opcode.GameLBA1 {
		return world.NewVarBank(255, 0, 255), world.NewVarBank(80, 0, 255)
	}
	return world.NewVarBank(256, -32768, 32767), world.NewVarBank(80, 0, 255)
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
}

// Add appends an actor, assigning its index. animFrames <= 0 selects
// DefaultAnimFrames.
func (w *World) Add(a *world.Actor, animFrames int) int {
	if animFrames <= 0 {
		animFrames = DefaultAnimFrames
	}
	a.Index = len(w.actors)
	w.actors = append(w.actors, a)
	w.animLen = append(w.animLen, animFrames)
	w.animClock = append(w.animClock, 0)
	w.animSeen = append(w.animSeen, a.Anim)
	return a.Index
}

// Spawn adds a new actor with default fields at pos.
func (w *World) Spawn(name string, pos world.Vec3) *world.Actor {
	a := world.NewActor(len(w.actors))
	a.Name = name
	a.Pos = pos
	a.Home = pos
	w.Add(a, 0)
	return a
}

// Actors returns the actor registry.
func (w *World) Actors() []*world.Actor {
	return w.actors
}

func (w *World) NumActors() int {
	return len(w.actors)
}

func (w *World) Actor(i int) (*world.Actor, bool) {
	if i < 0 || i >= len(w.actors) {
		return nil, false
	}
	return w.actors[i], true
}

func (w *World) GameVars() *world.VarBank  { return w.gameVars }
func (w *World) SceneVars() *world.VarBank { return w.sceneVars }
func (w *World) Hero() *world.Hero         { return w.hero }
func (w *World) Geometry() world.Geometry  { return w.geometry }
func (w *World) Audio() world.Audio        { return w.audio }
func (w *World) Dialog() world.Dialog      { return w.dialog }
func (w *World) Resources() world.Resources {
	return w.resources
}
func (w *World) Presenter() world.Presenter {
	return w.presenter
}

func (w *World) Now() time.Duration {
	return w.now
}

// SetNow sets the clock without ticking animations or the dialog.
func (w *World) SetNow(now time.Duration) {
	w.now = now
}

// Frames returns the number of ticks so far.
func (w *World) Frames() int {
	return w.frames
}

func (w *World) Random(n int) int {
	if n <= 0 {
		return 0
	}
	return w.rng.IntN(n)
}

func (w *World) IsSideScene() bool {
	return w.side
}

// SetSideScene switches the world between active and side scene.
func (w *World) SetSideScene(side bool) {
	w.side = side
}

func (w *World) ChangeScene(scene int) {
	w.log.Info("scene change requested", "scene", scene, "frame", w.frames)
	w.nextScene = scene
}

// NextScene returns the scene a script asked to change to.
func (w *World) NextScene() (int, bool) {
	return w.nextScene, w.nextScene >= 0
}

func (w *World) EnableSceneChange(zone int, enabled bool) {
	w.sceneChange[zone] = enabled
}

// SceneChangeEnabled reports whether a scene-change zone is active. Zones
// default to enabled.
func (w *World) SceneChangeEnabled(zone int) bool {
	enabled, set := w.sceneChange[zone]
	return !set || enabled
}

func (w *World) EndGame(ending world.Ending) {
	w.log.Info("game ended", "ending", ending.String(), "frame", w.frames)
	w.ending = ending
}

// Ending returns how the game ended, zero while it runs.
func (w *World) Ending() world.Ending {
	return w.ending
}

// Tick advances the clock and the animation loops by one frame. An actor's
// AnimEnded flag is raised on the frame its loop completes and lowered on
// the next tick.
func (w *World) Tick(dt time.Duration) {
	w.now += dt
	w.frames++
	for i, a := range w.actors {
		a.AnimEnded = false
		if a.Dead {
			continue
		}
		if a.Anim != w.animSeen[i] {
			w.animSeen[i] = a.Anim
			w.animClock[i] = 0
		}
		w.animClock[i]++
		if w.animClock[i] >= w.animLen[i] {
			w.animClock[i] = 0
			a.AnimEnded = true
		}
	}
	if t, ok := w.dialog.(world.Ticker); ok {
		t.Tick(dt)
	}
}
