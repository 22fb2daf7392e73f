// Package world declares the collaborators the script engine consumes: the
// actor registry, the variable banks, the hero, geometry, audio, dialog and
// presentation surfaces. The engine only reads and writes through these
// types; pkg/scene provides the concrete in-memory implementation.
package world

import "time"

// Ticket identifies a pending UI request (message, choice, video). The zero
// Ticket means "no request".
type Ticket int

// Ending is the reason a script ended the game.
type Ending int

const (
	EndingGameOver Ending = iota + 1
	EndingTheEnd
)

func (e Ending) String() string {
	switch e {
	case EndingGameOver:
		return "game over"
	case EndingTheEnd:
		return "the end"
	default:
		return "none"
	}
}

// World is everything a running script can observe or mutate.
type World interface {
	NumActors() int
	// Actor returns the actor at index i, or false when no such actor exists.
	Actor(i int) (*Actor, bool)

	GameVars() *VarBank
	SceneVars() *VarBank
	Hero() *Hero

	Geometry() Geometry
	Audio() Audio
	Dialog() Dialog
	Resources() Resources
	// Presenter may return nil; presentation-only commands are then no-ops.
	Presenter() Presenter

	// Now returns the elapsed game time.
	Now() time.Duration
	// Random returns a pseudo-random number in [0, n). n <= 0 returns 0.
	Random(n int) int

	// IsSideScene reports whether the scripts being stepped belong to a
	// loaded but inactive scene.
	IsSideScene() bool
	ChangeScene(scene int)
	EnableSceneChange(zone int, enabled bool)
	EndGame(ending Ending)
}

// Ticker is implemented by worlds that advance their own clock and
// simulation once per engine frame.
type Ticker interface {
	Tick(dt time.Duration)
}

// Clock is implemented by worlds whose clock can be set, e.g. when an
// engine snapshot is applied.
type Clock interface {
	SetNow(now time.Duration)
}

// Geometry answers spatial questions and drives blocking movement.
type Geometry interface {
	// Distance is the planar (X/Z) distance between two points.
	Distance(a, b Vec3) int
	Distance3D(a, b Vec3) int
	// Angle returns the heading from one point to another in [0, FullTurn).
	Angle(from, to Vec3) int
	// Point returns a scene waypoint.
	Point(i int) (Vec3, bool)
	// MoveToward advances a one frame toward target and reports arrival.
	MoveToward(a *Actor, target Vec3, threeD bool) bool
	// Rotate turns a one frame toward heading and reports completion.
	Rotate(a *Actor, heading int) bool
}

// Audio is the sound trigger surface.
type Audio interface {
	// PlaySample plays a sample repeat times; 0 repeats forever.
	PlaySample(id, repeat, actor int)
	StopSample(id int)
	PlayMusic(id int)
	StopMusic()
}

// Dialog is the UI surface for commands that park until the player is done.
type Dialog interface {
	Message(actor, textID int, text string) Ticket
	AddChoice(textID int, text string)
	AskChoice(actor, textID int, text string) Ticket
	FoundObject(actor, item int) Ticket
	PlayVideo(name string) Ticket
	CloseMessage(actor int)
	// Done reports whether the request behind t has completed.
	Done(t Ticket) bool
	// Choice returns the text id of the last answered choice.
	Choice() int
}

// Resources resolves text ids to displayable strings.
type Resources interface {
	Text(id int) (string, bool)
}

// Presenter receives presentation-only commands (camera, palette, fades,
// rain, holomap ...) with their decoded operands.
type Presenter interface {
	Present(actor int, command string, args []int, text string)
}
