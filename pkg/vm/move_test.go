package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zurustar/twinscript/pkg/asm"
	"github.com/zurustar/twinscript/pkg/scene"
	"github.com/zurustar/twinscript/pkg/world"
)

func TestWait_Durations(t *testing.T) {
	tests := []struct {
		name   string
		wait   func(b *asm.Builder)
		passes int
	}{
		{"seconds", func(b *asm.Builder) { b.Op("WAIT_NUM_SECOND", 1, 0) }, 11},
		{"tenths", func(b *asm.Builder) { b.Op("WAIT_NUM_DSEC", 3, 0) }, 4},
		{"zero", func(b *asm.Builder) { b.Op("WAIT_NUM_DSEC", 0, 0) }, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.spawn(nil, moveCode(func(b *asm.Builder) {
				tt.wait(b)
				b.Op("BODY", 4).Op("STOP")
			}))

			f.run(tt.passes - 1)
			assert.Equal(t, -1, f.actor(0).Body)
			assert.Equal(t, Waiting, f.move(0).State)
			assert.Equal(t, 0, f.move(0).ResumeOffset)

			f.frame()
			assert.Equal(t, 4, f.actor(0).Body)
			assert.True(t, f.move(0).Terminated())
		})
	}
}

func TestWait_ReservedTimerUntouched(t *testing.T) {
	f := newFixture(t)
	src := moveCode(func(b *asm.Builder) { b.Op("WAIT_NUM_SECOND", 2, 0).Op("STOP") })
	f.spawn(nil, src)
	f.run(5)
	assert.Equal(t, src, f.move(0).Script().Bytes())
	assert.NotZero(t, f.move(0).WaitUntil)
}

func TestWaitNumAnim(t *testing.T) {
	f := newFixture(t)
	f.spawn(nil, moveCode(func(b *asm.Builder) {
		b.Op("WAIT_NUM_ANIM", 2, 0).Op("BODY", 1).Op("STOP")
	}))

	f.run(5)
	assert.Equal(t, 1, f.move(0).AnimCounter)
	f.frame()
	assert.Equal(t, -1, f.actor(0).Body, "the loop that satisfies the wait ends the frame")
	assert.Equal(t, 0, f.move(0).AnimCounter)
	f.frame()
	assert.Equal(t, 1, f.actor(0).Body)
}

func TestScenario_PatrolLoop(t *testing.T) {
	points := make([]world.Vec3, 6)
	f := newFixture(t, scene.WithGeometry(scene.NewEuclid(points)))
	f.spawn(nil, moveCode(func(b *asm.Builder) {
		b.Label("loop").
			Op("TRACK", 0).
			Op("GOTO_POINT", 5).
			Op("WAIT_ANIM").
			Jump("GOTO", "loop")
	}))

	mv := f.move(0)
	past := 0
	for i := 1; i <= 30; i++ {
		f.frame()
		if mv.ResumeOffset == 5 {
			past++
			assert.Zero(t, i%testAnimFrames, "frame %d", i)
		} else {
			assert.Equal(t, 4, mv.ResumeOffset, "frame %d", i)
		}
		assert.Equal(t, Waiting, mv.State)
	}
	assert.Equal(t, 10, past)
	assert.Equal(t, 0, mv.TrackIndex)
	assert.Empty(t, f.logs.String())
}

func TestGotoPoint_ParksUntilArrival(t *testing.T) {
	f := newFixture(t, scene.WithGeometry(scene.NewEuclid([]world.Vec3{{}, {X: 100}})))
	f.spawn(nil, moveCode(func(b *asm.Builder) {
		b.Op("SPEED", 40).Op("GOTO_POINT", 1).Op("BODY", 1).Op("STOP")
	}))

	f.frame()
	a := f.actor(0)
	assert.Equal(t, world.Vec3{X: 40}, a.Pos)
	assert.Equal(t, 1024, a.Angle)
	assert.Equal(t, 3, f.move(0).ResumeOffset)

	f.frame()
	assert.Equal(t, world.Vec3{X: 80}, a.Pos)
	assert.Equal(t, -1, a.Body)

	f.frame()
	assert.Equal(t, world.Vec3{X: 100}, a.Pos)
	assert.Equal(t, 1, a.Body)
}

func TestGotoPoint_UnknownWaypointIsSkipped(t *testing.T) {
	f := newFixture(t)
	f.spawn(nil, moveCode(func(b *asm.Builder) { b.Op("GOTO_POINT", 9).Op("BODY", 1).Op("STOP") }))
	f.frame()
	assert.Equal(t, 1, f.actor(0).Body)
	assert.Contains(t, f.logs.String(), "unknown waypoint")
}

func TestGotoSymPoint_FacesAway(t *testing.T) {
	f := newFixture(t, scene.WithGeometry(scene.NewEuclid([]world.Vec3{{Z: 10}})))
	f.spawn(nil, moveCode(func(b *asm.Builder) { b.Op("GOTO_SYM_POINT", 0).Op("STOP") }))
	f.frame()
	assert.Equal(t, world.Vec3{Z: 10}, f.actor(0).Pos)
	assert.Equal(t, world.FullTurn/2, f.actor(0).Angle)
}

func TestAngle_RotatesOverFrames(t *testing.T) {
	f := newFixture(t)
	f.spawn(nil, moveCode(func(b *asm.Builder) { b.Op("ANGLE", 1024).Op("BODY", 2).Op("STOP") }))

	f.run(15)
	assert.Equal(t, 15*scene.DefaultTurnSpeed, f.actor(0).Angle)
	assert.Equal(t, -1, f.actor(0).Body)
	assert.Equal(t, 1024, f.move(0).Target)

	f.frame()
	assert.Equal(t, 1024, f.actor(0).Angle)
	assert.Equal(t, 2, f.actor(0).Body)
	assert.Equal(t, -1, f.move(0).Target)
}

func TestAngleRnd_StaysInRange(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		f := newFixture(t, scene.WithSeed(seed))
		f.spawn(nil, moveCode(func(b *asm.Builder) { b.Op("ANGLE_RND", 256, 0).Op("STOP") }))
		f.actor(0).Angle = 2048
		f.run(5)

		got := f.actor(0).Angle
		assert.GreaterOrEqual(t, got, 2048-128, "seed %d", seed)
		assert.LessOrEqual(t, got, 2048+128, "seed %d", seed)
		assert.True(t, f.move(0).Terminated())
	}
}

func TestDoor_MovesOnlyWhileWaiting(t *testing.T) {
	f := newFixture(t)
	f.spawn(nil, moveCode(func(b *asm.Builder) {
		b.Op("OPEN_LEFT", 100).
			Op("WAIT_DOOR").
			Op("BODY", 1).
			Op("CLOSE").
			Op("WAIT_NUM_DSEC", 10, 0).
			Op("WAIT_DOOR").
			Op("STOP")
	}))
	a := f.actor(0)

	f.run(3)
	assert.Equal(t, -96, a.Pos.X)
	assert.True(t, a.DoorMoving)

	f.frame()
	assert.Equal(t, -100, a.Pos.X)
	assert.False(t, a.DoorMoving)
	assert.Equal(t, 1, a.Body)

	// CLOSE only arms the door; it moves once WAIT_DOOR is reached.
	f.run(9)
	assert.Equal(t, -100, a.Pos.X)
	assert.True(t, a.DoorMoving)

	f.run(4)
	assert.Equal(t, 0, a.Pos.X)
	assert.True(t, f.move(0).Terminated())
}

func TestSetDoor_Instant(t *testing.T) {
	f := newFixture(t)
	f.spawn(lifeCode(func(b *asm.Builder) { b.Op("SET_DOOR_RIGHT", 64).Op("END_LIFE") }), nil)
	f.actor(0).Home = world.Vec3{X: 10, Z: 5}
	f.frame()
	assert.Equal(t, world.Vec3{X: 74, Z: 5}, f.actor(0).Pos)
	assert.False(t, f.actor(0).DoorMoving)
}
