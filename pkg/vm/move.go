package vm

import (
	"time"

	"github.com/zurustar/twinscript/pkg/opcode"
	"github.com/zurustar/twinscript/pkg/world"
)

// heroActor is the actor index of the player character.
const heroActor = 0

func registerMove() {
	handlers[opcode.OpTrack] = func(x *exec) error {
		x.p.TrackIndex = x.arg(0)
		x.p.TrackOffset = x.p.OpcodeCursor
		return nil
	}
	handlers[opcode.OpGotoPoint] = gotoPoint(false, false)
	handlers[opcode.OpGotoSymPoint] = gotoPoint(true, false)
	handlers[opcode.OpGotoPoint3D] = gotoPoint(false, true)
	handlers[opcode.OpSpeed] = onSelf(func(x *exec, a *world.Actor) { a.Speed = x.arg(0) })

	handlers[opcode.OpAngle] = rotate(func(x *exec, _ *world.Actor) int {
		return x.arg(0)
	})
	handlers[opcode.OpAngleRnd] = rotate(func(x *exec, a *world.Actor) int {
		span := x.arg(0)
		return a.Angle + x.e.world.Random(span) - span/2
	})
	handlers[opcode.OpFaceHero] = rotate(func(x *exec, a *world.Actor) int {
		hero, ok := x.e.world.Actor(heroActor)
		if !ok {
			return a.Angle
		}
		return x.e.world.Geometry().Angle(a.Pos, hero.Pos)
	})

	// Animation waits end the frame once satisfied: AnimEnded stays raised
	// for the whole frame and must be seen once per loop.
	handlers[opcode.OpWaitAnim] = func(x *exec) error {
		a, err := x.self()
		if err != nil {
			return err
		}
		if !a.AnimEnded {
			x.park()
			return nil
		}
		x.yield(x.r.Pos())
		return nil
	}
	handlers[opcode.OpWaitNumAnim] = func(x *exec) error {
		a, err := x.self()
		if err != nil {
			return err
		}
		if a.AnimEnded {
			x.p.AnimCounter++
		}
		if x.p.AnimCounter < x.arg(0) {
			x.park()
			return nil
		}
		x.p.AnimCounter = 0
		x.yield(x.r.Pos())
		return nil
	}
	handlers[opcode.OpWaitNumSecond] = waitFor(func(x *exec) time.Duration {
		return time.Duration(x.arg(0)) * time.Second
	})
	handlers[opcode.OpWaitNumDsec] = waitFor(func(x *exec) time.Duration {
		return time.Duration(x.arg(0)) * 100 * time.Millisecond
	})
	handlers[opcode.OpWaitNumSecondRnd] = waitFor(func(x *exec) time.Duration {
		return time.Duration(x.e.world.Random(x.arg(0)+1)) * time.Second
	})
	handlers[opcode.OpWaitNumDecimalRnd] = waitFor(func(x *exec) time.Duration {
		return time.Duration(x.e.world.Random(x.arg(0)+1)) * 100 * time.Millisecond
	})

	handlers[opcode.OpOpenLeft] = openDoor(world.Vec3{X: -1})
	handlers[opcode.OpOpenRight] = openDoor(world.Vec3{X: 1})
	handlers[opcode.OpOpenUp] = openDoor(world.Vec3{Z: -1})
	handlers[opcode.OpOpenDown] = openDoor(world.Vec3{Z: 1})
	handlers[opcode.OpClose] = onSelf(func(_ *exec, a *world.Actor) {
		a.DoorGoal = a.Home
		a.DoorMoving = true
	})
	handlers[opcode.OpWaitDoor] = func(x *exec) error {
		a, err := x.self()
		if err != nil {
			return err
		}
		if !a.DoorMoving {
			return nil
		}
		if x.e.world.Geometry().MoveToward(a, a.DoorGoal, false) {
			a.DoorMoving = false
			return nil
		}
		x.park()
		return nil
	}
}

// gotoPoint walks toward a waypoint, parking until the actor arrives. The
// symmetric variant walks backwards.
func gotoPoint(backwards, threeD bool) handler {
	return func(x *exec) error {
		a, err := x.self()
		if err != nil {
			return err
		}
		g := x.e.world.Geometry()
		target, ok := g.Point(x.arg(0))
		if !ok {
			x.e.log.Warn("unknown waypoint", "actor", x.p.Actor, "point", x.arg(0), "offset", x.p.OpcodeCursor)
			return nil
		}
		heading := g.Angle(a.Pos, target)
		arrived := g.MoveToward(a, target, threeD)
		if backwards {
			heading += world.FullTurn / 2
		}
		a.Angle = world.NormalizeAngle(heading)
		if !arrived {
			x.park()
		}
		return nil
	}
}

// rotate turns the actor toward a heading chosen on the first visit,
// parking until the rotation completes.
func rotate(heading func(x *exec, a *world.Actor) int) handler {
	return func(x *exec) error {
		a, err := x.self()
		if err != nil {
			return err
		}
		if x.p.Target < 0 {
			x.p.Target = world.NormalizeAngle(heading(x, a))
		}
		if !x.e.world.Geometry().Rotate(a, x.p.Target) {
			x.park()
			return nil
		}
		x.p.Target = -1
		return nil
	}
}

// waitFor parks until the duration measured from the first visit elapses,
// then lets dispatch continue past the instruction once. The reserved
// timer operand in the script is never written.
func waitFor(d func(x *exec) time.Duration) handler {
	return func(x *exec) error {
		now := x.e.world.Now()
		if x.p.WaitUntil == 0 {
			x.p.LastSeenTime = now
			x.p.WaitUntil = now + d(x)
		}
		if now < x.p.WaitUntil {
			x.park()
			return nil
		}
		x.p.WaitUntil = 0
		x.p.LastSeenTime = 0
		return nil
	}
}

func openDoor(dir world.Vec3) handler {
	return onSelf(func(x *exec, a *world.Actor) {
		d := x.arg(0)
		a.DoorGoal = a.Home.Add(world.Vec3{X: dir.X * d, Y: dir.Y * d, Z: dir.Z * d})
		a.DoorMoving = true
	})
}
