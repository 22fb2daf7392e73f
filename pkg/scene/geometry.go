package scene

import (
	"math"

	"github.com/zurustar/twinscript/pkg/world"
)

const (
	// DefaultSpeed is the distance covered per frame by actors with no
	// speed of their own.
	DefaultSpeed = 32
	// DefaultTurnSpeed is the rotation per frame in angle units.
	DefaultTurnSpeed = 64
)

// Euclid is flat Euclidean geometry over a list of waypoints. Headings are
// measured from +Z toward +X in world.FullTurn units.
type Euclid struct {
	Points    []world.Vec3
	Speed     int
	TurnSpeed int
}

// NewEuclid creates a geometry with default speeds.
func NewEuclid(points []world.Vec3) *Euclid {
	return &Euclid{Points: points, Speed: DefaultSpeed, TurnSpeed: DefaultTurnSpeed}
}

func (e *Euclid) Distance(a, b world.Vec3) int {
	return int(math.Hypot(float64(b.X-a.X), float64(b.Z-a.Z)))
}

func (e *Euclid) Distance3D(a, b world.Vec3) int {
	dx, dy, dz := float64(b.X-a.X), float64(b.Y-a.Y), float64(b.Z-a.Z)
	return int(math.Sqrt(dx*dx + dy*dy + dz*dz))
}

func (e *Euclid) Angle(from, to world.Vec3) int {
	rad := math.Atan2(float64(to.X-from.X), float64(to.Z-from.Z))
	return world.NormalizeAngle(int(math.Round(rad * world.FullTurn / (2 * math.Pi))))
}

func (e *Euclid) Point(i int) (world.Vec3, bool) {
	if i < 0 || i >= len(e.Points) {
		return world.Vec3{}, false
	}
	return e.Points[i], true
}

// MoveToward moves a by its speed toward target. The planar variant leaves
// the height alone.
func (e *Euclid) MoveToward(a *world.Actor, target world.Vec3, threeD bool) bool {
	speed := a.Speed
	if speed <= 0 {
		speed = e.Speed
	}
	if !threeD {
		target.Y = a.Pos.Y
	}
	dist := e.Distance3D(a.Pos, target)
	if dist <= speed {
		a.Pos = target
		return true
	}
	f := float64(speed) / float64(dist)
	a.Pos.X += int(math.Round(float64(target.X-a.Pos.X) * f))
	a.Pos.Y += int(math.Round(float64(target.Y-a.Pos.Y) * f))
	a.Pos.Z += int(math.Round(float64(target.Z-a.Pos.Z) * f))
	return false
}

// Rotate turns a toward heading along the shorter way.
func (e *Euclid) Rotate(a *world.Actor, heading int) bool {
	heading = world.NormalizeAngle(heading)
	diff := world.NormalizeAngle(heading - a.Angle)
	if diff > world.FullTurn/2 {
		diff -= world.FullTurn
	}
	if abs(diff) <= e.TurnSpeed {
		a.Angle = heading
		return true
	}
	if diff > 0 {
		a.Angle = world.NormalizeAngle(a.Angle + e.TurnSpeed)
	} else {
		a.Angle = world.NormalizeAngle(a.Angle - e.TurnSpeed)
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
