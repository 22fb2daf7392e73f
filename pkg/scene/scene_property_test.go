package scene

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/zurustar/twinscript/pkg/world"
)

// Feature: scene, Property 1: 回転の収束
// *任意の*開始角度と目標角度について、Rotate は半回転分のステップ以内で目標に到達する
func TestProperty01_RotateConverges(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("rotation reaches the heading", prop.ForAll(
		func(from, to int) bool {
			g := NewEuclid(nil)
			a := world.NewActor(0)
			a.Angle = from
			limit := world.FullTurn/2/g.TurnSpeed + 1
			for i := 0; i <= limit; i++ {
				if g.Rotate(a, to) {
					return a.Angle == world.NormalizeAngle(to)
				}
			}
			return false
		},
		gen.IntRange(0, world.FullTurn-1),
		gen.IntRange(-2*world.FullTurn, 2*world.FullTurn),
	))

	properties.TestingRun(t)
}

// Feature: scene, Property 2: 移動の到達
// *任意の*目標について、MoveToward は有限ステップでに目標へ正確に到達する
func TestProperty02_MoveTowardArrives(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("movement ends on the target", prop.ForAll(
		func(x, z int, speed int) bool {
			g := NewEuclid(nil)
			a := world.NewActor(0)
			a.Speed = speed
			target := world.Vec3{X: x, Z: z}
			limit := 2*g.Distance(a.Pos, target)/speed + 2
			for i := 0; i <= limit; i++ {
				if g.MoveToward(a, target, false) {
					return a.Pos == target
				}
			}
			return false
		},
		gen.IntRange(-5000, 5000),
		gen.IntRange(-5000, 5000),
		gen.IntRange(8, 200),
	))

	properties.TestingRun(t)
}
