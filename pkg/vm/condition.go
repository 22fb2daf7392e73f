package vm

import (
	"fmt"

	"github.com/zurustar/twinscript/pkg/opcode"
	"github.com/zurustar/twinscript/pkg/world"
)

// FarAway is the distance reported for actors that cannot be measured
// (dead, missing, outside a view cone).
const FarAway = 32000

// coneHalfWidth is half the CONE_VIEW aperture in angle units.
const coneHalfWidth = 512

type conditionFunc func(x *exec, param int) (int, error)

// conditions is indexed by opcode.Cond; init verifies it is exhaustive.
var conditions [opcode.NumConds]conditionFunc

func init() {
	obj := func(get func(a *world.Actor) int) conditionFunc {
		return func(x *exec, param int) (int, error) {
			a, err := x.obj(param)
			if err != nil {
				return 0, err
			}
			return get(a), nil
		}
	}
	self := func(get func(a *world.Actor) int) conditionFunc {
		return func(x *exec, _ int) (int, error) {
			a, err := x.self()
			if err != nil {
				return 0, err
			}
			return get(a), nil
		}
	}
	hero := func(get func(h *world.Hero) int) conditionFunc {
		return func(x *exec, _ int) (int, error) {
			return get(x.e.world.Hero()), nil
		}
	}
	zero := func(*exec, int) (int, error) { return 0, nil }

	collision := func(a *world.Actor) int { return a.Collision }
	zone := func(a *world.Actor) int { return a.Zone }
	body := func(a *world.Actor) int { return a.Body }
	anim := func(a *world.Actor) int { return a.Anim }
	life := func(a *world.Actor) int { return a.LifePoints }
	hitBy := func(a *world.Actor) int { return a.HitBy }
	carried := func(a *world.Actor) int { return a.CarriedBy }
	beta := func(a *world.Actor) int { return a.Angle }
	brick := func(a *world.Actor) int { return a.BrickHit }

	conditions = [opcode.NumConds]conditionFunc{
		opcode.CondUnknown:         zero,
		opcode.CondCol:             self(collision),
		opcode.CondColObj:          obj(collision),
		opcode.CondDistance:        condDistance(false),
		opcode.CondZone:            self(zone),
		opcode.CondZoneObj:         obj(zone),
		opcode.CondBody:            self(body),
		opcode.CondBodyObj:         obj(body),
		opcode.CondAnim:            self(anim),
		opcode.CondAnimObj:         obj(anim),
		opcode.CondCurrentTrack:    condTrack(false),
		opcode.CondCurrentTrackObj: condTrack(true),
		opcode.CondVarCube: func(x *exec, param int) (int, error) {
			return x.e.world.SceneVars().Get(param), nil
		},
		opcode.CondConeView: condConeView,
		opcode.CondHitBy:    self(hitBy),
		opcode.CondAction: hero(func(h *world.Hero) int {
			if h.Action {
				return 1
			}
			return 0
		}),
		opcode.CondVarGame: func(x *exec, param int) (int, error) {
			return x.e.world.GameVars().Get(param), nil
		},
		opcode.CondLifePoint:     self(life),
		opcode.CondLifePointObj:  obj(life),
		opcode.CondNumLittleKeys: hero(func(h *world.Hero) int { return h.LittleKeys }),
		opcode.CondNumGoldPieces: hero(func(h *world.Hero) int { return h.Gold }),
		opcode.CondBehaviour:     hero(func(h *world.Hero) int { return h.Behaviour }),
		opcode.CondChapter:       hero(func(h *world.Hero) int { return h.Chapter }),
		opcode.CondDistance3D:    condDistance(true),
		opcode.CondMagicLevel:    hero(func(h *world.Hero) int { return h.MagicLevel }),
		opcode.CondMagicPoints:   hero(func(h *world.Hero) int { return h.MagicPoints }),
		opcode.CondUseInventory: func(x *exec, param int) (int, error) {
			if x.e.world.Hero().UsedInventory == param {
				return 1, nil
			}
			return 0, nil
		},
		opcode.CondChoice: func(x *exec, _ int) (int, error) {
			if d := x.e.world.Dialog(); d != nil {
				return d.Choice(), nil
			}
			return 0, nil
		},
		opcode.CondFuel:      hero(func(h *world.Hero) int { return h.Fuel }),
		opcode.CondCarriedBy: self(carried),
		opcode.CondCDROM:     func(*exec, int) (int, error) { return 1, nil },
		opcode.CondLadder:    zero,
		opcode.CondRnd: func(x *exec, param int) (int, error) {
			return x.e.world.Random(param), nil
		},
		opcode.CondRail:            zero,
		opcode.CondBeta:            self(beta),
		opcode.CondBetaObj:         obj(beta),
		opcode.CondCarriedObjBy:    obj(carried),
		opcode.CondAngle:           condAngle(false),
		opcode.CondDistanceMessage: condDistance(false),
		opcode.CondHitObjBy:        obj(hitBy),
		opcode.CondRealAngle:       condAngle(true),
		opcode.CondDemo:            zero,
		opcode.CondColDecors:       self(brick),
		opcode.CondColDecorsObj:    obj(brick),
		opcode.CondProcessor:       zero,
		opcode.CondObjectDisplayed: obj(func(a *world.Actor) int {
			if a.Visible && a.Body >= 0 {
				return 1
			}
			return 0
		}),
		opcode.CondAngleObj: condAngleObj,
	}
	for c := opcode.CondUnknown; c < opcode.NumConds; c++ {
		if conditions[c] == nil {
			panic(fmt.Sprintf("vm: no evaluator for condition %d", c))
		}
	}
}

func condDistance(threeD bool) conditionFunc {
	return func(x *exec, param int) (int, error) {
		a, err := x.self()
		if err != nil {
			return 0, err
		}
		b, ok := x.e.world.Actor(param)
		if !ok || b.Dead {
			return FarAway, nil
		}
		g := x.e.world.Geometry()
		if threeD {
			return g.Distance3D(a.Pos, b.Pos), nil
		}
		return g.Distance(a.Pos, b.Pos), nil
	}
}

func condTrack(other bool) conditionFunc {
	return func(x *exec, param int) (int, error) {
		idx := x.p.Actor
		if other {
			idx = param
		}
		ap, err := x.programs(idx)
		if err != nil {
			return 0, err
		}
		return ap.Move.TrackIndex, nil
	}
}

// condConeView returns the distance to the target when it stands within the
// actor's view cone, FarAway otherwise.
func condConeView(x *exec, param int) (int, error) {
	a, err := x.self()
	if err != nil {
		return 0, err
	}
	b, ok := x.e.world.Actor(param)
	if !ok || b.Dead {
		return FarAway, nil
	}
	g := x.e.world.Geometry()
	rel := world.NormalizeAngle(g.Angle(a.Pos, b.Pos) - a.Angle)
	if rel > coneHalfWidth && rel < world.FullTurn-coneHalfWidth {
		return FarAway, nil
	}
	return g.Distance(a.Pos, b.Pos), nil
}

// condAngle is the heading to the target relative to the actor's own. The
// folded variant reduces it to its absolute deviation in [0, FullTurn/2].
func condAngle(folded bool) conditionFunc {
	return func(x *exec, param int) (int, error) {
		a, err := x.self()
		if err != nil {
			return 0, err
		}
		b, err := x.obj(param)
		if err != nil {
			return 0, err
		}
		rel := world.NormalizeAngle(x.e.world.Geometry().Angle(a.Pos, b.Pos) - a.Angle)
		if folded && rel > world.FullTurn/2 {
			rel = world.FullTurn - rel
		}
		return rel, nil
	}
}

// condAngleObj is the heading to the actor relative to the target's own.
func condAngleObj(x *exec, param int) (int, error) {
	a, err := x.self()
	if err != nil {
		return 0, err
	}
	b, err := x.obj(param)
	if err != nil {
		return 0, err
	}
	return world.NormalizeAngle(x.e.world.Geometry().Angle(b.Pos, a.Pos) - b.Angle), nil
}

// readCondition reads [condition][param?] at the cursor and evaluates it.
func (x *exec) readCondition() (*opcode.Condition, int, error) {
	c, param := x.r.Condition(x.e.table)
	if err := x.r.Err(); err != nil {
		return c, 0, newDecodeError(err)
	}
	if c.Cond == opcode.CondUnknown {
		x.e.log.Debug("unknown condition", "actor", x.p.Actor, "kind", x.p.Kind, "code", c.Code, "offset", x.p.OpcodeCursor)
	}
	v, err := conditions[c.Cond](x, param)
	return c, v, err
}

// readOperand reads [operator][value] with the value width of c.
func (x *exec) readOperand(c *opcode.Condition) (*opcode.Operator, int) {
	return x.r.Operand(x.e.table, c.ValueWidth)
}

// evaluate applies an operator to two values.
func evaluate(op *opcode.Operator, a, b int) bool {
	return op.Cmp.Compare(a, b)
}

// testCondition reads and evaluates a full inline condition.
func (x *exec) testCondition() (bool, error) {
	c, v1, err := x.readCondition()
	if err != nil {
		return false, err
	}
	op, v2 := x.readOperand(c)
	if err := x.r.Err(); err != nil {
		return false, newDecodeError(err)
	}
	return evaluate(op, v1, v2), nil
}
