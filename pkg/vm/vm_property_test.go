package vm

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/zurustar/twinscript/pkg/asm"
	"github.com/zurustar/twinscript/pkg/opcode"
)

// flagScript runs ADD_VAR_GAME 1 inside a branch on VAR_GAME 0 == 1.
func flagScript(branch string) []byte {
	return lifeCode(func(b *asm.Builder) {
		b.If(branch, "VAR_GAME", 0, "==", 1, "end").
			Op("ADD_VAR_GAME", 1, 1).
			Label("end").
			Op("END")
	})
}

// Feature: vm, Property 1: ONEIF は一度だけ実行される
// *任意の*条件の真偽列について、ブロックは最初に真になったフレームでのみ実行される
func TestProperty01_OneIfFiresOnce(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("block runs exactly at the first true frame", prop.ForAll(
		func(truth []bool) bool {
			f := newFixture(t)
			f.spawn(flagScript("ONEIF"), nil)

			fired := -1
			for i, v := range truth {
				f.world.GameVars().Set(0, boolInt(v))
				before := f.gameVar(1)
				f.frame()
				if f.gameVar(1) != before {
					if fired >= 0 {
						return false
					}
					fired = i
				}
			}
			first := -1
			for i, v := range truth {
				if v {
					first = i
					break
				}
			}
			return fired == first
		},
		gen.SliceOfN(16, gen.Bool()),
	))

	properties.TestingRun(t)
}

// Feature: vm, Property 2: SNIF/SWIF の切り替え
// *任意の*条件の真偽列について、ブロックの実行とオペコードの書き換えは偽から真への変化だけを拾うモデルに一致する
func TestProperty02_SnifSwifFollowsEdgeModel(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	snif := code(t, opcode.Life, "SNIF")
	swif := code(t, opcode.Life, "SWIF")

	properties.Property("block and opcode byte follow the model", prop.ForAll(
		func(truth []bool, startArmed bool) bool {
			branch, armed := "SNIF", startArmed
			if armed {
				branch = "SWIF"
			}
			f := newFixture(t)
			f.spawn(flagScript(branch), nil)

			runs := 0
			for _, v := range truth {
				f.world.GameVars().Set(0, boolInt(v))
				f.frame()

				if armed {
					if v {
						runs++
					}
					armed = false
				} else {
					armed = !v
				}

				want := snif
				if armed {
					want = swif
				}
				if f.life(0).Script().Bytes()[0] != want || f.gameVar(1) != runs {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(16, gen.Bool()),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

// Feature: vm, Property 3: 終了状態の吸収性
// *任意の*フレーム数について、終了したプログラムは状態もオフセットも変わらない
func TestProperty03_TerminationIsAbsorbing(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("terminated programs stay put", prop.ForAll(
		func(frames int, via int) bool {
			ends := []string{"END_LIFE", "BRUTAL_EXIT", "SUICIDE"}
			f := newFixture(t)
			f.spawn(lifeCode(func(b *asm.Builder) {
				b.Op("ADD_VAR_GAME", 0, 1).Op(ends[via])
			}), nil)

			f.run(frames)
			p := f.life(0)
			return p.Terminated() &&
				p.ResumeOffset == -1 &&
				p.Steps == 2 &&
				f.gameVar(0) == 1 &&
				f.engine.Live() == 0
		},
		gen.IntRange(1, 20),
		gen.IntRange(0, 2),
	))

	properties.TestingRun(t)
}

// Feature: vm, Property 4: GOTO はリテラルオフセットに飛ぶ
// *任意の*NOP 列と飛び先について、実行される命令数は飛び先から末尾までの命令数と一致する
func TestProperty04_GotoLandsOnLiteralOffset(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	const gotoSize = 3

	properties.Property("steps count the sled from the target", prop.ForAll(
		func(sled, skip int) bool {
			skip = skip % (sled + 1)
			b := asm.NewBuilder(opcode.LBA2, opcode.Move).
				Op("GOTO", gotoSize+skip)
			for i := 0; i < sled; i++ {
				b.Op("NOP")
			}
			src := b.Op("STOP").MustBytes()

			f := newFixture(t)
			f.spawn(nil, src)
			f.frame()
			mv := f.move(0)
			return mv.Terminated() && mv.Steps == 1+(sled-skip)+1
		},
		gen.IntRange(0, 40),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t)
}

// Feature: vm, Property 5: オペランド幅
// *任意の*16 ビット値について、SET_VAR_GAME は符号付きで値を書き込み、後続命令の位置はずれない
func TestProperty05_SignedOperandWidth(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("i16 values round-trip through a script", prop.ForAll(
		func(v int16, idx uint8) bool {
			slot := int(idx) % 200
			f := newFixture(t)
			f.spawn(lifeCode(func(b *asm.Builder) {
				b.Op("SET_VAR_GAME", slot, int(v)).
					Op("SET_VAR_GAME", slot+1, 7).
					Op("END_LIFE")
			}), nil)
			f.frame()
			return f.gameVar(slot) == int(v) && f.gameVar(slot+1) == 7 && f.life(0).Terminated()
		},
		gen.Int16(),
		gen.UInt8(),
	))

	properties.TestingRun(t)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
