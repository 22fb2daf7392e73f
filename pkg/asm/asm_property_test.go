package asm

import (
	"bytes"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/zurustar/twinscript/pkg/opcode"
)

// Feature: asm, Property 1: 逆アセンブル結果の再アセンブル
// *任意の*バイト列について、逆アセンブルしたテキストを再アセンブルすると元のバイト列に戻る
func TestProperty01_DisassembleAssembleRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	for _, tc := range []struct {
		table *opcode.Table
		kind  opcode.Kind
	}{
		{opcode.LBA1, opcode.Life},
		{opcode.LBA1, opcode.Move},
		{opcode.LBA2, opcode.Life},
		{opcode.LBA2, opcode.Move},
	} {
		properties.Property(string(tc.table.Game)+" "+tc.kind.String()+" bytes survive a listing", prop.ForAll(
			func(code []byte) bool {
				text := Disassemble(tc.table, tc.kind, code)
				back, err := Assemble(tc.table, tc.kind, text)
				if err != nil {
					t.Logf("assemble failed: %v\n%s", err, text)
					return false
				}
				return bytes.Equal(back, code)
			},
			gen.SliceOf(gen.UInt8()),
		))
	}

	properties.TestingRun(t)
}

// Feature: asm, Property 2: 条件付き分岐のエンコード長
// *任意の*条件・演算子・1バイトに収まる値について、IF 命令の長さは条件の値幅とパラメータ有無だけで決まる
func TestProperty02_BranchSizeFollowsCondition(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	var conds []*opcode.Condition
	for i := range opcode.LBA2.Conditions {
		if c := &opcode.LBA2.Conditions[i]; c.Cond != opcode.CondUnknown {
			conds = append(conds, c)
		}
	}
	symbols := []string{"==", ">", "<", ">=", "<=", "!="}

	properties.Property("size is opcode+cond+param+operator+value+label", prop.ForAll(
		func(ci, si int, param uint8, value int8) bool {
			c := conds[ci]
			code, err := NewBuilder(opcode.LBA2, opcode.Life).
				IfAt("IF", c.Name, int(param), symbols[si], int(value), 0).
				Bytes()
			if err != nil {
				return false
			}
			want := 1 + 1 + 1 + c.ValueWidth + 2
			if c.HasParam() {
				want++
			}
			return len(code) == want
		},
		gen.IntRange(0, len(conds)-1),
		gen.IntRange(0, len(symbols)-1),
		gen.UInt8(),
		gen.Int8(),
	))

	properties.TestingRun(t)
}
