package text

import (
	"testing"
	"testing/fstest"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zurustar/twinscript/pkg/fileutil"
	"golang.org/x/text/encoding/charmap"
)

func TestDecode(t *testing.T) {
	data, err := Encode([]string{"Bonjour", "", "Où est Zoé ?"}, nil)
	require.NoError(t, err)

	b, err := Decode(data, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, b.Len())

	got, ok := b.Text(2)
	require.True(t, ok)
	assert.Equal(t, "Où est Zoé ?", got)

	got, ok = b.Text(1)
	assert.True(t, ok)
	assert.Empty(t, got)

	_, ok = b.Text(3)
	assert.False(t, ok)
	_, ok = b.Text(-1)
	assert.False(t, ok)
}

func TestDecode_WithoutClosingSlot(t *testing.T) {
	// 2 エントリ、終端スロットなし
	data := []byte{4, 0, 7, 0, 'h', 'i', 0, 'y', 'o', 0}
	b, err := Decode(data, charmap.CodePage437)
	require.NoError(t, err)
	require.Equal(t, 2, b.Len())

	got, _ := b.Text(1)
	assert.Equal(t, "yo", got)
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"odd table", []byte{3, 0, 0}},
		{"table past end", []byte{8, 0}},
		{"entry before table", []byte{4, 0, 1, 0}},
		{"entry past end", []byte{4, 0, 9, 0, 'a', 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data, nil)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestBank_Index(t *testing.T) {
	data, err := Encode([]string{"first", "second"}, nil)
	require.NoError(t, err)
	b, err := Decode(data, nil)
	require.NoError(t, err)

	require.NoError(t, b.SetIndex([]byte{0x10, 0x00, 0x2A, 0x01}))
	got, ok := b.Text(0x012A)
	require.True(t, ok)
	assert.Equal(t, "second", got)

	_, ok = b.Text(0)
	assert.False(t, ok, "entry numbers must not resolve once an index is set")

	assert.ErrorIs(t, b.SetIndex([]byte{1, 0}), ErrIndexMismatch)
}

func TestLoad(t *testing.T) {
	data, err := Encode([]string{"a", "b"}, nil)
	require.NoError(t, err)
	fsys := fstest.MapFS{
		"text/EN_000.BNK": &fstest.MapFile{Data: data},
		"text/EN_000.IDX": &fstest.MapFile{Data: []byte{5, 0, 6, 0}},
	}
	fs := fileutil.NewSubFS(fsys, "text")

	b, err := Load(fs, "en_000.bnk", "en_000.idx", nil)
	require.NoError(t, err)
	got, ok := b.Text(6)
	require.True(t, ok)
	assert.Equal(t, "b", got)

	_, err = Load(fs, "missing.bnk", "", nil)
	assert.Error(t, err)
}

// Feature: text, Property 1: テキストバンクの符号化と復号
// *任意の*コードページ内の文字列列について、Encode した結果を Decode すると同じ文字列が得られる
func TestProperty01_EncodeDecode(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("entries survive a bank", prop.ForAll(
		func(entries []string) bool {
			data, err := Encode(entries, nil)
			if err != nil {
				return false
			}
			b, err := Decode(data, nil)
			if err != nil || b.Len() != len(entries) {
				return false
			}
			for i, want := range entries {
				if got, ok := b.Text(i); !ok || got != want {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}
