package script

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/zurustar/twinscript/pkg/fileutil"
	"github.com/zurustar/twinscript/pkg/opcode"
)

func TestNew_CopiesCode(t *testing.T) {
	code := []byte{0x01, 0x00}
	s := New(opcode.Life, code)
	code[0] = 0xFF

	if b, _ := s.At(0); b != 0x01 {
		t.Errorf("script shares caller buffer: got 0x%02X", b)
	}
	if s.Len() != 2 {
		t.Errorf("expected len 2, got %d", s.Len())
	}
	if s.Kind() != opcode.Life {
		t.Errorf("expected LIFE, got %s", s.Kind())
	}
}

func TestScript_PatchResetRestore(t *testing.T) {
	s := New(opcode.Life, []byte{0x0E, 0x15, 0x00, 0x01, 0x06, 0x00})

	if err := s.PatchOpcode(0, 0x04); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b, _ := s.At(0); b != 0x04 {
		t.Errorf("expected patched opcode 0x04, got 0x%02X", b)
	}
	// パッチはオペコード1バイトのみ書き換える
	if got := s.Bytes(); got[1] != 0x15 || len(got) != 6 {
		t.Errorf("operands changed: %v", got)
	}

	if err := s.PatchOpcode(6, 0x00); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}

	saved := s.Bytes()
	s.Reset()
	if b, _ := s.At(0); b != 0x0E {
		t.Errorf("Reset did not restore pristine opcode: 0x%02X", b)
	}

	if err := s.Restore(saved); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b, _ := s.At(0); b != 0x04 {
		t.Errorf("Restore did not apply bytes: 0x%02X", b)
	}
	if err := s.Restore([]byte{0x00}); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestScript_PrivateBuffers(t *testing.T) {
	code := []byte{0x0E, 0x00}
	a := New(opcode.Life, code)
	b := New(opcode.Life, code)

	if err := a.PatchOpcode(0, 0x04); err != nil {
		t.Fatal(err)
	}
	if v, _ := b.At(0); v != 0x0E {
		t.Errorf("patch leaked into another script: 0x%02X", v)
	}
}

func TestReader_Widths(t *testing.T) {
	s := New(opcode.Life, []byte{
		0xFF,                   // U8
		0xFF,                   // I8
		0x34, 0x12,             // U16
		0xFE, 0xFF,             // I16
		0x78, 0x56, 0x34, 0x12, // U32
		'h', 'i', 0x00,
	})
	r := NewReader(s, 0, nil)

	tests := []struct {
		name string
		read func() int
		want int
	}{
		{"U8", r.U8, 255},
		{"I8", r.I8, -1},
		{"U16", r.U16, 0x1234},
		{"I16", r.I16, -2},
		{"U32", r.U32, 0x12345678},
	}
	for _, tt := range tests {
		if got := tt.read(); got != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.name, tt.want, got)
		}
	}
	if got := r.Text(); got != "hi" {
		t.Errorf("Text: expected %q, got %q", "hi", got)
	}
	if r.Pos() != s.Len() {
		t.Errorf("expected cursor at end, got %d", r.Pos())
	}
	if r.Err() != nil {
		t.Errorf("unexpected error: %v", r.Err())
	}
}

func TestReader_StickyError(t *testing.T) {
	s := New(opcode.Life, []byte{0x01, 0x02})
	r := NewReader(s, 1, nil)

	if got := r.I16(); got != 0 {
		t.Errorf("expected 0 on short read, got %d", got)
	}
	if !errors.Is(r.Err(), ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", r.Err())
	}
	// エラー後の読み取りはすべてゼロ値を返す
	r.Seek(0)
	if got := r.U8(); got != 0 {
		t.Errorf("expected 0 after error, got %d", got)
	}
}

func TestReader_Seek(t *testing.T) {
	s := New(opcode.Life, []byte{0x01, 0x02})

	r := NewReader(s, 0, nil)
	r.Seek(2)
	if r.Err() != nil {
		t.Errorf("seeking to the end should be allowed: %v", r.Err())
	}

	r = NewReader(s, 0, nil)
	r.Seek(3)
	if !errors.Is(r.Err(), ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", r.Err())
	}

	r = NewReader(s, 0, nil)
	r.Skip(-1)
	if !errors.Is(r.Err(), ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", r.Err())
	}
}

func TestReader_UnterminatedText(t *testing.T) {
	r := NewReader(New(opcode.Move, []byte{'a', 'b'}), 0, nil)
	if got := r.Text(); got != "" {
		t.Errorf("expected empty text, got %q", got)
	}
	if !errors.Is(r.Err(), ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", r.Err())
	}
}

func TestText_CodePage850(t *testing.T) {
	enc, err := EncodeText(nil, "café")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// CP850 では é は 0x82
	want := []byte{'c', 'a', 'f', 0x82, 0x00}
	if string(enc) != string(want) {
		t.Errorf("expected % X, got % X", want, enc)
	}

	r := NewReader(New(opcode.Move, enc), 0, nil)
	if got := r.Text(); got != "café" {
		t.Errorf("expected %q, got %q", "café", got)
	}

	if _, err := EncodeText(nil, "日本"); err == nil {
		t.Error("expected error for characters outside the code page")
	}
}

func TestReader_ConditionAndOperand(t *testing.T) {
	// DISTANCE(actor 3) > 1000, CHAPTER == -1
	s := New(opcode.Life, []byte{0x02, 3, 0x01, 0xE8, 0x03, 0x15, 0x00, 0xFF})
	r := NewReader(s, 0, nil)

	c, param := r.Condition(opcode.LBA2)
	if c.Cond != opcode.CondDistance || param != 3 {
		t.Errorf("expected DISTANCE 3, got %s %d", c.Name, param)
	}
	op, value := r.Operand(opcode.LBA2, c.ValueWidth)
	if op.Cmp != opcode.CmpGt || value != 1000 {
		t.Errorf("expected > 1000, got %s %d", op.Name(), value)
	}

	c, param = r.Condition(opcode.LBA2)
	if c.Cond != opcode.CondChapter || param != 0 {
		t.Errorf("expected CHAPTER without param, got %s %d", c.Name, param)
	}
	op, value = r.Operand(opcode.LBA2, c.ValueWidth)
	if op.Cmp != opcode.CmpEq || value != -1 {
		t.Errorf("expected == -1, got %s %d", op.Name(), value)
	}
	if r.Err() != nil {
		t.Errorf("unexpected error: %v", r.Err())
	}
}

func TestDecoder_All(t *testing.T) {
	code := []byte{
		0x0C, 0x02, 2, 0x01, 0xE8, 0x03, 0x0E, 0x00, // IF DISTANCE 2 > 1000 @14
		0x24, 1, 0x05, 0x00, // SET_VAR_GAME 1 5
		0x71, 0x0F, 4, // SWITCH VAR_GAME 4
		0x73, 0x00, 0x2C, 0x01, 0x00, 0x00, // CASE == 300 @0
		0x76,          // END_SWITCH
		0x1C, 3, 2, 7, // SET_DIRMODE_OBJ 3 2 7
		0x00,          // END
	}

	ins, err := NewDecoder(opcode.LBA2, New(opcode.Life, code), nil).All()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ins) != 7 {
		t.Fatalf("expected 7 instructions, got %d", len(ins))
	}

	if in := ins[0]; in.Cmd.Op != opcode.OpIf || in.Param != 2 || in.Value != 1000 || in.Target != 14 || !in.HasTarget || in.Size != 8 {
		t.Errorf("IF decoded wrong: %+v", in)
	}
	if in := ins[1]; in.Offset != 8 || len(in.Args) != 2 || in.Args[0] != 1 || in.Args[1] != 5 {
		t.Errorf("SET_VAR_GAME decoded wrong: %+v", in)
	}
	if in := ins[2]; in.Cmd.Op != opcode.OpSwitch || in.Cond.Cond != opcode.CondVarGame || in.Param != 4 {
		t.Errorf("SWITCH decoded wrong: %+v", in)
	}
	// CASE の値幅は SWITCH の条件 (VAR_GAME = 2 バイト) に従う
	if in := ins[3]; in.Value != 300 || in.Size != 6 {
		t.Errorf("CASE decoded wrong: %+v", in)
	}
	if in := ins[5]; len(in.Args) != 3 || in.Args[2] != 7 {
		t.Errorf("SET_DIRMODE_OBJ decoded wrong: %+v", in)
	}
	if in := ins[6]; in.Cmd.Op != opcode.OpEnd || in.Offset != len(code)-1 {
		t.Errorf("END decoded wrong: %+v", in)
	}
}

func TestDecoder_Truncated(t *testing.T) {
	_, err := NewDecoder(opcode.LBA2, New(opcode.Life, []byte{0x01, 0x24, 0x01}), nil).All()
	if !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestLoader_LoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"scene/GUARD.LIF": &fstest.MapFile{Data: []byte{0x01, 0x00}},
	}
	loader := NewLoaderFS(fileutil.NewSubFS(fsys, "scene"))

	s, err := loader.Load(opcode.Life, "guard.lif")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 2 || s.Kind() != opcode.Life {
		t.Errorf("unexpected script: len %d kind %s", s.Len(), s.Kind())
	}

	if _, err := loader.Load(opcode.Move, "missing.mov"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader("/test/path")
	if loader.fs.BasePath() != "/test/path" {
		t.Errorf("expected basePath '/test/path', got %q", loader.fs.BasePath())
	}
}

func TestCharsetByName(t *testing.T) {
	cs, err := CharsetByName("")
	if err != nil || cs != DefaultCharset {
		t.Errorf("empty name should select the default charset, got %v %v", cs, err)
	}
	if _, err := CharsetByName("CP437"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := CharsetByName("ebcdic"); !errors.Is(err, ErrUnknownCharset) {
		t.Errorf("expected ErrUnknownCharset, got %v", err)
	}
}
