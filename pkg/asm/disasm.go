package asm

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/zurustar/twinscript/pkg/opcode"
	"github.com/zurustar/twinscript/pkg/script"
	"golang.org/x/text/encoding"
)

// Disassemble renders code as text that Assemble turns back into the same
// bytes. Opcodes are read as they currently are, so a memoised branch
// shows under its rewritten mnemonic. Bytes that do not decode to a full
// instruction are emitted with DB.
func Disassemble(t *opcode.Table, kind opcode.Kind, code []byte) string {
	return DisassembleScript(t, script.New(kind, code), nil)
}

// DisassembleScript is Disassemble over a loaded (possibly self-modified)
// script with an explicit charset.
func DisassembleScript(t *opcode.Table, s *script.Script, charset encoding.Encoding) string {
	code := s.Bytes()
	ins, err := script.NewDecoder(t, s, charset).All()

	var sb strings.Builder
	end := 0
	for _, in := range ins {
		line, ok := formatInstruction(in)
		if !ok {
			line = formatBytes(code[in.Offset : in.Offset+in.Size])
		}
		fmt.Fprintf(&sb, "%-40s ; %04X\n", line, in.Offset)
		end = in.Offset + in.Size
	}
	if err != nil && end < len(code) {
		fmt.Fprintf(&sb, "%-40s ; %04X\n", formatBytes(code[end:]), end)
	}
	return sb.String()
}

func formatInstruction(in script.Instruction) (string, bool) {
	parts := []string{in.Cmd.Name}
	switch {
	case in.Cond != nil:
		parts = append(parts, in.Cond.Name)
		if in.Cond.HasParam() {
			parts = append(parts, strconv.Itoa(in.Param))
		}
		if in.Operator != nil {
			parts = append(parts, in.Operator.Name(), strconv.Itoa(in.Value))
		}
	case in.Operator != nil:
		parts = append(parts, in.Operator.Name(), strconv.Itoa(in.Value))
	}
	for _, a := range in.Args {
		parts = append(parts, strconv.Itoa(a))
	}
	if hasText(in.Cmd) {
		if !printable(in.Text) {
			return "", false
		}
		parts = append(parts, `"`+in.Text+`"`)
	}
	if in.HasTarget {
		parts = append(parts, "@"+strconv.Itoa(in.Target))
	}
	return strings.Join(parts, " "), true
}

func formatBytes(p []byte) string {
	parts := make([]string, len(p))
	for i, b := range p {
		parts[i] = fmt.Sprintf("0x%02X", b)
	}
	return "DB " + strings.Join(parts, " ")
}

func hasText(cmd *opcode.Command) bool {
	for _, a := range cmd.Args {
		if a.Width == opcode.String {
			return true
		}
	}
	return false
}

// printable reports whether text survives a trip through one quoted line.
func printable(text string) bool {
	for _, r := range text {
		if r < 0x20 || r == '"' || r == utf8.RuneError {
			return false
		}
	}
	return true
}
