package asm

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/zurustar/twinscript/pkg/opcode"
)

// Assemble translates the text form of a script into bytes.
//
//	; comments run to the end of the line
//	loop:                          ; label
//	  TRACK 0
//	  IF DISTANCE 2 > 1000 @skip   ; condition, param, operator, value, target
//	  MESSAGE 12
//	skip:
//	  ENDIF
//	  SWITCH VAR_GAME 3
//	  CASE == 1 @next
//	  PLAY_ACF "intro.acf"
//	  GOTO @loop                   ; targets are labels or absolute offsets (@18)
//	  DB 0x3F 0x00                 ; raw bytes
//
// Mnemonics, condition names and labels are case-insensitive.
func Assemble(t *opcode.Table, kind opcode.Kind, src string) ([]byte, error) {
	b := NewBuilder(t, kind)
	sc := bufio.NewScanner(strings.NewReader(src))
	for lineNo := 1; sc.Scan(); lineNo++ {
		if err := assembleLine(b, sc.Text()); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if b.err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, b.err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return b.Bytes()
}

func assembleLine(b *Builder, line string) error {
	toks, err := tokenize(line)
	if err != nil || len(toks) == 0 {
		return err
	}
	for len(toks) > 0 && strings.HasSuffix(toks[0].text, ":") && !toks[0].quoted {
		b.Label(strings.ToLower(strings.TrimSuffix(toks[0].text, ":")))
		toks = toks[1:]
	}
	if len(toks) == 0 {
		return nil
	}

	name := strings.ToUpper(toks[0].text)
	args := toks[1:]
	if name == "DB" {
		for _, a := range args {
			n, err := parseInt(a.text)
			if err != nil || n < 0 || n > 0xFF {
				return fmt.Errorf("%w: DB %q", ErrOperand, a.text)
			}
			b.Raw(byte(n))
		}
		return nil
	}
	cmd, ok := b.table.Lookup(b.kind, name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMnemonic, name)
	}

	switch {
	case cmd.Op == opcode.OpSwitch:
		if len(args) < 1 {
			return fmt.Errorf("%w: SWITCH needs a condition", ErrOperand)
		}
		c, param, rest, err := parseCondition(b.table, args)
		if err != nil {
			return err
		}
		if len(rest) != 0 {
			return fmt.Errorf("%w: SWITCH takes only a condition, got %q", ErrOperand, rest[0].text)
		}
		b.Switch(c.Name, param)
	case cmd.Has(opcode.HasCondition):
		c, param, rest, err := parseCondition(b.table, args)
		if err != nil {
			return err
		}
		if len(rest) != 3 {
			return fmt.Errorf("%w: %s needs operator, value and target", ErrOperand, name)
		}
		value, err := parseInt(rest[1].text)
		if err != nil {
			return err
		}
		target, err := parseTarget(rest[2])
		if err != nil {
			return err
		}
		b.branch(name, c.Name, param, rest[0].text, value, target)
	case cmd.Has(opcode.HasOperand):
		if len(args) != 3 {
			return fmt.Errorf("%w: %s needs operator, value and target", ErrOperand, name)
		}
		value, err := parseInt(args[1].text)
		if err != nil {
			return err
		}
		target, err := parseTarget(args[2])
		if err != nil {
			return err
		}
		b.caseTo(name, args[0].text, value, target)
	default:
		vals := make([]any, 0, len(args))
		for _, a := range args {
			v, err := parseValue(a)
			if err != nil {
				return err
			}
			vals = append(vals, v)
		}
		b.Op(name, vals...)
	}
	return nil
}

func parseCondition(t *opcode.Table, args []token) (*opcode.Condition, int, []token, error) {
	c, ok := t.LookupCondition(args[0].text)
	if !ok {
		return nil, 0, nil, fmt.Errorf("%w: condition %s", ErrUnknownMnemonic, args[0].text)
	}
	rest := args[1:]
	param := 0
	if c.HasParam() {
		if len(rest) == 0 {
			return nil, 0, nil, fmt.Errorf("%w: condition %s needs a parameter", ErrOperand, c.Name)
		}
		p, err := parseInt(rest[0].text)
		if err != nil {
			return nil, 0, nil, err
		}
		param, rest = p, rest[1:]
	}
	return c, param, rest, nil
}

func parseTarget(tok token) (any, error) {
	if !strings.HasPrefix(tok.text, "@") || tok.quoted {
		return nil, fmt.Errorf("%w: target %q must start with @", ErrOperand, tok.text)
	}
	name := tok.text[1:]
	if n, err := parseInt(name); err == nil {
		return n, nil
	}
	return Ref(strings.ToLower(name)), nil
}

func parseValue(tok token) (any, error) {
	if tok.quoted {
		return tok.text, nil
	}
	if strings.HasPrefix(tok.text, "@") {
		return parseTarget(tok)
	}
	return parseInt(tok.text)
}

func parseInt(s string) (int, error) {
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrOperand, s)
	}
	return int(n), nil
}

type token struct {
	text   string
	quoted bool
}

// tokenize splits a line on blanks, honouring "quoted text" and stopping at
// a ';' comment.
func tokenize(line string) ([]token, error) {
	var toks []token
	for i := 0; i < len(line); {
		switch c := line[i]; {
		case c == ';':
			return toks, nil
		case c == ' ' || c == '\t' || c == ',':
			i++
		case c == '"':
			end := strings.IndexByte(line[i+1:], '"')
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated text", ErrOperand)
			}
			toks = append(toks, token{text: line[i+1 : i+1+end], quoted: true})
			i += end + 2
		default:
			j := i
			for j < len(line) && !strings.ContainsRune(" \t,;\"", rune(line[j])) {
				j++
			}
			toks = append(toks, token{text: line[i:j]})
			i = j
		}
	}
	return toks, nil
}
