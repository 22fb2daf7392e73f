package script

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// ErrUnknownCharset is returned for a code page name CharsetByName does not
// know.
var ErrUnknownCharset = errors.New("script: unknown charset")

var charsets = map[string]encoding.Encoding{
	"cp850":        charmap.CodePage850,
	"cp437":        charmap.CodePage437,
	"iso-8859-1":   charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
	"windows-1252": charmap.Windows1252,
}

// CharsetByName returns the code page of text operands by name. An empty
// name selects DefaultCharset.
func CharsetByName(name string) (encoding.Encoding, error) {
	if name == "" {
		return DefaultCharset, nil
	}
	cs, ok := charsets[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCharset, name)
	}
	return cs, nil
}
