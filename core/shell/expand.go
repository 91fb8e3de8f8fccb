package shell

import (
	"strconv"
	"strings"
)

// LookupFunc resolves an environment variable.
type LookupFunc func(name string) (string, bool)

// Expand returns a copy of tokens with whole-word variable references
// replaced. "$?" becomes status and "$NAME" becomes the value of NAME, or an
// empty word if it is unset. Quoted words and operators are left alone, and
// there is no substitution in the middle of a word.
func Expand(tokens []Token, status int, lookup LookupFunc) []Token {
	out := make([]Token, len(tokens))
	for i, tok := range tokens {
		out[i] = tok
		if tok.Kind != Word || tok.Quoted || !strings.HasPrefix(tok.Text, "$") {
			continue
		}

		switch name := tok.Text[1:]; name {
		case "":
			// A lone $ stays literal.
		case "?":
			out[i].Text = strconv.Itoa(status)
		default:
			val, _ := lookup(name)
			out[i].Text = val
		}
	}
	return out
}
