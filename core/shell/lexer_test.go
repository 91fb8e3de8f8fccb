package shell

import (
	"strings"
	"testing"

	shlex "github.com/anmitsu/go-shlex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestTokenize(t *testing.T) {
	cases := map[string]struct {
		line string
		want []Token
	}{
		"empty":              {line: "", want: nil},
		"blanks only":        {line: " \t ", want: nil},
		"words":              {line: "ls -la  /tmp", want: []Token{W("ls"), W("-la"), W("/tmp")}},
		"double quotes":      {line: `echo "a b" c`, want: []Token{W("echo"), {Text: "a b", Quoted: true}, W("c")}},
		"single quotes":      {line: `echo 'a "b"'`, want: []Token{W("echo"), {Text: `a "b"`, Quoted: true}}},
		"quote inside word":  {line: `a"b c"d`, want: []Token{{Text: "ab cd", Quoted: true}}},
		"escaped space":      {line: `a\ b`, want: []Token{{Text: "a b", Quoted: true}}},
		"escape in quotes":   {line: `"a\"b"`, want: []Token{{Text: `a"b`, Quoted: true}}},
		"trailing backslash": {line: `echo a\`, want: []Token{W("echo"), W(`a\`)}},
		"empty quotes":       {line: `echo ""`, want: []Token{W("echo"), {Text: "", Quoted: true}}},
		"unterminated quote runs to end": {
			line: `echo "a ; b`,
			want: []Token{W("echo"), {Text: "a ; b", Quoted: true}},
		},
		"operators without spaces": {
			line: "a;b&&c||d|e>f>>g<h",
			want: []Token{
				W("a"), Op(";"), W("b"), Op("&&"), W("c"), Op("||"), W("d"),
				Op("|"), W("e"), Op(">"), W("f"), Op(">>"), W("g"), Op("<"), W("h"),
			},
		},
		"triple bar":               {line: "a|||b", want: []Token{W("a"), Op("||"), Op("|"), W("b")}},
		"lone ampersand is a word": {line: "a & b&c", want: []Token{W("a"), W("&"), W("b&c")}},
		"quoted operators are words": {
			line: `echo ";" '|' \>`,
			want: []Token{W("echo"), {Text: ";", Quoted: true}, {Text: "|", Quoted: true}, {Text: ">", Quoted: true}},
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			got := Tokenize(tc.line, DefaultMaxTokens)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTokenize_truncates(t *testing.T) {
	line := strings.Repeat("x ", 200)

	got := Tokenize(line, 0)
	assert.Len(t, got, DefaultMaxTokens)

	got = Tokenize("a ; b ; c", 3)
	assert.Equal(t, []Token{W("a"), Op(";"), W("b")}, got)
}

func TestTokenize_neverExceedsMax(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		line := rapid.StringMatching(`[a-c ;|&<>"'\\]{0,300}`).Draw(t, "line")
		max := rapid.IntRange(1, 64).Draw(t, "max")

		got := Tokenize(line, max)
		if len(got) > max {
			t.Fatalf("got %d tokens, max %d", len(got), max)
		}
		for _, tok := range got {
			if tok.Kind == Word && tok.Text == "" && !tok.Quoted {
				t.Fatalf("unquoted empty word in %q", line)
			}
		}
	})
}

// Lines without operators or escapes must split the way a POSIX lexer does.
func TestTokenize_matchesShlex(t *testing.T) {
	word := rapid.OneOf(
		rapid.StringMatching(`[a-z0-9./=-]{1,8}`),
		rapid.StringMatching(`"[a-z ']{1,8}"`),
		rapid.StringMatching(`'[a-z "]{1,8}'`),
	)

	rapid.Check(t, func(t *rapid.T) {
		words := rapid.SliceOfN(word, 1, 10).Draw(t, "words")
		line := strings.Join(words, " ")

		want, err := shlex.Split(line, true)
		require.NoError(t, err)
		assert.Equal(t, want, Texts(Tokenize(line, DefaultMaxTokens)), "line %q", line)
	})
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "word", Word.String())
	assert.Equal(t, "operator", Operator.String())
}
