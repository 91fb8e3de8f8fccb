package shell

import "strings"

// Operators recognized by the tokenizer.
const (
	OpSemi   = ";"
	OpAnd    = "&&"
	OpOr     = "||"
	OpPipe   = "|"
	OpIn     = "<"
	OpOut    = ">"
	OpAppend = ">>"
)

// DefaultMaxTokens bounds the number of tokens produced for a line.
const DefaultMaxTokens = 128

// Kind tells words and operators apart.
type Kind int

const (
	Word Kind = iota
	Operator
)

func (k Kind) String() string {
	if k == Operator {
		return "operator"
	}
	return "word"
}

// Token is a single word or operator.
type Token struct {
	Text string
	Kind Kind
	// Quoted is set if any part of the word was quoted or escaped.
	Quoted bool
}

// W is shorthand for an unquoted word token.
func W(text string) Token { return Token{Text: text, Kind: Word} }

// Op is shorthand for an operator token.
func Op(text string) Token { return Token{Text: text, Kind: Operator} }

// Is reports whether t is the operator op.
func (t Token) Is(op string) bool {
	return t.Kind == Operator && t.Text == op
}

func (t Token) String() string {
	return t.Text
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}

func isOperatorChar(c byte) bool {
	return c == ';' || c == '|' || c == '>' || c == '<'
}

// operatorAt returns the operator starting at line[i], if any. Two character
// operators win over one character ones.
func operatorAt(line string, i int) string {
	if i+1 < len(line) {
		switch line[i : i+2] {
		case OpAnd, OpOr, OpAppend:
			return line[i : i+2]
		}
	}
	if isOperatorChar(line[i]) {
		return line[i : i+1]
	}
	return ""
}

// Tokenize splits line into at most max tokens; extra tokens are dropped.
// A max below one means DefaultMaxTokens.
//
// Double and single quotes group characters into a single word and each
// disables the other while open. A backslash takes the following byte
// literally, inside quotes too. A quote left open runs to the end of the line.
// A backslash at the very end of the line is kept as is.
func Tokenize(line string, max int) []Token {
	if max < 1 {
		max = DefaultMaxTokens
	}

	var out []Token
	i := 0
	for i < len(line) && len(out) < max {
		for i < len(line) && isBlank(line[i]) {
			i++
		}
		if i >= len(line) {
			break
		}

		if op := operatorAt(line, i); op != "" {
			out = append(out, Op(op))
			i += len(op)
			continue
		}

		var tok Token
		tok, i = scanWord(line, i)
		out = append(out, tok)
	}
	return out
}

func scanWord(line string, i int) (Token, int) {
	var sb strings.Builder
	tok := Token{Kind: Word}
	inDouble, inSingle := false, false

	for i < len(line) {
		c := line[i]
		switch {
		case c == '"' && !inSingle:
			inDouble = !inDouble
			tok.Quoted = true
			i++
		case c == '\'' && !inDouble:
			inSingle = !inSingle
			tok.Quoted = true
			i++
		case c == '\\' && i+1 < len(line):
			sb.WriteByte(line[i+1])
			tok.Quoted = true
			i += 2
		case !inDouble && !inSingle && (isBlank(c) || operatorAt(line, i) != ""):
			tok.Text = sb.String()
			return tok, i
		default:
			sb.WriteByte(c)
			i++
		}
	}

	tok.Text = sb.String()
	return tok, i
}

// Texts returns the text of every token.
func Texts(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}
