package shell

// Link is one segment of a chain and the operator that ended it. Op is empty
// for the last segment on a line.
type Link struct {
	Tokens []Token
	Op     string
}

func isChainOp(t Token) bool {
	return t.Is(OpSemi) || t.Is(OpAnd) || t.Is(OpOr)
}

// SplitChain partitions tokens at ;, && and || operators. Empty segments are
// kept so the caller sees exactly the operators that were typed.
func SplitChain(tokens []Token) []Link {
	var out []Link
	start := 0
	for i, tok := range tokens {
		if !isChainOp(tok) {
			continue
		}
		out = append(out, Link{Tokens: tokens[start:i], Op: tok.Text})
		start = i + 1
	}
	if start < len(tokens) {
		out = append(out, Link{Tokens: tokens[start:]})
	}
	return out
}

// ShouldRun decides whether the segment after one ended by op runs, given
// the status left by everything executed so far.
//
// The decision only looks at the operator directly in front of the segment,
// so "false && a || b" skips a and runs b, and a skipped segment leaves the
// status untouched for the next decision.
func ShouldRun(op string, status int) bool {
	switch op {
	case OpAnd:
		return status == 0
	case OpOr:
		return status != 0
	default:
		return true
	}
}
