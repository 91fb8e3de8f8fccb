package shell

// MaxArgs bounds the number of argv words of a single command; extra words
// are dropped.
const MaxArgs = 63

// Command is a single program invocation with its redirections.
type Command struct {
	Argv []string
	// Input is the path stdin is read from if InputSet is true.
	Input    string
	InputSet bool
	// Output is the path stdout is written to if OutputSet is true.
	Output    string
	OutputSet bool
	// Append opens Output for appending instead of truncating it.
	Append bool
}

// Name returns argv[0] or an empty string.
func (c *Command) Name() string {
	if len(c.Argv) == 0 {
		return ""
	}
	return c.Argv[0]
}

// HasRedirect reports whether either stream is redirected.
func (c *Command) HasRedirect() bool {
	return c.InputSet || c.OutputSet
}

// Segment is a single command or, if Right is set, a two stage pipeline.
type Segment struct {
	Left  Command
	Right *Command
}

// IsPipeline reports whether the segment has two stages.
func (s *Segment) IsPipeline() bool {
	return s.Right != nil
}

// IsNoop reports whether running the segment would do nothing: no words and
// no redirections, or a pipeline with an empty side.
func (s *Segment) IsNoop() bool {
	if s.IsPipeline() {
		return len(s.Left.Argv) == 0 || len(s.Right.Argv) == 0
	}
	return len(s.Left.Argv) == 0 && !s.Left.HasRedirect()
}

// Compile builds a Segment from tokens that contain no chain operators.
//
// The first | splits the tokens in two, a later | is an ordinary word.
// Redirections are peeled off each side independently: the last of each
// kind wins and one missing its path is dropped. A path that expanded to
// the empty word is kept and fails when opened.
func Compile(tokens []Token) Segment {
	for i, tok := range tokens {
		if tok.Is(OpPipe) {
			right := compileCommand(tokens[i+1:])
			return Segment{
				Left:  compileCommand(tokens[:i]),
				Right: &right,
			}
		}
	}
	return Segment{Left: compileCommand(tokens)}
}

func compileCommand(tokens []Token) Command {
	var cmd Command
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.Kind == Operator && tok.Text != OpPipe {
			if i+1 >= len(tokens) || tokens[i+1].Kind != Word {
				continue
			}
			target := tokens[i+1].Text
			i++

			switch tok.Text {
			case OpIn:
				cmd.Input, cmd.InputSet = target, true
			case OpOut, OpAppend:
				cmd.Output, cmd.OutputSet = target, true
				cmd.Append = tok.Text == OpAppend
			}
			continue
		}

		if len(cmd.Argv) < MaxArgs {
			cmd.Argv = append(cmd.Argv, tok.Text)
		}
	}
	return cmd
}
