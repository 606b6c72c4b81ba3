// Package parser turns a scanned token sequence into a pipeline.Pipeline.
// It handles pipe separators, input/output redirection (with "last
// occurrence wins" semantics), and the trailing background flag.
package parser

import (
	"fmt"

	"poshell/internal/lexer"
	"poshell/internal/pipeline"
)

// DefaultMaxCommands is the implementation-defined maximum pipeline length
// a caller can pass to Parse; it equals internal/config's default
// max_pipeline_length.
const DefaultMaxCommands = 64

// Error is a structured parse failure.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return e.Msg }

// Parse scans line and builds a pipeline.Pipeline from it. maxCommands
// bounds the number of pipe-separated commands accepted; pass
// DefaultMaxCommands for the spec's implementation-defined default.
//
// An empty or comment-only line is not an error: it produces a Pipeline
// with zero commands, which the executor treats as a no-op.
func Parse(line string, maxCommands int) (pipeline.Pipeline, error) {
	tokens := lexer.Scan(line)
	if len(tokens) == 0 {
		return pipeline.Pipeline{}, nil
	}

	numPipes := 0
	for _, tok := range tokens {
		if tok.Kind == lexer.Pipe {
			numPipes++
		}
	}
	if numPipes+1 > maxCommands {
		return pipeline.Pipeline{}, &Error{Msg: fmt.Sprintf("poshell: too many commands in pipeline (max %d)", maxCommands)}
	}

	var commands []pipeline.Command
	cur := pipeline.Command{}

	finishCommand := func() error {
		if len(cur.Argv) == 0 {
			return &Error{Msg: "poshell: syntax error: empty command"}
		}
		commands = append(commands, cur)
		cur = pipeline.Command{}
		return nil
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		switch tok.Kind {
		case lexer.Word:
			cur.Argv = append(cur.Argv, tok.Text)

		case lexer.Pipe:
			if err := finishCommand(); err != nil {
				return pipeline.Pipeline{}, err
			}

		case lexer.RedirIn:
			i++
			if i >= len(tokens) || tokens[i].Kind != lexer.Word {
				return pipeline.Pipeline{}, &Error{Msg: "poshell: syntax error near unexpected token `<'"}
			}
			cur.InputFile = tokens[i].Text

		case lexer.RedirOut:
			i++
			if i >= len(tokens) || tokens[i].Kind != lexer.Word {
				return pipeline.Pipeline{}, &Error{Msg: "poshell: syntax error near unexpected token `>'"}
			}
			cur.OutputFile = tokens[i].Text
			cur.AppendOutput = false

		case lexer.RedirAppend:
			i++
			if i >= len(tokens) || tokens[i].Kind != lexer.Word {
				return pipeline.Pipeline{}, &Error{Msg: "poshell: syntax error near unexpected token `>>'"}
			}
			cur.OutputFile = tokens[i].Text
			cur.AppendOutput = true

		case lexer.Background:
			// Sets the flag on the command being built; '&' is not
			// rejected anywhere and parsing continues after it, so any
			// words that follow are appended to the same command.
			// pipeline.Pipeline.Background only ever inspects the final
			// command, so an '&' on an earlier command of a multi-command
			// pipeline (as in "a & | b") has no effect.
			cur.Background = true
		}
	}

	if len(cur.Argv) > 0 || cur.InputFile != "" || cur.OutputFile != "" || cur.Background {
		if err := finishCommand(); err != nil {
			return pipeline.Pipeline{}, err
		}
	}

	return pipeline.Pipeline{Commands: commands}, nil
}
