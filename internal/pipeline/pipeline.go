// Package pipeline holds the shell's execution data model: a Command is a
// single program invocation with optional redirection, and a Pipeline is an
// ordered sequence of Commands connected by pipes. Values are produced by
// internal/parser and consumed by internal/executor.
package pipeline

// Command is a single program invocation within a Pipeline.
type Command struct {
	// Argv is the argument vector; Argv[0] is the program name. Non-empty
	// iff the command was successfully parsed.
	Argv []string

	// InputFile, if non-empty, overrides stdin with the named file opened
	// read-only.
	InputFile string

	// OutputFile, if non-empty, overrides stdout with the named file.
	OutputFile string

	// AppendOutput selects append vs. truncate when OutputFile is set.
	AppendOutput bool

	// Background is only meaningful on the last Command of a Pipeline.
	Background bool
}

// Pipeline is an ordered sequence of one or more Commands, each command's
// stdout feeding the next command's stdin.
type Pipeline struct {
	Commands []Command
}

// Len returns the number of commands in the pipeline.
func (p Pipeline) Len() int {
	return len(p.Commands)
}

// Empty reports whether the pipeline carries zero commands — the result of
// parsing a blank line or a comment.
func (p Pipeline) Empty() bool {
	return len(p.Commands) == 0
}

// Background reports whether the pipeline's final command requested
// background execution. Only the final command's flag is honored, per the
// builder's parsing rules.
func (p Pipeline) Background() bool {
	if p.Empty() {
		return false
	}
	return p.Commands[len(p.Commands)-1].Background
}
