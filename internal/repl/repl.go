// Package repl implements the shell's read-print loop (spec §4.5): prompt,
// read, parse, dispatch to the executor, repeat. It is thin glue — the
// hard work lives in internal/lexer, internal/parser, and
// internal/executor.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"go.uber.org/zap"

	"poshell/internal/config"
	"poshell/internal/executor"
	"poshell/internal/jobctl"
	"poshell/internal/logging"
	"poshell/internal/painter"
	"poshell/internal/parser"
	"poshell/internal/prompt"
)

// Shell holds the REPL's runtime state.
type Shell struct {
	cfg      *config.Config
	log      *zap.Logger
	ctrl     *jobctl.Controller
	exec     *executor.Executor
	terminal *readline.Instance
	painter  painter.Painter
	monitor  *logging.Monitor
}

// New boots the shell: it builds the readline terminal (line editing,
// history, and completion are external collaborators per spec §1 — the
// REPL only uses the library's bare line reading and history-file wiring,
// never its own completion tree), starts the signal module, and wires an
// executor.
func New(cfg *config.Config, log *zap.Logger) (*Shell, error) {
	terminal, err := readline.NewEx(&readline.Config{
		Prompt:          cfg.Prompt,
		HistoryFile:     cfg.HistoryFile,
		HistoryLimit:    cfg.HistoryLimit,
		InterruptPrompt: cfg.InterruptPrompt,
		EOFPrompt:       cfg.EOFPrompt,
	})
	if err != nil {
		return nil, fmt.Errorf("poshell: boot: failed to create terminal: %w", err)
	}

	return &Shell{
		cfg:      cfg,
		log:      log,
		ctrl:     jobctl.New(),
		exec:     executor.New(log),
		terminal: terminal,
		painter:  painter.New(cfg),
		monitor:  logging.NewMonitor(log, cfg.FDCheckInterval),
	}, nil
}

// Close releases the terminal and stops the signal module. Call it once,
// via defer, around Run.
func (s *Shell) Close() {
	s.ctrl.Close()
	_ = s.terminal.Close()
}

// Run is the read-print loop. It returns the exit status the process
// should report: the last pipeline's status, or 0 if none ran.
func (s *Shell) Run() int {
	lastStatus := 0

	for {
		jobctl.ClearInterrupted()

		s.terminal.SetPrompt(prompt.Build(s.cfg.Prompt, s.painter))

		line, err := s.terminal.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Println()
				return lastStatus
			}
			fmt.Fprintln(os.Stderr, "poshell:", err)
			return lastStatus
		}

		if len(line) > s.cfg.MaxLineLength {
			fmt.Fprintf(os.Stderr, "poshell: input line exceeds %d bytes\n", s.cfg.MaxLineLength)
			continue
		}

		if line == "" {
			continue
		}
		if line == "exit" {
			return lastStatus
		}

		pipe, err := parser.Parse(line, s.cfg.MaxPipelineLength)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			s.monitor.Sweep()
			continue
		}
		if pipe.Empty() {
			continue
		}

		lastStatus = s.exec.Run(pipe)
		s.log.Debug("pipeline finished", zap.Int("commands", pipe.Len()), zap.Int("status", lastStatus))
		s.monitor.Sweep()
	}
}
