// Package executor turns a pipeline.Pipeline into a tree of child
// processes wired together by anonymous pipes: it is the shell's core
// engine (spec §4.3). It establishes one process group per pipeline,
// hands the controlling terminal to that group for foreground runs, waits
// for (or detaches from) the children, and derives the shell's "last
// status" from the final command alone.
package executor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"go.uber.org/zap"

	"poshell/internal/jobctl"
	"poshell/internal/pipeline"
)

// commandFactory constructs the *exec.Cmd for a single command. It is a
// package variable (not a hardcoded exec.Command call) so tests can
// substitute a fake builder that fails Start() on demand, to exercise the
// mid-launch fork-failure path without depending on a real program that
// refuses to run.
var commandFactory = exec.Command

// Executor runs pipelines. It carries only a logger for internal,
// non-protocol diagnostics (spec §7's supplement); all spec-mandated
// user-visible text still goes straight to os.Stderr/os.Stdout.
type Executor struct {
	log *zap.Logger
}

// New returns an Executor that logs internal diagnostics through log.
func New(log *zap.Logger) *Executor {
	return &Executor{log: log}
}

// Run executes p and returns the shell's "last status": 0 for an empty
// pipeline, 0 immediately for a background launch, or the final command's
// exit code (0–255) / 128+signal for a foreground run.
func (e *Executor) Run(p pipeline.Pipeline) int {
	if p.Empty() {
		return 0
	}

	n := p.Len()
	background := p.Background()

	readers := make([]*os.File, n-1)
	writers := make([]*os.File, n-1)
	for i := 0; i < n-1; i++ {
		r, w, err := os.Pipe()
		if err != nil {
			closeFiles(readers, writers)
			fmt.Fprintln(os.Stderr, "poshell:", err)
			return 1
		}
		readers[i] = r
		writers[i] = w
	}

	cmds := make([]*exec.Cmd, n)
	var leaderPID int

	for i, c := range p.Commands {
		cmd := commandFactory(c.Argv[0], c.Argv[1:]...)
		cmd.Stderr = os.Stderr

		stdin, closeStdinAfter, stdinErr := e.resolveStdin(c, i, readers)
		if stdinErr != nil {
			fmt.Fprintf(os.Stderr, "poshell: %s: %v\n", c.Argv[0], stdinErr)
			closeFiles(readers, writers)
			e.reap(cmds[:i])
			return 1
		}
		cmd.Stdin = stdin

		stdout, closeStdoutAfter, stdoutErr := e.resolveStdout(c, i, n, writers)
		if stdoutErr != nil {
			fmt.Fprintf(os.Stderr, "poshell: %s: %v\n", c.Argv[0], stdoutErr)
			if closeStdinAfter != nil {
				_ = closeStdinAfter.Close()
			}
			closeFiles(readers, writers)
			e.reap(cmds[:i])
			return 1
		}
		cmd.Stdout = stdout

		cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
		if i > 0 {
			cmd.SysProcAttr.Pgid = leaderPID
		}

		if err := cmd.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "poshell: %s: %v\n", c.Argv[0], err)
			if closeStdinAfter != nil {
				_ = closeStdinAfter.Close()
			}
			if closeStdoutAfter != nil {
				_ = closeStdoutAfter.Close()
			}
			closeFiles(readers, writers)
			e.reap(cmds[:i])

			if isCommandNotFound(err) {
				// exec.Command resolves PATH before forking, so "command not
				// found" surfaces here as a Start() failure rather than as a
				// forked child's own exec(2) failure. Synthesize the same 127
				// status a real exec failure would produce.
				e.log.Debug("command not found",
					zap.Int("index", i), zap.String("argv0", c.Argv[0]))
				if i == n-1 {
					return 127
				}
				return 1
			}

			e.log.Warn("fork failed partway through pipeline",
				zap.Int("index", i), zap.Int("pipeline_len", n), zap.Error(err))
			return 1
		}

		if i == 0 {
			leaderPID = cmd.Process.Pid
		}
		// Robust process-group pattern (spec §9): both child (via
		// SysProcAttr above) and parent attempt Setpgid; whichever runs
		// first wins, the other is a harmless no-op.
		_ = syscall.Setpgid(cmd.Process.Pid, leaderPID)

		cmds[i] = cmd

		if i > 0 && readers[i-1] != nil {
			_ = readers[i-1].Close()
		}
		if i < n-1 && writers[i] != nil {
			// Closed unconditionally, even when this command's stdout was
			// redirected to a file instead: nothing else will ever write
			// to this pipe, so the next command must see EOF on it.
			_ = writers[i].Close()
		}
		if closeStdinAfter != nil {
			_ = closeStdinAfter.Close()
		}
		if closeStdoutAfter != nil {
			_ = closeStdoutAfter.Close()
		}
	}

	if background {
		fmt.Printf("[%d]\n", cmds[n-1].Process.Pid)
		e.log.Debug("background pipeline launched",
			zap.Int("pid", cmds[n-1].Process.Pid), zap.Int("commands", n))
		return 0
	}

	jobctl.SetForeground(leaderPID)
	jobctl.HandToForeground(leaderPID)
	defer func() {
		jobctl.ClearForeground()
		jobctl.ReclaimTerminal()
	}()

	var status int
	for i, cmd := range cmds {
		err := cmd.Wait()
		if i != n-1 {
			continue // earlier commands' statuses are reaped but discarded
		}
		status = exitStatus(err)
	}

	return status
}

// resolveStdin picks the *os.File for command i's standard input: the
// read end of the previous pipe, overridden by an explicit input file.
// closeAfter, when non-nil, is the opened redirection file the caller must
// Close once the child has started (it is not one of the shared pipe ends).
func (e *Executor) resolveStdin(c pipeline.Command, i int, readers []*os.File) (file, closeAfter *os.File, err error) {
	if c.InputFile != "" {
		f, openErr := os.Open(c.InputFile)
		if openErr != nil {
			return nil, nil, openErr
		}
		return f, f, nil
	}
	if i > 0 {
		return readers[i-1], nil, nil
	}
	return os.Stdin, nil, nil
}

// resolveStdout picks the *os.File for command i's standard output: the
// write end of the next pipe, overridden by an explicit output file.
// closeAfter, when non-nil, is a redirection file the caller must Close
// once the child has started (it is not one of the shared pipe ends).
func (e *Executor) resolveStdout(c pipeline.Command, i, n int, writers []*os.File) (file, closeAfter *os.File, err error) {
	if c.OutputFile != "" {
		flags := os.O_CREATE | os.O_WRONLY
		if c.AppendOutput {
			flags |= os.O_APPEND
		} else {
			flags |= os.O_TRUNC
		}
		f, openErr := os.OpenFile(c.OutputFile, flags, 0644)
		if openErr != nil {
			return nil, nil, openErr
		}
		return f, f, nil
	}
	if i < n-1 {
		return writers[i], nil, nil
	}
	return os.Stdout, nil, nil
}

// reap waits for every already-started command so none become zombies
// after a fork failure partway through launching a pipeline (spec §4.3,
// §7 "mid-launch fork error").
func (e *Executor) reap(started []*exec.Cmd) {
	for _, cmd := range started {
		if cmd == nil {
			continue
		}
		if err := cmd.Wait(); err != nil {
			e.log.Debug("reaped already-launched command after fork failure",
				zap.Int("pid", cmd.Process.Pid), zap.Error(err))
		}
	}
}

// closeFiles closes every non-nil file in both slices; used to guarantee
// the parent holds no pipe ends after a failure partway through forking.
func closeFiles(groups ...[]*os.File) {
	for _, files := range groups {
		for _, f := range files {
			if f != nil {
				_ = f.Close()
			}
		}
	}
}

// isCommandNotFound reports whether err is the *exec.Error Start() returns
// when it cannot resolve the program on PATH (or the named file does not
// exist/is not executable) — the "command not found" class, distinct from a
// genuine fork/allocation failure after the program was already resolved.
func isCommandNotFound(err error) bool {
	var execErr *exec.Error
	// A program named by a path (containing '/') is not looked up on PATH,
	// so a missing or non-executable file surfaces as the fork/exec
	// *os.PathError instead.
	return errors.As(err, &execErr) || errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission)
}

// exitStatus converts a Cmd.Wait error into the spec's encoding: 0–255 for
// normal exit, 128+signal for signaled termination.
func exitStatus(err error) int {
	if err == nil {
		return 0
	}
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		return 1
	}
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok {
		if ws.Signaled() {
			return 128 + int(ws.Signal())
		}
		return ws.ExitStatus()
	}
	return exitErr.ExitCode()
}
