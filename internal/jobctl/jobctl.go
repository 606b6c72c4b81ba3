// Package jobctl owns the shell's single piece of shared mutable state —
// the foreground-group-id cell described in spec §3/§5 — and the signal
// module described in spec §4.4. It also drives the real POSIX terminal
// foreground-group handoff (TIOCSPGRP) that backs up the signal forwarding:
// when the kernel's own terminal driver already delivers SIGINT/SIGTSTP to
// the right process group, the forwarding below is a defensive no-op.
package jobctl

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// foregroundPGID holds 0 ("no foreground pipeline") or the pgid of the
// currently running foreground leader. Single-word atomic, no locks, per
// spec §3's invariant.
var foregroundPGID atomic.Int32

// wasInterrupted is set by the signal handler and cleared by the REPL at
// the top of each loop iteration (spec §4.5 step 1).
var wasInterrupted atomic.Bool

// Controller installs the interrupt handler and exposes the foreground
// group cell to the executor.
type Controller struct {
	sigCh  chan os.Signal
	stopCh chan struct{}
}

// New installs the SIGINT handler and ignores SIGTSTP, then starts the
// forwarding goroutine. Call Close when the shell exits.
func New() *Controller {
	c := &Controller{
		sigCh:  make(chan os.Signal, 1),
		stopCh: make(chan struct{}),
	}

	signal.Notify(c.sigCh, syscall.SIGINT)
	signal.Ignore(syscall.SIGTSTP)

	go c.forward()

	return c
}

// forward is the signal module's handler loop. It never touches a parse
// tree and never allocates beyond the channel receive; the only action it
// takes is setting wasInterrupted and, if a foreground pipeline is
// running, signaling its entire process group.
func (c *Controller) forward() {
	for {
		select {
		case <-c.stopCh:
			return
		case <-c.sigCh:
			wasInterrupted.Store(true)
			if pgid := foregroundPGID.Load(); pgid != 0 {
				_ = syscall.Kill(-int(pgid), syscall.SIGINT)
			}
		}
	}
}

// Close stops signal delivery and the forwarding goroutine.
func (c *Controller) Close() {
	signal.Stop(c.sigCh)
	close(c.stopCh)
}

// ClearInterrupted clears the was-interrupted flag; called at the top of
// each REPL iteration.
func ClearInterrupted() {
	wasInterrupted.Store(false)
}

// Interrupted reports whether a SIGINT has arrived since the last
// ClearInterrupted call.
func Interrupted() bool {
	return wasInterrupted.Load()
}

// SetForeground records pgid as the running foreground leader. Called by
// the executor before launching a foreground pipeline.
func SetForeground(pgid int) {
	foregroundPGID.Store(int32(pgid))
}

// ClearForeground resets the cell to "no foreground pipeline". Called by
// the executor after a foreground pipeline finishes, regardless of
// outcome.
func ClearForeground() {
	foregroundPGID.Store(0)
}

// Foreground returns the pgid currently recorded, or 0.
func Foreground() int32 {
	return foregroundPGID.Load()
}

// HandToForeground gives the controlling terminal to pgid via TIOCSPGRP.
// It is a best-effort supplement to signal forwarding, not a requirement:
// when stdin is not a terminal (piped input, test harness) it is a no-op.
func HandToForeground(pgid int) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return
	}
	_ = unix.IoctlSetPointerInt(int(os.Stdin.Fd()), unix.TIOCSPGRP, pgid)
}

// ReclaimTerminal gives the controlling terminal back to the shell's own
// process group. Called after a foreground pipeline completes.
func ReclaimTerminal() {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return
	}
	shellPGID := syscall.Getpgrp()
	_ = unix.IoctlSetPointerInt(int(os.Stdin.Fd()), unix.TIOCSPGRP, shellPGID)
}
