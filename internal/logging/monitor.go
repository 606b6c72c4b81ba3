package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

// Monitor periodically compares the process's open file descriptor count
// against a startup baseline, the adapted replacement for the teacher's
// descriptor-leak panic: instead of crashing the shell, a detected leak is a
// Warn-level diagnostic through the same logger used for every other
// internal, non-protocol event.
type Monitor struct {
	log           *zap.Logger
	baseline      int
	enabled       bool
	checkInterval uint
	counter       uint
}

// NewMonitor records the current descriptor count as the baseline and
// returns a Monitor that checks against it every checkInterval calls to
// Sweep (0 disables the check entirely). If the baseline can't be read
// (e.g. /proc is unavailable on this platform), the Monitor is created
// disabled rather than failing shell startup over it.
func NewMonitor(log *zap.Logger, checkInterval uint) *Monitor {
	m := &Monitor{log: log, checkInterval: checkInterval}

	n, err := countDescriptors()
	if err != nil {
		log.Debug("fd monitor disabled: cannot read descriptor baseline", zap.Error(err))
		return m
	}

	m.baseline = n
	m.enabled = true
	return m
}

// Sweep is called by the REPL after each parse error and each executed
// pipeline (not on blank, comment-only or rejected lines). Every checkInterval calls
// it re-reads the descriptor count and logs a warning if more descriptors
// are open than at startup.
func (m *Monitor) Sweep() {
	if !m.enabled || m.checkInterval == 0 {
		return
	}

	m.counter++
	if m.counter < m.checkInterval {
		return
	}
	m.counter = 0

	n, err := countDescriptors()
	if err != nil {
		m.log.Debug("fd monitor: cannot read descriptor count", zap.Error(err))
		return
	}

	if n > m.baseline {
		m.log.Warn("descriptor leak detected",
			zap.Int("baseline", m.baseline),
			zap.Int("current", n),
			zap.Int("delta", n-m.baseline))
	}
}

func countDescriptors() (int, error) {
	entries, err := os.ReadDir(fmt.Sprintf("/proc/%d/fd", os.Getpid()))
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}
