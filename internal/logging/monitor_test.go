package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"poshell/internal/logging"
)

func TestMonitorSweepBelowIntervalIsNoop(t *testing.T) {
	m := logging.NewMonitor(zap.NewNop(), 3)
	assert.NotNil(t, m)
	// Fewer than checkInterval calls must not panic or otherwise misbehave,
	// regardless of whether the platform's descriptor baseline could be read.
	m.Sweep()
	m.Sweep()
}

func TestMonitorDisabledIntervalIsNoop(t *testing.T) {
	m := logging.NewMonitor(zap.NewNop(), 0)
	assert.NotNil(t, m)
	for i := 0; i < 10; i++ {
		m.Sweep()
	}
}
