package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsAverage(t *testing.T) {
	m := NewMetrics()
	for i := 0; i < int(AVG_COUNT); i++ {
		m.Update(0.010)
	}
	assert.InDelta(t, 10.0, m.FrameTime(), 1e-9)
	assert.Equal(t, uint8(0), m.FrameAVGCounter)
}

func TestMetricsFPS(t *testing.T) {
	m := NewMetrics()
	// 0.25s per frame: the fifth frame crosses one second.
	for i := 0; i < 5; i++ {
		m.Update(0.25)
	}
	fps, _ := m.Frame()
	assert.Equal(t, 4.0, fps)
}
