package clock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/intersection-oss/clock"
	"github.com/tsinghua-fib-lab/intersection-oss/utils/config"
)

func TestClockAdvance(t *testing.T) {
	c := clock.New(config.ControlStep{Interval: 0.05, Total: 3})
	assert.Equal(t, int32(0), c.InternalStep)
	assert.Equal(t, 0.0, c.T)
	assert.False(t, c.Done())

	c.Advance(0.05)
	c.Advance(0.07)
	assert.Equal(t, int32(2), c.InternalStep)
	assert.InDelta(t, 0.12, c.T, 1e-9)
	assert.False(t, c.Done())

	c.Advance(0.05)
	assert.True(t, c.Done())
}

func TestClockUnboundedNeverDone(t *testing.T) {
	c := clock.New(config.ControlStep{Interval: 0.05})
	for i := 0; i < 1000; i++ {
		c.Advance(0.05)
	}
	assert.False(t, c.Done())
}

func TestClockString(t *testing.T) {
	c := clock.New(config.ControlStep{Interval: 1})
	c.T = 3661.5
	assert.Equal(t, "01:01:01", c.String())

	h, m, s := c.GetHourMinuteSecond()
	assert.Equal(t, 1, h)
	assert.Equal(t, 1, m)
	assert.InDelta(t, 1.5, s, 1e-9)
}
