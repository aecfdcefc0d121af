package config_test

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/intersection-oss/utils/config"
)

func TestRuntimeConfigDefaults(t *testing.T) {
	rc, err := config.NewRuntimeConfig(config.Config{})
	require.NoError(t, err)

	assert.Equal(t, config.DefaultInterval, rc.C.Step.Interval)
	assert.Equal(t, config.DefaultGreen, rc.C.Signal.DefaultGreen)
	assert.Equal(t, config.DefaultYellow, rc.C.Signal.Yellow)
	assert.Equal(t, config.DefaultMinGreen, rc.C.Signal.MinGreen)
	assert.Equal(t, config.DefaultMaxGreen, rc.C.Signal.MaxGreen)
	assert.Equal(t, config.DefaultEmergencyGreen, rc.C.Signal.EmergencyGreen)
	require.NotNil(t, rc.C.Signal.SnapshotLead)
	assert.Equal(t, config.DefaultSnapshotLead, *rc.C.Signal.SnapshotLead)
	assert.Equal(t, int32(config.DefaultLanes), rc.C.Signal.Lanes)
	assert.Equal(t, config.DefaultTimeout, rc.All.Detector.Timeout)
	assert.Equal(t, 2.0, rc.All.VehicleTimes["car"])
	assert.Equal(t, 1.0, rc.All.VehicleTimes["bike"])
	assert.Equal(t, 2.5, rc.All.VehicleTimes["bus"])
}

func TestRuntimeConfigKeepsExplicitValues(t *testing.T) {
	c := config.Config{}
	c.Control.Signal.DefaultGreen = 15
	c.Control.Signal.MinGreen = 5
	c.Control.Signal.MaxGreen = 90
	c.VehicleTimes = map[string]float64{"car": 3}

	rc, err := config.NewRuntimeConfig(c)
	require.NoError(t, err)
	assert.Equal(t, 15.0, rc.C.Signal.DefaultGreen)
	assert.Equal(t, 5.0, rc.C.Signal.MinGreen)
	assert.Equal(t, 90.0, rc.C.Signal.MaxGreen)
	assert.Equal(t, 3.0, rc.All.VehicleTimes["car"])
	// 未覆盖的类别补默认值
	assert.Equal(t, 1.0, rc.All.VehicleTimes["bike"])
}

func TestRuntimeConfigKeepsExplicitZeroSnapshotLead(t *testing.T) {
	// 显式配置为0（相位切换瞬间才预取）不被默认值覆盖
	c := config.Config{}
	c.Control.Signal.SnapshotLead = lo.ToPtr(0.0)

	rc, err := config.NewRuntimeConfig(c)
	require.NoError(t, err)
	require.NotNil(t, rc.C.Signal.SnapshotLead)
	assert.Equal(t, 0.0, *rc.C.Signal.SnapshotLead)
}

func TestRuntimeConfigRejectsBadRanges(t *testing.T) {
	c := config.Config{}
	c.Control.Signal.MinGreen = 60
	c.Control.Signal.MaxGreen = 10
	_, err := config.NewRuntimeConfig(c)
	assert.Error(t, err)

	c = config.Config{}
	c.Control.Signal.StopLineLag = -1
	_, err = config.NewRuntimeConfig(c)
	assert.Error(t, err)

	c = config.Config{}
	c.Control.Signal.SnapshotLead = lo.ToPtr(-1.0)
	_, err = config.NewRuntimeConfig(c)
	assert.Error(t, err)

	c = config.Config{}
	c.VehicleTimes = map[string]float64{"car": -2}
	_, err = config.NewRuntimeConfig(c)
	assert.Error(t, err)
}
