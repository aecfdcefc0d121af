package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/intersection-oss/entity"
)

func TestDirectionCycle(t *testing.T) {
	assert.Equal(t, entity.DirectionSouth, entity.DirectionNorth.Next())
	assert.Equal(t, entity.DirectionEast, entity.DirectionSouth.Next())
	assert.Equal(t, entity.DirectionWest, entity.DirectionEast.Next())
	// 循环回到起点
	assert.Equal(t, entity.DirectionNorth, entity.DirectionWest.Next())
}

func TestParseDirection(t *testing.T) {
	d, err := entity.ParseDirection("north")
	assert.NoError(t, err)
	assert.Equal(t, entity.DirectionNorth, d)

	for _, s := range []string{"northeast", "NORTH", "", "5"} {
		_, err := entity.ParseDirection(s)
		assert.Error(t, err, s)
	}
}

func TestDirectionValidString(t *testing.T) {
	for _, d := range entity.Directions() {
		assert.True(t, d.Valid())
	}
	assert.False(t, entity.Direction(-1).Valid())
	assert.False(t, entity.Direction(4).Valid())
	assert.Equal(t, "west", entity.DirectionWest.String())
	assert.Equal(t, "direction(9)", entity.Direction(9).String())
}

func TestLightStateString(t *testing.T) {
	assert.Equal(t, "red", entity.LightStateRed.String())
	assert.Equal(t, "yellow", entity.LightStateYellow.String())
	assert.Equal(t, "green", entity.LightStateGreen.String())
}

func TestVehicleCounts(t *testing.T) {
	counts := entity.VehicleCounts{
		entity.VehicleClassCar:  3,
		entity.VehicleClassBike: 2,
		entity.VehicleClassBus:  1,
	}
	assert.Equal(t, int32(6), counts.Total())
	assert.Equal(t, int32(0), entity.VehicleCounts{}.Total())

	clone := counts.Clone()
	clone[entity.VehicleClassCar] = 100
	assert.Equal(t, int32(3), counts[entity.VehicleClassCar])
}
