package approach

import (
	"testing"

	"git.fiblab.net/general/common/v2/mathutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/intersection-oss/entity"
)

func TestApproachInitialState(t *testing.T) {
	a := newApproach(nil, entity.DirectionNorth, "north")
	a.Prepare()

	assert.Equal(t, entity.DirectionNorth, a.Direction())
	assert.Equal(t, "north", a.Feed())
	assert.Equal(t, int32(0), a.KnownTotal())

	state, total, remaining := a.Light()
	assert.Equal(t, entity.LightStateRed, state)
	assert.Equal(t, mathutil.INF, total)
	assert.Equal(t, mathutil.INF, remaining)
}

func TestApproachBufferAppliesOnPrepare(t *testing.T) {
	a := newApproach(nil, entity.DirectionEast, "east")
	a.Prepare()

	counts := entity.VehicleCounts{
		entity.VehicleClassCar: 4,
		entity.VehicleClassBus: 1,
	}
	a.SetCounts(counts)
	// Prepare前buffer不生效
	assert.Equal(t, int32(0), a.KnownTotal())

	a.Prepare()
	assert.Equal(t, int32(5), a.KnownTotal())
	assert.Equal(t, int64(5), a.Cumulative())
	assert.Equal(t, counts, a.Counts())

	// 写入方修改原计数表不影响已保存的数据
	counts[entity.VehicleClassCar] = 100
	assert.Equal(t, int32(4), a.Counts()[entity.VehicleClassCar])
}

func TestApproachConsumeFresh(t *testing.T) {
	a := newApproach(nil, entity.DirectionSouth, "south")
	a.SetCounts(entity.VehicleCounts{entity.VehicleClassBike: 7})
	a.Prepare()

	counts, fresh := a.ConsumeFresh()
	assert.True(t, fresh)
	assert.Equal(t, int32(7), counts[entity.VehicleClassBike])

	// 再次消费同一份计数不再新鲜
	counts, fresh = a.ConsumeFresh()
	assert.False(t, fresh)
	assert.Equal(t, int32(7), counts[entity.VehicleClassBike])

	a.SetCounts(entity.VehicleCounts{entity.VehicleClassBike: 2})
	a.Prepare()
	_, fresh = a.ConsumeFresh()
	assert.True(t, fresh)
}

func TestApproachCumulative(t *testing.T) {
	a := newApproach(nil, entity.DirectionWest, "west")
	a.SetCounts(entity.VehicleCounts{entity.VehicleClassCar: 3})
	a.Prepare()
	a.SetCounts(entity.VehicleCounts{entity.VehicleClassCar: 2})
	a.Prepare()
	// 无新数据的Prepare不重复累计
	a.Prepare()
	assert.Equal(t, int64(5), a.Cumulative())
	assert.Equal(t, int32(2), a.KnownTotal())
}

func TestManagerInitAndGet(t *testing.T) {
	m := NewManager(nil)
	m.Init(map[string]string{"north": "camera-01"})

	for _, d := range entity.Directions() {
		a, err := m.GetOrError(d)
		require.NoError(t, err)
		assert.Equal(t, d, a.Direction())
	}
	assert.Equal(t, "camera-01", m.Get(entity.DirectionNorth).Feed())
	// 未配置输入源时回退到方向名
	assert.Equal(t, "south", m.Get(entity.DirectionSouth).Feed())

	_, err := m.GetOrError(entity.Direction(7))
	assert.Error(t, err)
}

func TestManagerTotals(t *testing.T) {
	m := NewManager(nil)
	m.Init(nil)

	m.Get(entity.DirectionNorth).SetCounts(entity.VehicleCounts{entity.VehicleClassCar: 4})
	m.Get(entity.DirectionEast).SetCounts(entity.VehicleCounts{entity.VehicleClassTruck: 2})
	m.Prepare()

	counts, total := m.Totals()
	assert.Equal(t, int32(4), counts[entity.DirectionNorth])
	assert.Equal(t, int32(2), counts[entity.DirectionEast])
	assert.Equal(t, int32(0), counts[entity.DirectionWest])
	assert.Equal(t, int64(6), total)

	m.Get(entity.DirectionNorth).SetCounts(entity.VehicleCounts{entity.VehicleClassCar: 1})
	m.Prepare()
	_, total = m.Totals()
	assert.Equal(t, int64(7), total)
}
