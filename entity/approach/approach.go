package approach

import (
	"fmt"

	"git.fiblab.net/general/common/v2/mathutil"
	"github.com/tsinghua-fib-lab/intersection-oss/entity"
)

// approachRuntime 进口道运行时数据结构
// 功能：存储一个方向上最近一次探测得到的车辆计数
type approachRuntime struct {
	counts entity.VehicleCounts // 各类别车辆计数
	total  int32                // 车辆总数
	fresh  bool                 // 自上次被信控消费以来是否有新计数
}

// Approach 路口的一个进口道
// 功能：持有该方向的车辆计数与信号灯写入结果
// 说明：计数写入采用buffer模式，探测结果由调度循环写入buffer，
// Prepare时生效并同步到snapshot；信号灯状态由信控模块在Prepare阶段写入
type Approach struct {
	ctx entity.ITaskContext

	direction entity.Direction // 所属方向
	feed      string           // 探测输入源标识

	snapshot   approachRuntime  // snapshot，用于保存输出的数据
	runtime    approachRuntime  // 运行时数据
	buffer     *approachRuntime // 数据buffer，用于探测结果写入
	cumulative int64            // 累计探测到的车辆总量

	// 信号灯状态（由信控模块写入）
	lightState     entity.LightState
	lightTotal     float64
	lightRemaining float64
}

// newApproach 创建进口道实例
// 参数：ctx-任务上下文，direction-方向，feed-探测输入源标识
// 返回：初始化完成的进口道实例
func newApproach(ctx entity.ITaskContext, direction entity.Direction, feed string) *Approach {
	return &Approach{
		ctx:            ctx,
		direction:      direction,
		feed:           feed,
		runtime:        approachRuntime{counts: make(entity.VehicleCounts)},
		lightState:     entity.LightStateRed,
		lightTotal:     mathutil.INF,
		lightRemaining: mathutil.INF,
	}
}

// prepare 准备阶段
// 功能：将buffer中的新探测计数写入runtime并更新snapshot
func (a *Approach) prepare() {
	if a.buffer != nil {
		a.runtime = *a.buffer
		a.buffer = nil
		a.cumulative += int64(a.runtime.total)
	}
	a.snapshot = a.runtime
}

// Prepare 准备阶段入口
func (a *Approach) Prepare() {
	a.prepare()
}

// Direction 获取进口道方向
func (a *Approach) Direction() entity.Direction {
	return a.direction
}

// Feed 获取探测输入源标识
func (a *Approach) Feed() string {
	return a.feed
}

// SetCounts 写入新的探测计数
// 功能：将一次探测结果写入buffer，下一个Prepare生效
// 说明：仅由调度循环调用，不做并发保护
func (a *Approach) SetCounts(counts entity.VehicleCounts) {
	a.buffer = &approachRuntime{
		counts: counts.Clone(),
		total:  counts.Total(),
		fresh:  true,
	}
}

// ConsumeFresh 取走最新一次探测计数
// 功能：返回runtime中的计数，并清除新鲜标记
// 返回：计数与是否为未被消费过的新计数
// 说明：信控模块在相位切换时调用，fresh为false时走回退路径
func (a *Approach) ConsumeFresh() (entity.VehicleCounts, bool) {
	fresh := a.runtime.fresh
	a.runtime.fresh = false
	return a.runtime.counts, fresh
}

// Counts 获取当前各类别车辆计数
func (a *Approach) Counts() entity.VehicleCounts {
	return a.snapshot.counts.Clone()
}

// KnownTotal 获取最近一次已知车辆总数
func (a *Approach) KnownTotal() int32 {
	return a.snapshot.total
}

// Cumulative 获取累计探测到的车辆总量
func (a *Approach) Cumulative() int64 {
	return a.cumulative
}

// SetLight 设置信号灯状态
func (a *Approach) SetLight(state entity.LightState, totalTime float64, remainingTime float64) {
	a.lightState = state
	a.lightTotal = totalTime
	a.lightRemaining = remainingTime
}

// Light 获取信号灯状态
func (a *Approach) Light() (entity.LightState, float64, float64) {
	return a.lightState, a.lightTotal, a.lightRemaining
}

func (a *Approach) String() string {
	return fmt.Sprintf("Approach{direction=%v, total=%d, light=%v}", a.direction, a.snapshot.total, a.lightState)
}
