package entity

// Manager依赖倒置

// 进口道的信控写入接口
type IApproachSignalSetter interface {
	Direction() Direction                                                // 获取进口道方向
	SetLight(state LightState, totalTime float64, remainingTime float64) // 设置信号灯状态
	ConsumeFresh() (counts VehicleCounts, fresh bool)                    // 取走最新一次探测计数，标记为已消费
	Light() (state LightState, totalTime float64, remainingTime float64) // 获取信号灯状态
}

// entity/approach/approach.go的依赖倒置
type IApproach interface {
	IApproachSignalSetter

	Feed() string                   // 获取探测输入源标识
	Counts() VehicleCounts          // 获取当前各类别车辆计数（snapshot）
	KnownTotal() int32              // 获取最近一次已知车辆总数
	SetCounts(counts VehicleCounts) // 写入新的探测计数（Prepare后生效）

	Prepare() // 准备阶段
}

// entity/approach/manager.go的依赖倒置
type IApproachManager interface {
	Init(feeds map[string]string) // 初始化

	// 输入方向，查找Approach，如果不存在则panic
	Get(d Direction) IApproach
	// 输入方向，查找Approach，如果不存在则返回error
	GetOrError(d Direction) (IApproach, error)

	Prepare() // 准备阶段

	// 读取各方向最近一次已知车辆总数与累计探测总量，可在调度循环外并发调用
	Totals() (counts map[Direction]int32, total int64)
}

// CountResult 一次车流探测的结果
// 说明：OK为false表示探测失败（输入源缺失、探测超时等），调用方保留旧值
type CountResult struct {
	Direction Direction
	Counts    VehicleCounts
	OK        bool
}

// detector/detector.go的依赖倒置
type IDetector interface {
	// 幂等入队：为指定方向发起一次探测请求，
	// 该方向已有在途请求时返回false且不产生新请求
	Enqueue(d Direction) bool
	Dispatch()                   // 派发排队中的请求到异步工作协程
	Results() <-chan CountResult // 探测结果回传通道
	Close()                      // 停止派发并释放探测资源
}
