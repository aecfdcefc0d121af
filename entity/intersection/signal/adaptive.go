// 提供自适应定时信号控制算法
// 按固定方向顺序循环放行，每个绿灯相位的时长由该方向最近一次
// 车流探测计数计算得到，紧急车辆可随时抢占正常循环
package signal

import (
	"git.fiblab.net/general/common/v2/mathutil"
	"github.com/tsinghua-fib-lab/intersection-oss/entity"
	"github.com/tsinghua-fib-lab/intersection-oss/events"
	"github.com/tsinghua-fib-lab/intersection-oss/utils/container"
)

// adaptiveRuntime 自适应信号灯运行时数据结构
// 功能：存储当前相位的全部状态，包括放行方向、灯色、时间控制与预取标记
type adaptiveRuntime struct {
	green      entity.Direction  // 当前放行方向
	state      entity.LightState // 当前灯色（绿或黄），其余方向恒为红
	totalTime  float64           // 当前相位总时长
	remainingT float64           // 当前相位剩余时间
	prefetched bool              // 本绿灯相位是否已为下一方向发起计数预取
}

// AdaptiveSignal 自适应信号灯控制器
// 功能：驱动四个方向的相位循环，按实时车流计数确定绿灯时长，
// 处理紧急抢占的保存与恢复
// 说明：Prepare/Update仅由调度循环调用；RequestEmergency与SetPhase
// 可从外部goroutine并发调用，变更在下一个控制步整体生效
type AdaptiveSignal struct {
	ctx entity.ITaskContext

	intersectionID int32                          // 所属路口ID
	approaches     []entity.IApproachSignalSetter // 进口道数据，按方向取值排列

	snapshot adaptiveRuntime // snapshot，用于保存输出的数据
	runtime  adaptiveRuntime // 运行时数据

	phaseOps *container.Queue[adaptiveRuntime] // 外部相位写入队列

	greenTimes [entity.DirectionCount]float64 // 各方向最近一次成功计算的绿灯时长
	preempt    *preemption                    // 紧急抢占控制器
}

// NewAdaptiveSignal 创建自适应信号灯控制器
// 功能：初始化控制器，校验进口道排列，设置初始相位
// 参数：ctx-任务上下文，intersectionID-路口ID，approaches-进口道列表（按方向取值排列）
// 返回：初始化完成的自适应信号灯控制器实例
// 说明：初始相位为方向0的绿灯，时长为配置的默认绿灯时长
func NewAdaptiveSignal(ctx entity.ITaskContext, intersectionID int32, approaches []entity.IApproachSignalSetter) *AdaptiveSignal {
	if len(approaches) != entity.DirectionCount {
		log.Panicf("signal %d requires %d approaches, got %d", intersectionID, entity.DirectionCount, len(approaches))
	}
	for i, a := range approaches {
		if a.Direction() != entity.Direction(i) {
			log.Panicf("signal %d approach %d has direction %v", intersectionID, i, a.Direction())
		}
	}
	cfg := ctx.RuntimeConfig().C.Signal
	s := &AdaptiveSignal{
		ctx:            ctx,
		intersectionID: intersectionID,
		approaches:     approaches,
		phaseOps:       container.NewQueue[adaptiveRuntime](),
		preempt:        newPreemption(cfg.EmergencyGreen),
	}
	for i := range s.greenTimes {
		s.greenTimes[i] = cfg.DefaultGreen
	}
	s.runtime = adaptiveRuntime{
		green:      entity.DirectionNorth,
		state:      entity.LightStateGreen,
		totalTime:  cfg.DefaultGreen,
		remainingT: cfg.DefaultGreen,
	}
	return s
}

// Prepare 准备阶段，处理信号灯的准备工作
// 功能：更新snapshot并将当前相位写入各进口道
// 说明：放行方向得到当前灯色与计时，其余方向为红灯；
// 红灯的剩余时长取决于后续各相位的自适应计算结果，无法预知，置为INF
func (s *AdaptiveSignal) Prepare() {
	s.snapshot = s.runtime
	for _, a := range s.approaches {
		if a.Direction() == s.snapshot.green {
			a.SetLight(s.snapshot.state, s.snapshot.totalTime, s.snapshot.remainingT)
		} else {
			a.SetLight(entity.LightStateRed, mathutil.INF, mathutil.INF)
		}
	}
}

// Update 更新阶段，执行自适应信号控制的核心逻辑
// 功能：推进相位倒计时，处理相位切换、计数预取与紧急抢占
// 参数：dt-时间步长
// 算法说明：
// 1. 生效外部相位写入（抢占期间挂起，抢占结束后生效）
// 2. 激活排队中的紧急请求：保存当前运行时状态，强制紧急方向绿灯固定时长
// 3. 抢占期间仅倒计时，到期后服务下一个排队请求或精确恢复保存的状态，
//    正常切换与预取全部挂起
// 4. 正常倒计时：剩余时间降至预取提前量以内时，为下一方向发起计数预取
// 5. 相位到期切换：绿->黄（固定黄灯时长），黄->下一方向绿（计算绿灯时长），
//    切换时以remainingT累加新相位时长，时间欠账滚动到下一相位
func (s *AdaptiveSignal) Update(dt float64) {
	for _, op := range s.phaseOps.Drain() {
		if s.preempt.active {
			// 抢占期间挂起，抢占结束后的下一个控制步生效
			s.phaseOps.Push(op)
			continue
		}
		s.runtime = op
		s.publishChange()
	}

	// 紧急抢占优先于一切正常切换
	if !s.preempt.active {
		if d, ok := s.preempt.takePending(); ok {
			s.beginEmergency(d)
		}
	}
	if s.preempt.active {
		s.runtime.remainingT -= dt
		if s.runtime.remainingT <= 0 {
			s.ctx.Bus().Publish(events.EventEmergencyEnded, events.EmergencyChanged{
				Direction: s.preempt.direction.String(),
			})
			log.Infof("signal %d: emergency preemption for %v ended", s.intersectionID, s.preempt.direction)
			if d, ok := s.preempt.takePending(); ok {
				// 同一窗口内排队的下一个紧急请求，保存的状态继续保持
				s.beginEmergency(d)
			} else {
				s.runtime = s.preempt.restore()
				s.publishChange()
			}
		}
		return
	}

	s.runtime.remainingT -= dt

	// 绿灯结束前的预取窗口：为下一方向请求新的车流计数
	cfg := s.ctx.RuntimeConfig().C.Signal
	if s.runtime.state == entity.LightStateGreen && !s.runtime.prefetched &&
		s.runtime.remainingT <= *cfg.SnapshotLead {
		s.ctx.Detector().Enqueue(s.runtime.green.Next())
		s.runtime.prefetched = true
	}

	if s.runtime.remainingT > 0 {
		return
	}

	// 切换相位
	switch s.runtime.state {
	case entity.LightStateGreen:
		s.runtime.state = entity.LightStateYellow
		s.runtime.remainingT += cfg.Yellow
		s.runtime.totalTime = s.runtime.remainingT
	case entity.LightStateYellow:
		next := s.runtime.green.Next()
		deficit := s.runtime.remainingT
		s.runtime = adaptiveRuntime{
			green:      next,
			state:      entity.LightStateGreen,
			remainingT: deficit + s.nextGreenTime(next),
		}
		s.runtime.totalTime = s.runtime.remainingT
	}
	if s.runtime.remainingT <= 0 {
		log.Warnf("signal %d remaining time %f <= 0", s.intersectionID, s.runtime.remainingT)
	}
	s.publishChange()
}

// beginEmergency 进入紧急抢占
// 功能：保存被打断的运行时状态并强制紧急方向绿灯固定时长
// 参数：d-紧急方向
func (s *AdaptiveSignal) beginEmergency(d entity.Direction) {
	s.preempt.activate(d, s.runtime)
	cfg := s.ctx.RuntimeConfig().C.Signal
	s.runtime = adaptiveRuntime{
		green:      d,
		state:      entity.LightStateGreen,
		totalTime:  cfg.EmergencyGreen,
		remainingT: cfg.EmergencyGreen,
	}
	s.ctx.Bus().Publish(events.EventEmergencyStarted, events.EmergencyChanged{Direction: d.String()})
	log.Infof("signal %d: emergency preemption started for %v", s.intersectionID, d)
	s.publishChange()
}

// nextGreenTime 计算下一方向的绿灯时长
// 功能：消费该方向最新的探测计数并计算绿灯时长
// 参数：d-即将放行的方向
// 返回：绿灯时长（秒）
// 说明：探测结果未及时返回或失败时，退回该方向上一次成功计算的时长，
// 首次使用时为默认绿灯时长，绝不会为零或越过钳制区间
func (s *AdaptiveSignal) nextGreenTime(d entity.Direction) float64 {
	counts, fresh := s.approaches[d].ConsumeFresh()
	if !fresh {
		log.Debugf("signal %d: no fresh counts for %v, reusing green time %.1fs",
			s.intersectionID, d, s.greenTimes[d])
		return s.greenTimes[d]
	}
	rc := s.ctx.RuntimeConfig()
	g := GreenTime(counts, rc.All.VehicleTimes, rc.C.Signal)
	s.greenTimes[d] = g
	return g
}

// publishChange 发布相位切换事件
func (s *AdaptiveSignal) publishChange() {
	s.ctx.Bus().Publish(events.EventSignalChanged, events.SignalChanged{
		Direction: s.runtime.green.String(),
		State:     s.runtime.state.String(),
		Total:     s.runtime.totalTime,
		Remaining: s.runtime.remainingT,
	})
}

// RequestEmergency 提交紧急抢占请求
// 功能：将已校验的紧急方向加入等待队列
// 说明：可从外部goroutine并发调用，抢占在下一个控制步生效
func (s *AdaptiveSignal) RequestEmergency(d entity.Direction) {
	s.preempt.request(d)
	s.ctx.Bus().Publish(events.EventEmergencyQueued, events.EmergencyChanged{Direction: d.String()})
}

// SetPhase 设置信号灯相位
// 功能：人工将当前相位设置为指定方向的绿灯与剩余时间
// 参数：d-放行方向，remainingT-剩余时间（秒）
// 说明：写入队列，下一个更新周期生效；抢占期间的写入挂起，
// 抢占结束后按提交顺序生效
func (s *AdaptiveSignal) SetPhase(d entity.Direction, remainingT float64) {
	s.phaseOps.Push(adaptiveRuntime{
		green:      d,
		state:      entity.LightStateGreen,
		totalTime:  remainingT,
		remainingT: remainingT,
	})
}

// Green 获取当前放行方向
func (s *AdaptiveSignal) Green() entity.Direction {
	return s.snapshot.green
}

// State 获取当前灯色
func (s *AdaptiveSignal) State() entity.LightState {
	return s.snapshot.state
}

// TotalTime 获取当前相位总时长
func (s *AdaptiveSignal) TotalTime() float64 {
	return s.snapshot.totalTime
}

// RemainingTime 获取当前相位剩余时间
func (s *AdaptiveSignal) RemainingTime() float64 {
	return s.snapshot.remainingT
}

// EmergencyActive 获取是否处于紧急抢占状态
// 说明：仅供调度循环同线程读取
func (s *AdaptiveSignal) EmergencyActive() bool {
	return s.preempt.active
}
