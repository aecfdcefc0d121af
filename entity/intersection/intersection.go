package intersection

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/intersection-oss/entity"
	"github.com/tsinghua-fib-lab/intersection-oss/entity/intersection/signal"
	"github.com/tsinghua-fib-lab/intersection-oss/events"
)

// Status 路口状态查询结果
// 说明：只读快照，无副作用
type Status struct {
	Counts        map[string]int32 `json:"counts"`        // 方向->最近一次已知车辆总数
	Total         int64            `json:"total"`         // 累计探测到的车辆总量
	UptimeSeconds int64            `json:"uptimeSeconds"` // 进程运行秒数
}

// Intersection 一个四向路口
// 功能：持有信号控制器并提供面向外部传输层的操作接口
// 说明：操作接口可从任意goroutine并发调用，输入在边界处校验，
// 非法输入被拒绝并且不产生任何状态变更
type Intersection struct {
	ctx entity.ITaskContext

	id           int32
	trafficLight ISignalController // 信号控制模块
}

// New 创建并初始化Intersection实例
// 功能：按方向顺序收集进口道并创建自适应信号控制器
// 参数：ctx-任务上下文，id-路口ID
// 返回：初始化完成的Intersection实例
func New(ctx entity.ITaskContext, id int32) *Intersection {
	approaches := lo.Map(entity.Directions(), func(d entity.Direction, _ int) entity.IApproachSignalSetter {
		return ctx.ApproachManager().Get(d)
	})
	return &Intersection{
		ctx:          ctx,
		id:           id,
		trafficLight: signal.NewAdaptiveSignal(ctx, id, approaches),
	}
}

// Prepare 准备阶段，处理信号灯的准备工作
func (i *Intersection) Prepare() {
	i.trafficLight.Prepare()
}

// Update 更新阶段，执行信号灯的更新逻辑
// 参数：dt-时间步长
func (i *Intersection) Update(dt float64) {
	i.trafficLight.Update(dt)
}

// ID 获取路口ID
func (i *Intersection) ID() int32 {
	return i.id
}

// TrafficLight 获取信号控制读取接口
func (i *Intersection) TrafficLight() ISignalGetter {
	return i.trafficLight
}

// RequestSnapshot 外部接口：为指定方向发起一次车流探测
// 功能：校验方向后幂等入队一个探测请求
// 参数：direction-方向字符串
// 返回：错误信息，非法方向仅向调用方返回错误，不广播、不产生状态变更
func (i *Intersection) RequestSnapshot(direction string) error {
	d, err := entity.ParseDirection(direction)
	if err != nil {
		log.Warnf("snapshot request rejected: %v", err)
		return fmt.Errorf("snapshot request rejected: %w", err)
	}
	if !i.ctx.Detector().Enqueue(d) {
		// 该方向已有在途请求，幂等返回成功
		log.Debugf("snapshot request for %v already outstanding", d)
	}
	return nil
}

// Emergency 外部接口：提交紧急车辆抢占请求
// 功能：校验方向后交给信号控制器排队
// 参数：direction-方向字符串
// 返回：错误信息，非法方向被拒绝并广播拒绝事件
func (i *Intersection) Emergency(direction string) error {
	d, err := entity.ParseDirection(direction)
	if err != nil {
		log.Warnf("emergency signal rejected: %v", err)
		i.ctx.Bus().Publish(events.EventEmergencyDenied, events.EmergencyChanged{
			Direction: direction,
			Reason:    err.Error(),
		})
		return fmt.Errorf("emergency signal rejected: %w", err)
	}
	i.trafficLight.RequestEmergency(d)
	return nil
}

// SetPhase 外部接口：人工设置当前相位
// 功能：校验输入后写入相位设置，下一个控制步生效；
// 紧急抢占期间提交的设置挂起到抢占结束后生效
// 参数：direction-放行方向字符串，remainingT-剩余时间（秒）
func (i *Intersection) SetPhase(direction string, remainingT float64) error {
	d, err := entity.ParseDirection(direction)
	if err != nil {
		return fmt.Errorf("set phase rejected: %w", err)
	}
	if remainingT < 0 {
		return fmt.Errorf("set phase rejected: invalid remaining time %f", remainingT)
	}
	i.trafficLight.SetPhase(d, remainingT)
	return nil
}

// Status 外部接口：查询路口当前状态
// 功能：返回各方向最近一次已知车辆总数、累计探测总量与运行时长
// 说明：只读快照，可并发调用，无副作用
func (i *Intersection) Status() Status {
	counts, total := i.ctx.ApproachManager().Totals()
	out := make(map[string]int32, len(counts))
	for d, n := range counts {
		out[d.String()] = n
	}
	return Status{
		Counts:        out,
		Total:         total,
		UptimeSeconds: i.ctx.Clock().UptimeSeconds(),
	}
}
