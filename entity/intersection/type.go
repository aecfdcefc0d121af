package intersection

import (
	"github.com/tsinghua-fib-lab/intersection-oss/entity"
)

// 依赖倒置，表达intersection对信号控制实现的接口需求

// 信号控制读取接口
type ISignalGetter interface {
	Green() entity.Direction  // 当前放行方向
	State() entity.LightState // 当前灯色
	TotalTime() float64       // 当前相位总时长
	RemainingTime() float64   // 当前相位剩余时长
	EmergencyActive() bool    // 是否处于紧急抢占状态
}

// 信号控制接口
type ISignalController interface {
	ISignalGetter
	Prepare()          // 准备阶段，将信控结果写入到进口道中
	Update(dt float64) // 更新阶段，推进相位倒计时与切换

	RequestEmergency(d entity.Direction)             // 提交紧急抢占请求
	SetPhase(d entity.Direction, remainingT float64) // 人工设置当前相位
}
