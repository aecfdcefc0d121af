package signal

import (
	"github.com/tsinghua-fib-lab/intersection-oss/entity"
	"github.com/tsinghua-fib-lab/intersection-oss/utils/container"
)

// preemption 紧急抢占控制器
// 功能：管理紧急车辆抢占的排队、激活与状态保存恢复
// 说明：请求入队可与调度循环并发，其余字段仅由调度循环读写，
// 抢占在控制步边界整体生效，外部不会观察到部分切换的状态。
// 同一抢占窗口内到达的多个紧急请求按先进先出顺序依次服务，
// 被打断的正常状态只在全部紧急请求服务完毕后恢复一次
type preemption struct {
	duration float64                            // 抢占绿灯固定时长（秒）
	queue    *container.Queue[entity.Direction] // 等待服务的紧急方向

	active    bool             // 是否处于抢占状态
	direction entity.Direction // 当前服务的紧急方向
	saved     adaptiveRuntime  // 首次抢占时保存的正常运行时状态
}

// newPreemption 创建紧急抢占控制器
// 参数：duration-抢占绿灯固定时长（秒）
func newPreemption(duration float64) *preemption {
	return &preemption{
		duration: duration,
		queue:    container.NewQueue[entity.Direction](),
	}
}

// request 提交紧急请求
// 功能：将一个已校验的紧急方向加入等待队列
// 说明：可从任意goroutine调用，实际抢占由调度循环在下一个控制步生效
func (p *preemption) request(d entity.Direction) {
	p.queue.Push(d)
}

// takePending 取出下一个待服务的紧急方向
// 返回：方向与是否存在
func (p *preemption) takePending() (entity.Direction, bool) {
	return p.queue.Pop()
}

// activate 进入抢占状态
// 功能：记录当前服务方向；首次抢占时保存被打断的正常运行时状态
// 参数：d-紧急方向，interrupted-被打断的运行时状态
// 说明：抢占接续抢占（队列中的后续请求）时不重复保存，
// 保证恢复的是最初被打断的状态
func (p *preemption) activate(d entity.Direction, interrupted adaptiveRuntime) {
	if !p.active {
		p.saved = interrupted
		p.active = true
	}
	p.direction = d
}

// restore 结束抢占并取回保存的状态
// 返回：最初被打断时保存的运行时状态
func (p *preemption) restore() adaptiveRuntime {
	p.active = false
	return p.saved
}
