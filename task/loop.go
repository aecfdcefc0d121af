package task

import (
	"flag"
	"time"

	"github.com/tsinghua-fib-lab/intersection-oss/events"
)

const (
	SelfName = "signal" // 本程序在控制系统中的名字
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 1200, "心跳日志间隔步数")
)

// prepare 准备阶段，每步执行一次
// 功能：在每个控制步开始时进行准备工作
// 参数：dt-本步实际流逝时间（秒）
// 算法说明：
// 1. 更新时钟：推进步数与累计控制时间
// 2. 心跳日志：定期输出系统状态信息
// 3. 回收探测结果：非阻塞清空结果channel，成功的计数写入对应进口道
//    并发出探测完成事件，失败的仅记录日志（调用方沿用旧值）
// 4. 进口道准备：生效计数buffer并重建状态查询缓存
// 5. 路口准备：将信控结果写入各进口道
func (ctx *Context) prepare(dt float64) {
	ctx.clock.Advance(dt)

	if ctx.clock.InternalStep%int32(*heartBeatInterval) == 0 {
		hour, minute, second := ctx.clock.GetHourMinuteSecond()
		log.Infof(
			"STEP: %d(%d:%d:%.2f) green=%v remaining=%.1fs",
			ctx.clock.InternalStep,
			hour, minute, second,
			ctx.intersection.TrafficLight().Green(),
			ctx.intersection.TrafficLight().RemainingTime(),
		)
	}

	// 回收探测结果
drain:
	for {
		select {
		case res, ok := <-ctx.detector.Results():
			if !ok {
				break drain
			}
			if !res.OK {
				log.Warnf("count for %v unavailable, keeping last known counts", res.Direction)
				continue
			}
			ctx.approachManager.Get(res.Direction).SetCounts(res.Counts)
			ctx.bus.Publish(events.EventSnapshotResolved, events.SnapshotResolved{
				Direction: res.Direction.String(),
				Count:     res.Counts.Total(),
			})
		default:
			break drain
		}
	}

	ctx.approachManager.Prepare()
	ctx.intersection.Prepare()
}

// update 更新阶段，每步执行一次
// 功能：在每个控制步中执行主要的控制逻辑
// 参数：dt-本步实际流逝时间（秒）
// 算法说明：
// 1. 派发探测请求：将排队中的请求交给异步工作协程，不阻塞本步
// 2. 路口更新：推进相位倒计时、处理切换与紧急抢占
func (ctx *Context) update(dt float64) {
	ctx.detector.Dispatch()
	ctx.intersection.Update(dt)
}

// Run 运行
// 功能：以固定节拍驱动控制循环直到关闭指令或有界运行走完
// 说明：相位倒计时按真实流逝时间推进；退出路径上确定性释放
// 探测资源并关闭事件总线，中断退出与正常退出共用此路径
func (ctx *Context) Run() {
	defer func() {
		ctx.detector.Close()
		ctx.bus.Close()
	}()

	interval := time.Duration(ctx.clock.DT * float64(time.Second))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for !ctx.closed.Load() {
		now := <-ticker.C
		dt := now.Sub(last).Seconds()
		last = now

		ctx.prepare(dt)
		ctx.update(dt)

		if ctx.clock.Done() {
			break
		}
	}
	log.Infof("controller complete")
}
