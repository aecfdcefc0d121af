package task

import (
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/intersection-oss/clock"
	"github.com/tsinghua-fib-lab/intersection-oss/detector"
	"github.com/tsinghua-fib-lab/intersection-oss/entity"
	"github.com/tsinghua-fib-lab/intersection-oss/entity/approach"
	"github.com/tsinghua-fib-lab/intersection-oss/entity/intersection"
	"github.com/tsinghua-fib-lab/intersection-oss/events"
	"github.com/tsinghua-fib-lab/intersection-oss/utils/config"
)

// log task模块的日志记录器
var log = logrus.WithField("module", "task")

// Context 控制任务上下文
// 功能：包含一次控制任务的所有变量和状态，替代全局变量
// 说明：由单一调度循环持有并推进，工作协程只通过线程安全的
// 交接通道（探测结果channel、请求队列）与其交互
type Context struct {

	// 任务名
	job string
	// 关闭指令
	closed atomic.Bool

	// 时钟
	clock *clock.Clock

	// 事件总线
	bus *events.Bus

	// Approach管理器
	approachManager entity.IApproachManager
	// 探测请求调度器
	detector entity.IDetector
	// 受控路口
	intersection *intersection.Intersection

	// 运行时配置文件
	runtimeConfig *config.RuntimeConfig
}

// NewContext 创建新的控制任务上下文
// 功能：初始化控制系统的所有组件和配置
// 参数：
//   - job: 任务名称
//   - c: 配置对象
//   - provider: 车流计数提供者（探测子系统边界）
//
// 返回：初始化完成的Context实例与错误信息
// 算法说明：
// 1. 校验配置并填充默认值
// 2. 创建时钟、事件总线与探测请求调度器
// 3. 创建Approach管理器并初始化四个方向的进口道
// 4. 创建路口与信号控制器
func NewContext(
	job string,
	c config.Config,
	provider detector.ICountProvider,
) (*Context, error) {
	rc, err := config.NewRuntimeConfig(c)
	if err != nil {
		return nil, err
	}

	ctx := &Context{
		job:           job,
		runtimeConfig: rc,
	}
	ctx.clock = clock.New(rc.C.Step)
	ctx.bus = events.NewBus(0)
	ctx.detector = detector.New(provider, time.Duration(rc.All.Detector.Timeout*float64(time.Second)))

	ctx.approachManager = approach.NewManager(ctx)
	ctx.approachManager.Init(rc.All.Detector.Feeds)
	ctx.intersection = intersection.New(ctx, 0)

	return ctx, nil
}

func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

func (ctx *Context) ApproachManager() entity.IApproachManager {
	return ctx.approachManager
}

func (ctx *Context) Detector() entity.IDetector {
	return ctx.detector
}

func (ctx *Context) Bus() *events.Bus {
	return ctx.bus
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

func (ctx *Context) Intersection() *intersection.Intersection {
	return ctx.intersection
}

// Close 下达关闭指令
// 功能：通知调度循环在下一个控制步退出
// 说明：幂等，可从信号处理等任意goroutine调用；
// 探测资源的释放由Run的退出路径统一完成
func (ctx *Context) Close() {
	ctx.closed.Store(true)
}
