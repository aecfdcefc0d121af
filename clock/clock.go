package clock

import (
	"fmt"
	"time"

	"github.com/tsinghua-fib-lab/intersection-oss/utils/config"
)

// Clock 控制循环时钟
// 功能：管理控制循环的时间推进，记录累计控制时间与步数
// 说明：步进由真实流逝时间驱动，保证相位倒计时与挂钟对齐
type Clock struct {
	DT         float64 // 每个控制步的标称时间间隔（秒）
	TOTAL_STEP int32   // 总步数，0表示无限运行

	T            float64   // 累计控制时间（秒）
	InternalStep int32     // 当前步数
	startedAt    time.Time // 进程内启动时刻
}

// New 根据配置创建新的时钟实例
// 功能：根据控制步配置初始化时钟信息
// 参数：stepConfig-控制步配置
// 返回：初始化完成的时钟实例
func New(stepConfig config.ControlStep) *Clock {
	c := &Clock{
		DT:         stepConfig.Interval,
		TOTAL_STEP: stepConfig.Total,
	}
	c.Init()
	return c
}

// Init 初始化时钟状态
// 功能：重置步数、累计时间与启动时刻
func (c *Clock) Init() {
	c.InternalStep = 0
	c.T = 0
	c.startedAt = time.Now()
}

// Advance 推进一个控制步
// 参数：dt-本步实际流逝时间（秒）
func (c *Clock) Advance(dt float64) {
	c.InternalStep++
	c.T += dt
}

// Done 检查有界运行是否到达终点
// 返回：true表示配置了总步数且已走完
func (c *Clock) Done() bool {
	return c.TOTAL_STEP > 0 && c.InternalStep >= c.TOTAL_STEP
}

// UptimeSeconds 获取进程启动到当前的挂钟秒数
func (c *Clock) UptimeSeconds() int64 {
	return int64(time.Since(c.startedAt).Seconds())
}

// String 获取时钟的字符串表示
// 功能：将当前累计控制时间格式化为可读的字符串（HH:MM:SS）
func (c *Clock) String() string {
	t := c.T
	h := int(t / 3600)
	t -= float64(h * 3600)
	m := int(t / 60)
	t -= float64(m * 60)
	s := int(t)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// GetHourMinuteSecond 获取当前累计时间的小时、分钟、秒
// 返回：小时、分钟、秒（秒为浮点数，支持亚秒级精度）
func (c *Clock) GetHourMinuteSecond() (int, int, float64) {
	hour := int(c.T) / 3600
	minute := int(c.T) % 3600 / 60
	second := c.T - float64(hour*3600+minute*60)
	return hour, minute, second
}
