package config

import (
	"fmt"

	"github.com/samber/lo"
)

// 未显式配置时采用的默认值，取值来自线下标定
const (
	DefaultInterval       = 0.05 // 控制循环步长（秒）
	DefaultGreen          = 20.0 // 默认绿灯时长（秒）
	DefaultYellow         = 5.0  // 黄灯时长（秒）
	DefaultMinGreen       = 10.0 // 绿灯下限（秒）
	DefaultMaxGreen       = 60.0 // 绿灯上限（秒）
	DefaultEmergencyGreen = 30.0 // 紧急抢占绿灯时长（秒）
	DefaultSnapshotLead   = 3.0  // 预取提前量（秒）
	DefaultLanes          = 2    // 单方向车道数
	DefaultTimeout        = 2.0  // 探测请求超时（秒）
)

// 各车辆类别的默认平均通过时长（秒/辆）
var DefaultVehicleTimes = map[string]float64{
	"car":   2,
	"bike":  1,
	"bus":   2.5,
	"truck": 2.5,
	"auto":  2.25,
	"taxi":  2.25,
}

// RuntimeConfig 运行时配置
// 功能：存储经过默认值填充与校验后的配置，进程生命周期内不可变
type RuntimeConfig struct {
	All Config // 全部配置
	C   Control
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：创建运行时配置对象，填充默认值并校验取值范围
// 参数：config-原始配置对象
// 返回：初始化的运行时配置指针与错误信息
// 算法说明：
// 1. 对所有未配置的配时常量填充默认值（SnapshotLead以nil判断未配置，显式0保留）
// 2. 校验时长关系：0 < MinGreen <= MaxGreen，Yellow > 0，SnapshotLead >= 0
// 3. 车辆类别通过时长缺省补全
func NewRuntimeConfig(config Config) (*RuntimeConfig, error) {
	rc := &RuntimeConfig{All: config}

	c := &rc.All.Control
	if c.Step.Interval <= 0 {
		c.Step.Interval = DefaultInterval
	}
	s := &c.Signal
	if s.DefaultGreen <= 0 {
		s.DefaultGreen = DefaultGreen
	}
	if s.Yellow <= 0 {
		s.Yellow = DefaultYellow
	}
	if s.MinGreen <= 0 {
		s.MinGreen = DefaultMinGreen
	}
	if s.MaxGreen <= 0 {
		s.MaxGreen = DefaultMaxGreen
	}
	if s.EmergencyGreen <= 0 {
		s.EmergencyGreen = DefaultEmergencyGreen
	}
	if s.SnapshotLead == nil {
		s.SnapshotLead = lo.ToPtr(DefaultSnapshotLead)
	}
	if s.Lanes <= 0 {
		s.Lanes = DefaultLanes
	}
	if rc.All.Detector.Timeout <= 0 {
		rc.All.Detector.Timeout = DefaultTimeout
	}
	if rc.All.VehicleTimes == nil {
		rc.All.VehicleTimes = make(map[string]float64)
	}
	for class, t := range DefaultVehicleTimes {
		if _, ok := rc.All.VehicleTimes[class]; !ok {
			rc.All.VehicleTimes[class] = t
		}
	}

	if s.MinGreen > s.MaxGreen {
		return nil, fmt.Errorf("min green %f exceeds max green %f", s.MinGreen, s.MaxGreen)
	}
	if *s.SnapshotLead < 0 {
		return nil, fmt.Errorf("snapshot lead %f must not be negative", *s.SnapshotLead)
	}
	if s.StopLineLag < 0 {
		return nil, fmt.Errorf("stop line lag %f must not be negative", s.StopLineLag)
	}
	for class, t := range rc.All.VehicleTimes {
		if t <= 0 {
			return nil, fmt.Errorf("vehicle time for class %q must be positive, got %f", class, t)
		}
	}

	rc.C = rc.All.Control
	return rc, nil
}
