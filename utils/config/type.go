package config

// ControlStep 指定控制循环时间推进的配置项
// 功能：定义控制循环的步长与可选的总步数
// 说明：Total为0表示持续运行直到进程被外部停止
type ControlStep struct {
	Interval float64 `yaml:"interval"`        // 每步的时间间隔（秒）
	Total    int32   `yaml:"total,omitempty"` // 总步数（0表示无限运行）
}

// Signal 信号配时配置
// 功能：定义相位时长计算与切换所需的全部常量
// 说明：进程生命周期内不可变，启动时加载一次；
// SnapshotLead取0是合法配置（相位切换瞬间才预取），用指针区分未配置
type Signal struct {
	DefaultGreen   float64  `yaml:"default_green"`           // 默认绿灯时长（秒）
	Yellow         float64  `yaml:"yellow"`                  // 黄灯固定时长（秒）
	MinGreen       float64  `yaml:"min_green"`               // 绿灯时长下限（秒）
	MaxGreen       float64  `yaml:"max_green"`               // 绿灯时长上限（秒）
	EmergencyGreen float64  `yaml:"emergency_green"`         // 紧急抢占绿灯固定时长（秒）
	SnapshotLead   *float64 `yaml:"snapshot_lead,omitempty"` // 绿灯结束前预取下一方向车流的提前量（秒）
	Lanes          int32    `yaml:"lanes"`                   // 每个方向的车道数
	StopLineLag    float64  `yaml:"stop_line_lag,omitempty"` // 停车线已就位车辆的修正扣减量（秒）
}

// Detector 车流探测配置
// 功能：定义探测子系统的输入源与运行参数
type Detector struct {
	Timeout      float64            `yaml:"timeout"`                 // 单次探测请求超时（秒）
	Feeds        map[string]string  `yaml:"feeds,omitempty"`         // 方向->输入源标识
	Seed         uint64             `yaml:"seed,omitempty"`          // 模拟探测器随机种子
	MaxVehicles  int32              `yaml:"max_vehicles,omitempty"`  // 模拟探测器单方向车辆数上限
	ClassWeights map[string]float64 `yaml:"class_weights,omitempty"` // 模拟探测器车辆类别权重
}

// Control 控制器核心配置
type Control struct {
	Step   ControlStep `yaml:"step"`
	Signal Signal      `yaml:"signal"`
}

// Config YAML配置文件的根结构
// 功能：定义整个信号控制系统的配置结构
type Config struct {
	Control      Control            `yaml:"control"`                 // 控制循环与配时
	Detector     Detector           `yaml:"detector"`                // 车流探测
	VehicleTimes map[string]float64 `yaml:"vehicle_times,omitempty"` // 车辆类别->平均通过时长（秒）
}
