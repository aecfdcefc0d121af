package entity

import (
	"fmt"
)

// 路口接入方向，固定为四个，按顺时针循环
type Direction int32

const (
	DirectionNorth Direction = 0 // 北向
	DirectionSouth Direction = 1 // 南向
	DirectionEast  Direction = 2 // 东向
	DirectionWest  Direction = 3 // 西向

	DirectionCount = 4 // 方向总数
)

var directionNames = map[Direction]string{
	DirectionNorth: "north",
	DirectionSouth: "south",
	DirectionEast:  "east",
	DirectionWest:  "west",
}

var directionByName = map[string]Direction{
	"north": DirectionNorth,
	"south": DirectionSouth,
	"east":  DirectionEast,
	"west":  DirectionWest,
}

// Directions 按调度顺序排列的全部方向
func Directions() []Direction {
	return []Direction{DirectionNorth, DirectionSouth, DirectionEast, DirectionWest}
}

// ParseDirection 解析方向字符串
// 功能：将外部输入的方向字符串转换为Direction，非法输入返回错误
// 参数：s-方向字符串（north/south/east/west）
// 返回：方向与错误信息
func ParseDirection(s string) (Direction, error) {
	if d, ok := directionByName[s]; ok {
		return d, nil
	}
	return -1, fmt.Errorf("invalid direction %q", s)
}

// Next 获取循环调度中的下一个方向
func (d Direction) Next() Direction {
	return (d + 1) % DirectionCount
}

// Valid 检查方向取值是否合法
func (d Direction) Valid() bool {
	return d >= 0 && d < DirectionCount
}

func (d Direction) String() string {
	if s, ok := directionNames[d]; ok {
		return s
	}
	return fmt.Sprintf("direction(%d)", int32(d))
}

// 信号灯灯色
type LightState int32

const (
	LightStateRed    LightState = 0 // 红灯
	LightStateYellow LightState = 1 // 黄灯
	LightStateGreen  LightState = 2 // 绿灯
)

func (s LightState) String() string {
	switch s {
	case LightStateRed:
		return "red"
	case LightStateYellow:
		return "yellow"
	case LightStateGreen:
		return "green"
	default:
		return fmt.Sprintf("light(%d)", int32(s))
	}
}

// 车辆类别，每个类别有独立的平均通过时长配置
type VehicleClass string

const (
	VehicleClassCar   VehicleClass = "car"   // 小汽车
	VehicleClassBike  VehicleClass = "bike"  // 摩托车/自行车
	VehicleClassBus   VehicleClass = "bus"   // 公交车
	VehicleClassTruck VehicleClass = "truck" // 卡车
	VehicleClassAuto  VehicleClass = "auto"  // 三轮车
	VehicleClassTaxi  VehicleClass = "taxi"  // 出租车
)

// VehicleClasses 全部车辆类别
func VehicleClasses() []VehicleClass {
	return []VehicleClass{
		VehicleClassCar,
		VehicleClassBike,
		VehicleClassBus,
		VehicleClassTruck,
		VehicleClassAuto,
		VehicleClassTaxi,
	}
}

// VehicleCounts 一次探测得到的各车辆类别数量
type VehicleCounts map[VehicleClass]int32

// Total 统计全部类别车辆总数
func (c VehicleCounts) Total() int32 {
	total := int32(0)
	for _, n := range c {
		total += n
	}
	return total
}

// Clone 复制计数表，避免跨模块共享可变数据
func (c VehicleCounts) Clone() VehicleCounts {
	out := make(VehicleCounts, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
