package detector

import (
	"context"
	"fmt"

	"github.com/tsinghua-fib-lab/intersection-oss/entity"
	"github.com/tsinghua-fib-lab/intersection-oss/utils/config"
	"github.com/tsinghua-fib-lab/intersection-oss/utils/randengine"
)

const defaultMaxVehicles = 20 // 未配置时的单方向车辆数上限

// SimulatedProvider 模拟车流计数提供者
// 功能：以随机引擎按类别权重生成车辆计数，在没有视觉探测子系统时
// 用于联调与测试
// 说明：每个配置了输入源的方向都能返回计数，未配置的方向返回失败，
// 用于演练调用方的回退路径
type SimulatedProvider struct {
	engine *randengine.Engine

	feeds       map[entity.Direction]string // 方向->输入源标识
	maxVehicles int
	classes     []entity.VehicleClass // 参与生成的车辆类别
	weights     []float64             // 与classes对应的权重
}

// NewSimulatedProvider 创建模拟车流计数提供者
// 功能：解析探测配置，校验方向键并建立类别权重表
// 参数：cfg-车流探测配置
// 返回：提供者实例与错误信息，方向键非法或类别权重无法构成分布时返回错误
func NewSimulatedProvider(cfg config.Detector) (*SimulatedProvider, error) {
	feeds := make(map[entity.Direction]string, len(cfg.Feeds))
	for name, source := range cfg.Feeds {
		d, err := entity.ParseDirection(name)
		if err != nil {
			return nil, fmt.Errorf("detector feed: %w", err)
		}
		feeds[d] = source
	}
	if len(feeds) == 0 {
		// 未配置输入源时为全部方向生成
		for _, d := range entity.Directions() {
			feeds[d] = d.String()
		}
	}

	classes := entity.VehicleClasses()
	weights := make([]float64, len(classes))
	weightTotal := 0.
	for i, class := range classes {
		w, ok := cfg.ClassWeights[string(class)]
		if !ok {
			w = 1
		}
		if w < 0 {
			return nil, fmt.Errorf("class weight for %q must not be negative, got %f", class, w)
		}
		weights[i] = w
		weightTotal += w
	}
	if weightTotal <= 0 {
		return nil, fmt.Errorf("class weights must have a positive total, got %f", weightTotal)
	}

	maxVehicles := int(cfg.MaxVehicles)
	if maxVehicles <= 0 {
		maxVehicles = defaultMaxVehicles
	}
	return &SimulatedProvider{
		engine:      randengine.New(cfg.Seed),
		feeds:       feeds,
		maxVehicles: maxVehicles,
		classes:     classes,
		weights:     weights,
	}, nil
}

// Count 生成指定方向的车辆计数
// 功能：随机生成车辆总数并按类别权重分配到各车辆类别
// 参数：ctx-上下文（超时控制），d-探测方向
// 返回：各类别车辆计数与错误信息，方向无输入源时返回错误
func (p *SimulatedProvider) Count(ctx context.Context, d entity.Direction) (entity.VehicleCounts, error) {
	if _, ok := p.feeds[d]; !ok {
		return nil, fmt.Errorf("no feed configured for direction %v", d)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := p.engine.IntnSafe(p.maxVehicles + 1)
	counts := make(entity.VehicleCounts, len(p.classes))
	for range n {
		idx := p.engine.DiscreteDistributionSafe(p.weights)
		counts[p.classes[idx]]++
	}
	return counts, nil
}

// Close 释放探测资源
// 说明：模拟提供者没有外部资源，直接返回
func (p *SimulatedProvider) Close() error {
	return nil
}
