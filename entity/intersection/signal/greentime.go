package signal

import (
	"math"

	"github.com/tsinghua-fib-lab/intersection-oss/entity"
	"github.com/tsinghua-fib-lab/intersection-oss/utils/config"
)

// GreenTime 由车辆类别计数计算绿灯时长
// 功能：将一次探测得到的各类别车辆计数转换为钳制后的绿灯相位时长
// 参数：counts-各类别车辆计数，vehicleTimes-类别->平均通过时长（秒/辆），cfg-信号配时配置
// 返回：绿灯时长（秒），始终落在[MinGreen, MaxGreen]内
// 算法说明：
// 1. 各类别计数乘以该类别平均通过时长后求和
// 2. 除以车道数得到单车道清空时间
// 3. 扣减停车线已就位车辆的修正项StopLineLag（不会低于0）
// 4. 向上取整后钳制到[MinGreen, MaxGreen]
// 说明：零车辆输入钳制到MinGreen而不是0，保证相位始终有非平凡时长
func GreenTime(counts entity.VehicleCounts, vehicleTimes map[string]float64, cfg config.Signal) float64 {
	sum := 0.
	for class, n := range counts {
		t, ok := vehicleTimes[string(class)]
		if !ok {
			// 未配置通过时长的类别不参与计算
			log.Debugf("no crossing time for vehicle class %q, skipping", class)
			continue
		}
		sum += float64(n) * t
	}
	g := sum / float64(cfg.Lanes)
	g -= cfg.StopLineLag
	if g < 0 {
		g = 0
	}
	g = math.Ceil(g)
	if g < cfg.MinGreen {
		g = cfg.MinGreen
	}
	if g > cfg.MaxGreen {
		g = cfg.MaxGreen
	}
	return g
}
