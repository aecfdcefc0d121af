// 随机数引擎，包装了golang.org/x/exp/rand，提供了一些常用的随机数生成方法
package randengine

import (
	"flag"
	"log"
	"sync"

	"golang.org/x/exp/rand"
)

var (
	seedOffset = flag.Uint64("rand.seed_offset", 0, "seed offset") // 种子偏移量，用于调整随机数生成
)

// Engine 随机数引擎
// 功能：提供高质量的随机数生成功能，支持线程安全操作
// 说明：基于golang.org/x/exp/rand库
type Engine struct {
	*rand.Rand            // 底层随机数生成器
	mtx        sync.Mutex // 互斥锁，用于线程安全操作
}

// New 创建随机数引擎
// 功能：初始化一个新的随机数引擎实例
// 参数：seed-随机数种子
// 返回：随机数引擎指针
// 说明：种子偏移量允许在不修改代码的情况下调整随机数序列
func New(seed uint64) *Engine {
	return &Engine{Rand: rand.New(rand.NewSource(seed + *seedOffset))}
}

// DiscreteDistribution 按给定概率分布生成随机数（非线程安全）
// 功能：根据权重数组生成离散分布的随机数
// 参数：weight-权重数组，每个元素表示对应索引的概率权重
// 返回：随机生成的索引值（0到len(weight)-1）
// 算法说明：使用累积分布函数的方法实现离散概率分布
func (e *Engine) DiscreteDistribution(weight []float64) int32 {
	random := .0
	for _, w := range weight {
		random += w
	}
	random *= e.Float64()
	sum := 0.
	for i, w := range weight {
		sum += w
		if sum > random {
			return int32(i)
		}
	}
	log.Panicf("randengine: DiscreteDistribution: sum: %f random: %f", sum, random)
	return -1
}

// IntnSafe 随机生成整数（线程安全）
// 参数：n-范围上限（不包含）
// 返回：[0, n)范围内的随机整数
func (e *Engine) IntnSafe(n int) int {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.Intn(n)
}

// DiscreteDistributionSafe 按给定概率分布生成随机数（线程安全）
// 功能：根据权重数组生成离散分布的随机数，支持多线程安全访问
// 参数：weight-权重数组
// 返回：随机生成的索引值
func (e *Engine) DiscreteDistributionSafe(weight []float64) int32 {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.DiscreteDistribution(weight)
}
