package approach

import (
	"fmt"
	"sync"

	"git.fiblab.net/general/common/v2/parallel"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/intersection-oss/entity"
)

// Approach管理器
type ApproachManager struct {
	ctx entity.ITaskContext

	data       map[entity.Direction]*Approach
	approaches []*Approach

	// 供外部状态查询并发读取的缓存，Prepare阶段重建
	statusMtx    sync.RWMutex
	statusCounts map[entity.Direction]int32
	statusTotal  int64
}

// NewManager 创建Approach管理器实例
// 参数：ctx-任务上下文
// 返回：新创建的Approach管理器实例
func NewManager(ctx entity.ITaskContext) *ApproachManager {
	return &ApproachManager{
		ctx:          ctx,
		data:         make(map[entity.Direction]*Approach),
		approaches:   make([]*Approach, 0),
		statusCounts: make(map[entity.Direction]int32),
	}
}

// Init 初始化四个方向的进口道
// 功能：为每个方向创建Approach对象并建立方向映射关系
// 参数：feeds-方向名->探测输入源标识，缺失的方向使用方向名作为输入源
func (m *ApproachManager) Init(feeds map[string]string) {
	m.approaches = lo.Map(entity.Directions(), func(d entity.Direction, _ int) *Approach {
		feed, ok := feeds[d.String()]
		if !ok {
			feed = d.String()
		}
		return newApproach(m.ctx, d, feed)
	})
	m.data = lo.SliceToMap(m.approaches, func(a *Approach) (entity.Direction, *Approach) {
		return a.direction, a
	})
}

// Get 根据方向获取Approach实例
// 功能：通过方向查找对应的Approach对象，如果不存在则panic
func (m *ApproachManager) Get(d entity.Direction) entity.IApproach {
	if a, ok := m.data[d]; !ok {
		log.Panicf("no direction %v in approach data", d)
		return nil
	} else {
		return a
	}
}

// GetOrError 根据方向获取Approach实例（带错误处理）
func (m *ApproachManager) GetOrError(d entity.Direction) (entity.IApproach, error) {
	if a, ok := m.data[d]; !ok {
		return nil, fmt.Errorf("no direction %v in approach data", d)
	} else {
		return a, nil
	}
}

// Prepare 准备阶段，处理所有进口道的准备工作
// 功能：生效探测计数buffer并重建状态查询缓存
// 说明：使用并行处理，与调度循环同线程调用
func (m *ApproachManager) Prepare() {
	parallel.GoFor(m.approaches, func(a *Approach) { a.prepare() })

	m.statusMtx.Lock()
	total := int64(0)
	for _, a := range m.approaches {
		m.statusCounts[a.direction] = a.snapshot.total
		total += a.cumulative
	}
	m.statusTotal = total
	m.statusMtx.Unlock()
}

// Totals 读取各方向最近一次已知车辆总数与累计探测总量
// 功能：返回状态查询所需的只读快照，可在调度循环外并发调用
func (m *ApproachManager) Totals() (map[entity.Direction]int32, int64) {
	m.statusMtx.RLock()
	defer m.statusMtx.RUnlock()
	counts := make(map[entity.Direction]int32, len(m.statusCounts))
	for d, n := range m.statusCounts {
		counts[d] = n
	}
	return counts, m.statusTotal
}
