package detector

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/intersection-oss/entity"
	"github.com/tsinghua-fib-lab/intersection-oss/utils/container"
	"golang.org/x/sync/singleflight"
)

// log detector模块的日志记录器
var log = logrus.WithField("module", "detector")

// ICountProvider 车流计数提供者接口（探测子系统边界）
// 说明：Count可能较慢或失败，调用方必须施加超时并在失败时走回退路径；
// Close释放探测资源（采集句柄等），保证在进程退出路径上被确定性调用
type ICountProvider interface {
	Count(ctx context.Context, d entity.Direction) (entity.VehicleCounts, error)
	Close() error
}

// SnapshotRequest 一次车流探测请求
type SnapshotRequest struct {
	ID          uuid.UUID        // 请求标识
	Direction   entity.Direction // 探测方向
	RequestedAt time.Time        // 入队时刻
}

// Detector 探测请求调度器
// 功能：接收探测请求、去重排队、派发到异步工作协程并回传结果
// 说明：Enqueue可从任意goroutine并发调用；Dispatch仅由调度循环每步调用一次，
// 从不阻塞；结果通过带缓冲channel回传，由调度循环单消费者读取
type Detector struct {
	provider ICountProvider
	timeout  time.Duration

	queue *container.Queue[SnapshotRequest] // 待派发请求（先进先出）

	pendingMtx sync.Mutex
	pending    map[entity.Direction]bool // 在途请求方向集合，保证每方向至多一个

	results chan entity.CountResult
	sf      singleflight.Group // 供给者边界上按方向合并并发调用
	wg      sync.WaitGroup
	closed  atomic.Bool
}

// New 创建探测请求调度器
// 参数：provider-计数提供者，timeout-单次探测超时
func New(provider ICountProvider, timeout time.Duration) *Detector {
	return &Detector{
		provider: provider,
		timeout:  timeout,
		queue:    container.NewQueue[SnapshotRequest](),
		pending:  make(map[entity.Direction]bool),
		results:  make(chan entity.CountResult, 4*entity.DirectionCount),
	}
}

// Enqueue 幂等入队
// 功能：为指定方向发起一次探测请求
// 返回：true表示产生了新请求，false表示该方向已有在途请求或调度器已关闭
func (d *Detector) Enqueue(direction entity.Direction) bool {
	if d.closed.Load() {
		return false
	}
	d.pendingMtx.Lock()
	if d.pending[direction] {
		d.pendingMtx.Unlock()
		return false
	}
	d.pending[direction] = true
	d.pendingMtx.Unlock()

	d.queue.Push(SnapshotRequest{
		ID:          uuid.New(),
		Direction:   direction,
		RequestedAt: time.Now(),
	})
	return true
}

// Dispatch 派发排队中的请求
// 功能：按先进先出顺序将全部排队请求交给异步工作协程
// 说明：每个控制步调用一次，本身不做任何I/O，从不阻塞
func (d *Detector) Dispatch() {
	for _, req := range d.queue.Drain() {
		d.wg.Add(1)
		go d.resolve(req)
	}
}

// resolve 解析单个探测请求
// 功能：调用计数提供者并将结果回传给调度循环
// 算法说明：
// 1. 通过singleflight按方向合并供给者边界上的并发调用
// 2. 施加超时，超时或失败产生OK=false的结果（回退路径）
// 3. 清除在途标记后回传结果，结果channel满时丢弃（调度循环沿用旧值）
func (d *Detector) resolve(req SnapshotRequest) {
	defer d.wg.Done()

	v, err, _ := d.sf.Do(req.Direction.String(), func() (any, error) {
		cctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		return d.provider.Count(cctx, req.Direction)
	})

	d.pendingMtx.Lock()
	delete(d.pending, req.Direction)
	d.pendingMtx.Unlock()

	res := entity.CountResult{Direction: req.Direction}
	if err != nil {
		log.Warnf("count request %s for %v failed: %v", req.ID, req.Direction, err)
	} else {
		res.Counts = v.(entity.VehicleCounts)
		res.OK = true
	}
	select {
	case d.results <- res:
	default:
		log.Warnf("result channel full, dropping count result for %v", req.Direction)
	}
}

// Results 探测结果回传通道
func (d *Detector) Results() <-chan entity.CountResult {
	return d.results
}

// Close 停止派发并释放探测资源
// 功能：拒绝后续入队，等待全部在途工作协程结束，然后关闭计数提供者
// 说明：幂等，正常退出与中断退出共用此路径
func (d *Detector) Close() {
	if !d.closed.CompareAndSwap(false, true) {
		return
	}
	d.wg.Wait()
	if err := d.provider.Close(); err != nil {
		log.Errorf("close count provider: %v", err)
	}
	close(d.results)
}
