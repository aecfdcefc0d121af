package container

import "sync"

// Queue 线程安全的先进先出队列
// 功能：在单消费者调度循环与外部生产者之间传递请求
// 说明：生产者可并发Push，消费者在每个控制步中Pop或Drain一次，
// 不提供阻塞等待语义，队列为空时立即返回
type Queue[T any] struct {
	mtx   sync.Mutex // 互斥锁，保护items
	items []T        // 队列元素
}

// NewQueue 创建先进先出队列
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{items: make([]T, 0)}
}

// Push 向队尾添加元素
func (q *Queue[T]) Push(value T) {
	q.mtx.Lock()
	defer q.mtx.Unlock()
	q.items = append(q.items, value)
}

// Pop 从队首移除并返回元素
// 返回：队首元素与是否成功，队列为空时返回零值和false
func (q *Queue[T]) Pop() (T, bool) {
	q.mtx.Lock()
	defer q.mtx.Unlock()
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	value := q.items[0]
	q.items[0] = zero // 避免内存泄漏
	q.items = q.items[1:]
	return value, true
}

// Drain 取出并清空全部元素
// 功能：按入队顺序返回当前全部元素，供调度循环单次批量消费
func (q *Queue[T]) Drain() []T {
	q.mtx.Lock()
	defer q.mtx.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = make([]T, 0)
	return out
}

// Len 获取当前队列长度
func (q *Queue[T]) Len() int {
	q.mtx.Lock()
	defer q.mtx.Unlock()
	return len(q.items)
}
