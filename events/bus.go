package events

import (
	"sync"
	"time"
)

// 事件类型
type EventType string

const (
	EventSignalChanged    EventType = "signal_changed"     // 相位切换
	EventSnapshotResolved EventType = "snapshot_resolved"  // 探测请求完成
	EventEmergencyStarted EventType = "emergency_started"  // 紧急抢占开始
	EventEmergencyEnded   EventType = "emergency_ended"    // 紧急抢占结束
	EventEmergencyQueued  EventType = "emergency_queued"   // 紧急请求排队等待
	EventEmergencyDenied  EventType = "emergency_rejected" // 紧急请求被拒绝
)

// SignalChanged 相位切换事件载荷
type SignalChanged struct {
	Direction string  // 当前非红灯方向
	State     string  // 灯色（green/yellow）
	Total     float64 // 本相位总时长（秒）
	Remaining float64 // 本相位剩余时长（秒）
}

// SnapshotResolved 探测完成事件载荷，每个完成的请求恰好发出一次
type SnapshotResolved struct {
	Direction string // 探测方向
	Count     int32  // 车辆总数
}

// EmergencyChanged 紧急抢占事件载荷
type EmergencyChanged struct {
	Direction string // 紧急方向
	Reason    string // 拒绝原因（仅拒绝事件使用）
}

// Event 系统事件
// 说明：Data为上述某个载荷结构
type Event struct {
	Type      EventType
	Timestamp time.Time
	Data      any
}

// Subscriber 事件订阅回调
type Subscriber func(Event)

// Bus 非阻塞发布订阅事件总线
// 功能：将控制核心的状态变化广播给外部消费者（渲染、面板等）
// 说明：通过带缓冲channel异步投递，订阅者channel满时静默丢弃事件，
// 保证发布方（调度循环）永不阻塞
type Bus struct {
	mtx         sync.RWMutex
	subscribers map[EventType][]chan Event
	bufferSize  int
}

// NewBus 创建事件总线
// 参数：bufferSize-每个订阅者的channel缓冲大小
func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = 128
	}
	return &Bus{
		subscribers: make(map[EventType][]chan Event),
		bufferSize:  bufferSize,
	}
}

// Subscribe 订阅指定类型的事件
// 功能：注册订阅回调，回调在独立goroutine中异步执行
// 返回：取消订阅函数
func (b *Bus) Subscribe(eventType EventType, fn Subscriber) func() {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	ch := make(chan Event, b.bufferSize)
	b.subscribers[eventType] = append(b.subscribers[eventType], ch)

	go func() {
		for event := range ch {
			fn(event)
		}
	}()

	return func() {
		b.mtx.Lock()
		defer b.mtx.Unlock()
		subs := b.subscribers[eventType]
		for i, subCh := range subs {
			if subCh == ch {
				b.subscribers[eventType] = append(subs[:i], subs[i+1:]...)
				close(ch)
				break
			}
		}
	}
}

// Publish 发布事件
// 功能：向该类型的全部订阅者投递事件
// 说明：非阻塞发送，订阅者缓冲满时丢弃
func (b *Bus) Publish(eventType EventType, data any) {
	b.mtx.RLock()
	defer b.mtx.RUnlock()

	event := Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
	for _, ch := range b.subscribers[eventType] {
		select {
		case ch <- event:
		default:
			// 缓冲已满，丢弃
		}
	}
}

// Close 关闭总线
// 功能：关闭全部订阅channel并清空订阅表
func (b *Bus) Close() {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	for eventType, subs := range b.subscribers {
		for _, ch := range subs {
			close(ch)
		}
		delete(b.subscribers, eventType)
	}
}
