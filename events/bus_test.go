package events_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/intersection-oss/events"
)

func TestBusPublishSubscribe(t *testing.T) {
	bus := events.NewBus(8)
	defer bus.Close()

	var mtx sync.Mutex
	var got []events.Event
	done := make(chan struct{}, 1)
	bus.Subscribe(events.EventSignalChanged, func(e events.Event) {
		mtx.Lock()
		got = append(got, e)
		mtx.Unlock()
		done <- struct{}{}
	})

	bus.Publish(events.EventSignalChanged, events.SignalChanged{
		Direction: "north",
		State:     "green",
		Total:     20,
		Remaining: 20,
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("subscriber not invoked")
	}

	mtx.Lock()
	defer mtx.Unlock()
	require.Len(t, got, 1)
	data, ok := got[0].Data.(events.SignalChanged)
	require.True(t, ok)
	assert.Equal(t, "north", data.Direction)
	assert.Equal(t, "green", data.State)
	assert.False(t, got[0].Timestamp.IsZero())
}

func TestBusTypeIsolation(t *testing.T) {
	bus := events.NewBus(8)
	defer bus.Close()

	hit := make(chan events.Event, 8)
	bus.Subscribe(events.EventEmergencyStarted, func(e events.Event) {
		hit <- e
	})

	bus.Publish(events.EventSignalChanged, events.SignalChanged{Direction: "east"})
	bus.Publish(events.EventEmergencyStarted, events.EmergencyChanged{Direction: "south"})

	select {
	case e := <-hit:
		assert.Equal(t, events.EventEmergencyStarted, e.Type)
	case <-time.After(time.Second):
		t.Fatal("subscriber not invoked")
	}
	select {
	case e := <-hit:
		t.Fatalf("unexpected extra event: %+v", e)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := events.NewBus(8)
	defer bus.Close()

	hit := make(chan events.Event, 8)
	unsubscribe := bus.Subscribe(events.EventSnapshotResolved, func(e events.Event) {
		hit <- e
	})
	unsubscribe()

	bus.Publish(events.EventSnapshotResolved, events.SnapshotResolved{Direction: "west", Count: 3})
	select {
	case e := <-hit:
		t.Fatalf("unexpected event after unsubscribe: %+v", e)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBusPublishNeverBlocks(t *testing.T) {
	bus := events.NewBus(1)
	defer bus.Close()

	// 订阅者永不消费，发布方也不能被卡住
	block := make(chan struct{})
	bus.Subscribe(events.EventSignalChanged, func(events.Event) {
		<-block
	})
	defer close(block)

	finished := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			bus.Publish(events.EventSignalChanged, events.SignalChanged{Direction: "north"})
		}
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
