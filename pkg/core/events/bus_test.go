package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBus_PublishSubscribe 测试事件发布与订阅
func TestBus_PublishSubscribe(t *testing.T) {
	bus := NewBus(false)
	defer bus.Close()

	received := make(chan *NetworkEvent, 1)
	err := bus.Subscribe(EventNetworkIngested, func(event *NetworkEvent) error {
		received <- event
		return nil
	})
	require.NoError(t, err)

	event := NewNetworkEvent(EventNetworkIngested, "net-1", IngestPayload{
		Name:         "test-basin",
		SegmentCount: 4,
		OutletCount:  1,
	})
	err = bus.Publish(event)
	require.NoError(t, err)

	select {
	case got := <-received:
		assert.Equal(t, EventNetworkIngested, got.Type)
		assert.Equal(t, "net-1", got.NetworkID)
		assert.NotEmpty(t, got.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("超时未收到事件")
	}
}

// TestBus_TypeIsolation 不同类型的事件互不串扰
func TestBus_TypeIsolation(t *testing.T) {
	bus := NewBus(false)
	defer bus.Close()

	received := make(chan *NetworkEvent, 2)
	err := bus.Subscribe(EventNetworkDeleted, func(event *NetworkEvent) error {
		received <- event
		return nil
	})
	require.NoError(t, err)

	// 发布一个不同类型的事件
	require.NoError(t, bus.Publish(NewNetworkEvent(EventTraceCompleted, "net-1", nil)))
	// 再发布订阅的类型
	require.NoError(t, bus.Publish(NewNetworkEvent(EventNetworkDeleted, "net-2", nil)))

	select {
	case got := <-received:
		assert.Equal(t, EventNetworkDeleted, got.Type)
		assert.Equal(t, "net-2", got.NetworkID)
	case <-time.After(2 * time.Second):
		t.Fatal("超时未收到事件")
	}

	// 不应再有残留事件
	select {
	case extra := <-received:
		t.Fatalf("收到了未订阅类型的事件: %v", extra.Type)
	case <-time.After(100 * time.Millisecond):
	}
}
