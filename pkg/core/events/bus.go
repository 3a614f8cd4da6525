package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Bus 进程内事件总线（对外导出）
// 基于Watermill的GoChannel Pub/Sub，按事件类型分topic
type Bus struct {
	pubsub *gochannel.GoChannel
	ctx    context.Context
	cancel context.CancelFunc
}

// NewBus 创建事件总线
func NewBus(debug bool) *Bus {
	logger := watermill.NewStdLogger(debug, false)

	pubsub := gochannel.NewGoChannel(
		gochannel.Config{
			Persistent:                     false,
			BlockPublishUntilSubscriberAck: false,
		},
		logger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	return &Bus{
		pubsub: pubsub,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Publish 发布事件
func (b *Bus) Publish(event *NetworkEvent) error {
	if event == nil {
		return nil
	}

	// 序列化事件
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("序列化事件失败: %w", err)
	}

	// 创建Watermill消息
	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("event_type", string(event.Type))
	msg.Metadata.Set("network_id", event.NetworkID)
	msg.Metadata.Set("timestamp", event.Timestamp.Format(time.RFC3339Nano))

	if err := b.pubsub.Publish(string(event.Type), msg); err != nil {
		return fmt.Errorf("发布事件失败: %w", err)
	}
	return nil
}

// Subscribe 订阅指定类型的事件
// handler返回错误时只记录日志，不重投（事件用于观测，不承载业务状态）
func (b *Bus) Subscribe(eventType EventType, handler EventHandler) error {
	msgs, err := b.pubsub.Subscribe(b.ctx, string(eventType))
	if err != nil {
		return fmt.Errorf("订阅事件失败: %w", err)
	}

	go func() {
		for msg := range msgs {
			var event NetworkEvent
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				log.Printf("[events] 反序列化事件失败: %v", err)
				msg.Ack()
				continue
			}
			if err := handler(&event); err != nil {
				log.Printf("[events] 事件处理失败: type=%s, error=%v", event.Type, err)
			}
			msg.Ack()
		}
	}()

	return nil
}

// Close 关闭事件总线
func (b *Bus) Close() error {
	b.cancel()
	return b.pubsub.Close()
}
