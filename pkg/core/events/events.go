// Package events 提供流网生命周期与查询活动的事件总线支持
package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType 事件类型
type EventType string

const (
	// 流网生命周期事件
	EventNetworkIngested    EventType = "network.ingested"    // 流网摄入完成
	EventNetworkDeleted     EventType = "network.deleted"     // 流网删除
	EventNetworkRevalidated EventType = "network.revalidated" // 定期完整性校验通过
	EventNetworkInvalid     EventType = "network.invalid"     // 定期完整性校验失败

	// 查询活动事件
	EventTraceCompleted   EventType = "trace.completed"   // 遍历查询完成
	EventTraceFailed      EventType = "trace.failed"      // 遍历查询失败
	EventDistanceComputed EventType = "distance.computed" // 距离表计算完成
)

// NetworkEvent 流网事件基础结构
type NetworkEvent struct {
	ID        string            `json:"id"`         // 事件ID（UUID）
	Type      EventType         `json:"type"`       // 事件类型
	NetworkID string            `json:"network_id"` // 关联流网ID
	Timestamp time.Time         `json:"timestamp"`  // 事件时间
	Payload   interface{}       `json:"payload"`    // 事件负载
	Metadata  map[string]string `json:"metadata"`   // 元数据
}

// NewNetworkEvent 创建流网事件
func NewNetworkEvent(eventType EventType, networkID string, payload interface{}) *NetworkEvent {
	return &NetworkEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		NetworkID: networkID,
		Timestamp: time.Now(),
		Payload:   payload,
		Metadata:  make(map[string]string),
	}
}

// WithMetadata 添加元数据
func (e *NetworkEvent) WithMetadata(key, value string) *NetworkEvent {
	if e.Metadata == nil {
		e.Metadata = make(map[string]string)
	}
	e.Metadata[key] = value
	return e
}

// IngestPayload 流网摄入事件负载
type IngestPayload struct {
	Name           string `json:"name"`            // 流网名称
	SegmentCount   int    `json:"segment_count"`   // 段数量
	DiversionCount int    `json:"diversion_count"` // 分流边数量
	OutletCount    int    `json:"outlet_count"`    // 出口数量
}

// TracePayload 遍历查询事件负载
type TracePayload struct {
	Kind      string        `json:"kind"`       // 查询种类（upstream/mainstem/downstream/distance）
	StartID   string        `json:"start_id"`   // 起点段ID（距离计算时为空）
	ResultLen int           `json:"result_len"` // 结果段数
	Elapsed   time.Duration `json:"elapsed"`    // 查询耗时
	Error     string        `json:"error"`      // 失败原因（失败事件）
}

// RevalidatePayload 完整性校验事件负载
type RevalidatePayload struct {
	SegmentCount int    `json:"segment_count"` // 段数量
	Error        string `json:"error"`         // 校验失败原因（失败事件）
}

// EventHandler 事件处理器函数类型
type EventHandler func(event *NetworkEvent) error
