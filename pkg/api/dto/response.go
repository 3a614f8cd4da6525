package dto

import "time"

// APIResponse 通用API响应结构
type APIResponse[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

// NewSuccessResponse 创建成功响应
func NewSuccessResponse[T any](data T) APIResponse[T] {
	return APIResponse[T]{
		Code:    0,
		Message: "success",
		Data:    data,
	}
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(code int, message string) APIResponse[any] {
	return APIResponse[any]{
		Code:    code,
		Message: message,
	}
}

// NetworkSummary 流网摘要信息
type NetworkSummary struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	SegmentCount   int       `json:"segment_count"`
	DiversionCount int       `json:"diversion_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// NetworkDetail 流网详细信息
type NetworkDetail struct {
	NetworkSummary
	OutletIDs []string `json:"outlet_ids"`
}

// TraceResponse 遍历查询响应
type TraceResponse struct {
	NetworkID  string   `json:"network_id"`
	StartID    string   `json:"start_id"`
	Kind       string   `json:"kind"`
	SegmentIDs []string `json:"segment_ids"`
	Count      int      `json:"count"`
}

// DistanceResponse 距离表响应
type DistanceResponse struct {
	NetworkID string             `json:"network_id"`
	Distances map[string]float64 `json:"distances"`
	Count     int                `json:"count"`
}

// GageDetail 站点详细信息
type GageDetail struct {
	ID         string    `json:"id"`
	SegmentID  string    `json:"segment_id"`
	Name       string    `json:"name"`
	SourceCode string    `json:"source_code,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// GageDistanceResponse 站点间沿网距离响应
type GageDistanceResponse struct {
	FromGageID string  `json:"from_gage_id"`
	ToGageID   string  `json:"to_gage_id"`
	DistanceKM float64 `json:"distance_km"`
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp"`
}

// ListResponse 列表响应
type ListResponse[T any] struct {
	Total   int  `json:"total"`
	Items   []T  `json:"items"`
	HasMore bool `json:"has_more"`
}

// StreamBatch WebSocket结果流批次
type StreamBatch struct {
	Batch      int      `json:"batch"`
	SegmentIDs []string `json:"segment_ids"`
	Done       bool     `json:"done"`
	Total      int      `json:"total,omitempty"`
}
