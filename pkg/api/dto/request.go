package dto

// SegmentInput 段表输入行
type SegmentInput struct {
	ID           string  `json:"id" binding:"required"`
	ToID         string  `json:"to_id"`
	LengthKM     float64 `json:"length_km"`
	DrainageArea float64 `json:"drainage_area_sqkm"`
}

// DiversionInput 分流边输入行
type DiversionInput struct {
	FromID string `json:"from_id" binding:"required"`
	ToID   string `json:"to_id" binding:"required"`
}

// IngestNetworkRequest 摄入流网请求
type IngestNetworkRequest struct {
	Name       string           `json:"name" binding:"required"`
	Segments   []SegmentInput   `json:"segments" binding:"required,min=1"`
	Diversions []DiversionInput `json:"diversions" binding:"omitempty"`
}

// GageInput 站点输入行
type GageInput struct {
	SegmentID  string `json:"segment_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	SourceCode string `json:"source_code"`
}

// RegisterGagesRequest 登记站点请求
type RegisterGagesRequest struct {
	Gages []GageInput `json:"gages" binding:"required,min=1"`
}

// UpstreamQueryRequest 上游溯源查询参数
type UpstreamQueryRequest struct {
	MaxDistance float64 `form:"max_distance" binding:"omitempty,min=0"`
}

// DownstreamQueryRequest 下游追踪查询参数
type DownstreamQueryRequest struct {
	IncludeDiversions bool `form:"include_diversions"`
}

// GageDistanceRequest 站点间距离查询参数
type GageDistanceRequest struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}
