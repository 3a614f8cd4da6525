// Package storage 定义流网持久化的业务实体与Repository接口
package storage

import (
	"context"
	"time"
)

// Network 已摄入的流网（一个AOI对应一张段表）
type Network struct {
	ID             string    // 流网ID（UUID）
	Name           string    // 流网名称（如流域名）
	SegmentCount   int       // 段数量
	DiversionCount int       // 分流边数量
	CreatedAt      time.Time // 摄入时间
}

// SegmentRecord 流网段记录
type SegmentRecord struct {
	NetworkID        string  // 所属流网ID
	SegmentID        string  // 段ID（流网内唯一）
	ToID             string  // 直接下游段ID（空字符串表示终端段）
	LengthKM         float64 // 段长度
	DrainageAreaSqKM float64 // 汇水面积（0表示缺失）
}

// DiversionRecord 分流边记录
type DiversionRecord struct {
	NetworkID string // 所属流网ID
	FromID    string // 分流起点段ID
	ToID      string // 分流终点段ID
}

// Gage 水文站点与流网段的关联记录
// 来源数据集中的站点按其落点段ID挂接到流网上
type Gage struct {
	ID         string    // 站点记录ID（UUID）
	NetworkID  string    // 所属流网ID
	SegmentID  string    // 落点段ID
	Name       string    // 站点名称
	SourceCode string    // 数据来源中的站点编码（如USGS站号）
	CreatedAt  time.Time // 登记时间
}

// NetworkRepository 流网存储接口（对外导出）
type NetworkRepository interface {
	// SaveNetwork 保存流网及其段表、分流边（同一事务内完成，重复保存覆盖旧数据）
	SaveNetwork(ctx context.Context, network *Network, segments []SegmentRecord, diversions []DiversionRecord) error
	// GetNetwork 根据ID查询流网（不存在时返回nil, nil）
	GetNetwork(ctx context.Context, id string) (*Network, error)
	// ListNetworks 列出所有流网（按摄入时间倒序）
	ListNetworks(ctx context.Context) ([]*Network, error)
	// DeleteNetwork 删除流网及其段表、分流边、站点记录
	DeleteNetwork(ctx context.Context, id string) error
	// GetSegments 查询流网的全部段记录
	GetSegments(ctx context.Context, networkID string) ([]SegmentRecord, error)
	// GetDiversions 查询流网的全部分流边
	GetDiversions(ctx context.Context, networkID string) ([]DiversionRecord, error)
	// SaveGages 登记站点关联记录
	SaveGages(ctx context.Context, gages []*Gage) error
	// ListGages 列出流网的全部站点
	ListGages(ctx context.Context, networkID string) ([]*Gage, error)
	// ListGagesBySegments 按段ID集合过滤站点（用于上游站点查询）
	ListGagesBySegments(ctx context.Context, networkID string, segmentIDs []string) ([]*Gage, error)
	// Close 关闭底层数据库连接
	Close() error
}
