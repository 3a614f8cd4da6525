// Package dao 定义存储层的数据访问对象（内部使用）
package dao

import (
	"database/sql"
	"time"
)

// NetworkDAO network表的数据访问对象
type NetworkDAO struct {
	ID             string    `db:"id"`
	Name           string    `db:"name"`
	SegmentCount   int       `db:"segment_count"`
	DiversionCount int       `db:"diversion_count"`
	CreateTime     time.Time `db:"create_time"`
}

// SegmentDAO network_segment表的数据访问对象
// to_id为NULL表示终端段（出口哨兵）
type SegmentDAO struct {
	NetworkID    string          `db:"network_id"`
	SegmentID    string          `db:"segment_id"`
	ToID         sql.NullString  `db:"to_id"`
	LengthKM     float64         `db:"length_km"`
	DrainageArea sql.NullFloat64 `db:"drainage_area_sqkm"`
}

// DiversionDAO network_diversion表的数据访问对象
type DiversionDAO struct {
	NetworkID string `db:"network_id"`
	FromID    string `db:"from_id"`
	ToID      string `db:"to_id"`
}

// GageDAO gage表的数据访问对象
type GageDAO struct {
	ID         string         `db:"id"`
	NetworkID  string         `db:"network_id"`
	SegmentID  string         `db:"segment_id"`
	Name       string         `db:"name"`
	SourceCode sql.NullString `db:"source_code"`
	CreateTime time.Time      `db:"create_time"`
}
