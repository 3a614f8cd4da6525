// Package mysql NetworkRepository的MySQL实现
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/LENAX/flownet/pkg/storage"
	"github.com/LENAX/flownet/pkg/storage/dao"
)

// NetworkRepo NetworkRepository的MySQL实现（对外导出）
type NetworkRepo struct {
	db *sqlx.DB
}

// NewNetworkRepo 基于已有连接创建MySQL Repository实例（对外导出）
func NewNetworkRepo(db *sqlx.DB) (*NetworkRepo, error) {
	repo := &NetworkRepo{db: db}
	if err := repo.initSchema(); err != nil {
		return nil, fmt.Errorf("初始化表结构失败: %w", err)
	}
	return repo, nil
}

// NewNetworkRepoFromDSN 通过DSN创建MySQL Repository实例（对外导出）
// dsn格式: user:password@tcp(host:port)/dbname?parseTime=true
func NewNetworkRepoFromDSN(dsn string) (*NetworkRepo, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("打开数据库失败: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}
	return NewNetworkRepo(db)
}

// initSchema 初始化数据库表结构（内部方法）
// MySQL不支持单次Exec执行多条语句（除非DSN开启multiStatements），逐条执行
func (r *NetworkRepo) initSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS network (
			id VARCHAR(64) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			segment_count INT NOT NULL DEFAULT 0,
			diversion_count INT NOT NULL DEFAULT 0,
			create_time DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS network_segment (
			network_id VARCHAR(64) NOT NULL,
			segment_id VARCHAR(64) NOT NULL,
			to_id VARCHAR(64),
			length_km DOUBLE NOT NULL,
			drainage_area_sqkm DOUBLE,
			PRIMARY KEY (network_id, segment_id)
		)`,
		`CREATE TABLE IF NOT EXISTS network_diversion (
			network_id VARCHAR(64) NOT NULL,
			from_id VARCHAR(64) NOT NULL,
			to_id VARCHAR(64) NOT NULL,
			PRIMARY KEY (network_id, from_id, to_id)
		)`,
		`CREATE TABLE IF NOT EXISTS gage (
			id VARCHAR(64) PRIMARY KEY,
			network_id VARCHAR(64) NOT NULL,
			segment_id VARCHAR(64) NOT NULL,
			name VARCHAR(255) NOT NULL,
			source_code VARCHAR(64),
			create_time DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_gage_network_segment (network_id, segment_id)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveNetwork 保存流网及其段表、分流边（同一事务）
func (r *NetworkRepo) SaveNetwork(ctx context.Context, network *storage.Network, segments []storage.SegmentRecord, diversions []storage.DiversionRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("开启事务失败: %w", err)
	}
	defer tx.Rollback()

	// 1. 覆盖流网元数据（MySQL用REPLACE INTO实现upsert）
	_, err = tx.ExecContext(ctx, `
	REPLACE INTO network (id, name, segment_count, diversion_count, create_time)
	VALUES (?, ?, ?, ?, ?)
	`, network.ID, network.Name, network.SegmentCount, network.DiversionCount, network.CreatedAt)
	if err != nil {
		return fmt.Errorf("保存流网失败: %w", err)
	}

	// 2. 清理旧数据后重新插入
	if _, err := tx.ExecContext(ctx, `DELETE FROM network_segment WHERE network_id = ?`, network.ID); err != nil {
		return fmt.Errorf("清理旧段表失败: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM network_diversion WHERE network_id = ?`, network.ID); err != nil {
		return fmt.Errorf("清理旧分流边失败: %w", err)
	}

	// 3. 批量插入段记录
	if len(segments) > 0 {
		daos := make([]dao.SegmentDAO, 0, len(segments))
		for _, s := range segments {
			d := dao.SegmentDAO{NetworkID: s.NetworkID, SegmentID: s.SegmentID, LengthKM: s.LengthKM}
			if s.ToID != "" {
				d.ToID = sql.NullString{String: s.ToID, Valid: true}
			}
			if s.DrainageAreaSqKM > 0 {
				d.DrainageArea = sql.NullFloat64{Float64: s.DrainageAreaSqKM, Valid: true}
			}
			daos = append(daos, d)
		}
		_, err = tx.NamedExecContext(ctx, `
		INSERT INTO network_segment (network_id, segment_id, to_id, length_km, drainage_area_sqkm)
		VALUES (:network_id, :segment_id, :to_id, :length_km, :drainage_area_sqkm)
		`, daos)
		if err != nil {
			return fmt.Errorf("保存段记录失败: %w", err)
		}
	}

	// 4. 批量插入分流边
	if len(diversions) > 0 {
		daos := make([]dao.DiversionDAO, 0, len(diversions))
		for _, d := range diversions {
			daos = append(daos, dao.DiversionDAO{NetworkID: d.NetworkID, FromID: d.FromID, ToID: d.ToID})
		}
		_, err = tx.NamedExecContext(ctx, `
		INSERT INTO network_diversion (network_id, from_id, to_id)
		VALUES (:network_id, :from_id, :to_id)
		`, daos)
		if err != nil {
			return fmt.Errorf("保存分流边失败: %w", err)
		}
	}

	return tx.Commit()
}

// GetNetwork 根据ID查询流网
func (r *NetworkRepo) GetNetwork(ctx context.Context, id string) (*storage.Network, error) {
	var d dao.NetworkDAO
	err := r.db.GetContext(ctx, &d, `
	SELECT id, name, segment_count, diversion_count, create_time FROM network WHERE id = ?
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询流网失败: %w", err)
	}
	return &storage.Network{
		ID:             d.ID,
		Name:           d.Name,
		SegmentCount:   d.SegmentCount,
		DiversionCount: d.DiversionCount,
		CreatedAt:      d.CreateTime,
	}, nil
}

// ListNetworks 列出所有流网（按摄入时间倒序）
func (r *NetworkRepo) ListNetworks(ctx context.Context) ([]*storage.Network, error) {
	var daos []dao.NetworkDAO
	err := r.db.SelectContext(ctx, &daos, `
	SELECT id, name, segment_count, diversion_count, create_time FROM network ORDER BY create_time DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("查询流网列表失败: %w", err)
	}

	networks := make([]*storage.Network, 0, len(daos))
	for _, d := range daos {
		networks = append(networks, &storage.Network{
			ID:             d.ID,
			Name:           d.Name,
			SegmentCount:   d.SegmentCount,
			DiversionCount: d.DiversionCount,
			CreatedAt:      d.CreateTime,
		})
	}
	return networks, nil
}

// DeleteNetwork 删除流网及其关联数据（同一事务）
func (r *NetworkRepo) DeleteNetwork(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("开启事务失败: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM gage WHERE network_id = ?`,
		`DELETE FROM network_diversion WHERE network_id = ?`,
		`DELETE FROM network_segment WHERE network_id = ?`,
		`DELETE FROM network WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("删除流网失败: %w", err)
		}
	}

	return tx.Commit()
}

// GetSegments 查询流网的全部段记录
func (r *NetworkRepo) GetSegments(ctx context.Context, networkID string) ([]storage.SegmentRecord, error) {
	var daos []dao.SegmentDAO
	err := r.db.SelectContext(ctx, &daos, `
	SELECT network_id, segment_id, to_id, length_km, drainage_area_sqkm
	FROM network_segment WHERE network_id = ? ORDER BY segment_id
	`, networkID)
	if err != nil {
		return nil, fmt.Errorf("查询段记录失败: %w", err)
	}

	segments := make([]storage.SegmentRecord, 0, len(daos))
	for _, d := range daos {
		s := storage.SegmentRecord{
			NetworkID: d.NetworkID,
			SegmentID: d.SegmentID,
			LengthKM:  d.LengthKM,
		}
		if d.ToID.Valid {
			s.ToID = d.ToID.String
		}
		if d.DrainageArea.Valid {
			s.DrainageAreaSqKM = d.DrainageArea.Float64
		}
		segments = append(segments, s)
	}
	return segments, nil
}

// GetDiversions 查询流网的全部分流边
func (r *NetworkRepo) GetDiversions(ctx context.Context, networkID string) ([]storage.DiversionRecord, error) {
	var daos []dao.DiversionDAO
	err := r.db.SelectContext(ctx, &daos, `
	SELECT network_id, from_id, to_id FROM network_diversion WHERE network_id = ? ORDER BY from_id, to_id
	`, networkID)
	if err != nil {
		return nil, fmt.Errorf("查询分流边失败: %w", err)
	}

	diversions := make([]storage.DiversionRecord, 0, len(daos))
	for _, d := range daos {
		diversions = append(diversions, storage.DiversionRecord{NetworkID: d.NetworkID, FromID: d.FromID, ToID: d.ToID})
	}
	return diversions, nil
}

// SaveGages 登记站点关联记录
func (r *NetworkRepo) SaveGages(ctx context.Context, gages []*storage.Gage) error {
	if len(gages) == 0 {
		return nil
	}

	daos := make([]dao.GageDAO, 0, len(gages))
	for _, g := range gages {
		d := dao.GageDAO{
			ID:         g.ID,
			NetworkID:  g.NetworkID,
			SegmentID:  g.SegmentID,
			Name:       g.Name,
			CreateTime: g.CreatedAt,
		}
		if g.SourceCode != "" {
			d.SourceCode = sql.NullString{String: g.SourceCode, Valid: true}
		}
		daos = append(daos, d)
	}

	_, err := r.db.NamedExecContext(ctx, `
	REPLACE INTO gage (id, network_id, segment_id, name, source_code, create_time)
	VALUES (:id, :network_id, :segment_id, :name, :source_code, :create_time)
	`, daos)
	if err != nil {
		return fmt.Errorf("保存站点失败: %w", err)
	}
	return nil
}

// ListGages 列出流网的全部站点
func (r *NetworkRepo) ListGages(ctx context.Context, networkID string) ([]*storage.Gage, error) {
	var daos []dao.GageDAO
	err := r.db.SelectContext(ctx, &daos, `
	SELECT id, network_id, segment_id, name, source_code, create_time
	FROM gage WHERE network_id = ? ORDER BY segment_id, id
	`, networkID)
	if err != nil {
		return nil, fmt.Errorf("查询站点失败: %w", err)
	}
	return fromGageDAOs(daos), nil
}

// ListGagesBySegments 按段ID集合过滤站点
func (r *NetworkRepo) ListGagesBySegments(ctx context.Context, networkID string, segmentIDs []string) ([]*storage.Gage, error) {
	if len(segmentIDs) == 0 {
		return []*storage.Gage{}, nil
	}

	query, args, err := sqlx.In(`
	SELECT id, network_id, segment_id, name, source_code, create_time
	FROM gage WHERE network_id = ? AND segment_id IN (?) ORDER BY segment_id, id
	`, networkID, segmentIDs)
	if err != nil {
		return nil, fmt.Errorf("构建站点查询失败: %w", err)
	}

	var daos []dao.GageDAO
	if err := r.db.SelectContext(ctx, &daos, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("查询站点失败: %w", err)
	}
	return fromGageDAOs(daos), nil
}

// Close 关闭数据库连接
func (r *NetworkRepo) Close() error {
	return r.db.Close()
}

func fromGageDAOs(daos []dao.GageDAO) []*storage.Gage {
	gages := make([]*storage.Gage, 0, len(daos))
	for _, d := range daos {
		g := &storage.Gage{
			ID:        d.ID,
			NetworkID: d.NetworkID,
			SegmentID: d.SegmentID,
			Name:      d.Name,
			CreatedAt: d.CreateTime,
		}
		if d.SourceCode.Valid {
			g.SourceCode = d.SourceCode.String
		}
		gages = append(gages, g)
	}
	return gages
}
