// Package storage 提供按配置选择数据库方言的Repository工厂（内部使用）
package storage

import (
	"fmt"

	"github.com/LENAX/flownet/pkg/storage"
	"github.com/LENAX/flownet/pkg/storage/mysql"
	"github.com/LENAX/flownet/pkg/storage/postgres"
	"github.com/LENAX/flownet/pkg/storage/sqlite"
)

// NewNetworkRepository 按数据库类型创建NetworkRepository（内部方法）
// dbType: 数据库类型（sqlite/mysql/postgres）
// dsn: 数据库连接字符串
func NewNetworkRepository(dbType, dsn string) (storage.NetworkRepository, error) {
	switch dbType {
	case "sqlite":
		repo, err := sqlite.NewNetworkRepoFromDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("create sqlite repository failed: %w", err)
		}
		return repo, nil
	case "mysql":
		repo, err := mysql.NewNetworkRepoFromDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("create mysql repository failed: %w", err)
		}
		return repo, nil
	case "postgres", "postgresql":
		repo, err := postgres.NewNetworkRepoFromDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("create postgres repository failed: %w", err)
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}
}
