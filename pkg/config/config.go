// Package config 提供flownet服务的YAML配置加载与默认值
package config

import (
	"time"
)

// FlownetConfig 服务配置（对外导出）
type FlownetConfig struct {
	Flownet struct {
		General struct {
			InstanceName string `yaml:"instance_name"`
			LogLevel     string `yaml:"log_level"`
			Env          string `yaml:"env"`
		} `yaml:"general"`
		Storage struct {
			Database struct {
				Type            string        `yaml:"type"`
				DSN             string        `yaml:"dsn"`
				MaxOpenConns    int           `yaml:"max_open_conns"`
				MaxIdleConns    int           `yaml:"max_idle_conns"`
				ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
			} `yaml:"database"`
			Cache struct {
				Enabled       bool          `yaml:"enabled"`
				GraphTTL      time.Duration `yaml:"graph_ttl"`
				CleanInterval time.Duration `yaml:"clean_interval"`
			} `yaml:"cache"`
		} `yaml:"storage"`
		Query struct {
			// PerComponentDistance 距离计算默认策略：多分量输入是否按分量独立计算
			PerComponentDistance bool `yaml:"per_component_distance"`
			// StreamBatchSize WebSocket结果流每批发送的段ID数量
			StreamBatchSize int `yaml:"stream_batch_size"`
		} `yaml:"query"`
		Revalidation struct {
			Enabled  bool   `yaml:"enabled"`
			CronExpr string `yaml:"cron_expr"`
		} `yaml:"revalidation"`
	} `yaml:"flownet"`
}

// GetDatabaseType 获取数据库类型
func (c *FlownetConfig) GetDatabaseType() string {
	return c.Flownet.Storage.Database.Type
}

// GetDatabaseDSN 获取数据库DSN
func (c *FlownetConfig) GetDatabaseDSN() string {
	return c.Flownet.Storage.Database.DSN
}

// GetGraphTTL 获取流图缓存有效期
func (c *FlownetConfig) GetGraphTTL() time.Duration {
	ttl := c.Flownet.Storage.Cache.GraphTTL
	if ttl <= 0 {
		return 1 * time.Hour // 默认值
	}
	return ttl
}

// GetStreamBatchSize 获取WebSocket结果流批大小
func (c *FlownetConfig) GetStreamBatchSize() int {
	size := c.Flownet.Query.StreamBatchSize
	if size <= 0 {
		return 500 // 默认值
	}
	return size
}

// ApplyDefaults 应用默认值
func (c *FlownetConfig) ApplyDefaults() {
	// General默认值
	if c.Flownet.General.InstanceName == "" {
		c.Flownet.General.InstanceName = "flownet"
	}
	if c.Flownet.General.LogLevel == "" {
		c.Flownet.General.LogLevel = "info"
	}
	if c.Flownet.General.Env == "" {
		c.Flownet.General.Env = "dev"
	}

	// Database默认值
	if c.Flownet.Storage.Database.Type == "" {
		c.Flownet.Storage.Database.Type = "sqlite"
	}
	if c.Flownet.Storage.Database.DSN == "" {
		c.Flownet.Storage.Database.DSN = "./flownet.db"
	}
	if c.Flownet.Storage.Database.MaxOpenConns <= 0 {
		c.Flownet.Storage.Database.MaxOpenConns = 10
	}
	if c.Flownet.Storage.Database.MaxIdleConns <= 0 {
		c.Flownet.Storage.Database.MaxIdleConns = 5
	}
	if c.Flownet.Storage.Database.ConnMaxLifetime <= 0 {
		c.Flownet.Storage.Database.ConnMaxLifetime = 2 * time.Hour
	}

	// Cache默认值
	if c.Flownet.Storage.Cache.GraphTTL <= 0 {
		c.Flownet.Storage.Cache.GraphTTL = 1 * time.Hour
	}
	if c.Flownet.Storage.Cache.CleanInterval <= 0 {
		c.Flownet.Storage.Cache.CleanInterval = 30 * time.Minute
	}

	// Query默认值
	if c.Flownet.Query.StreamBatchSize <= 0 {
		c.Flownet.Query.StreamBatchSize = 500
	}

	// Revalidation默认值（每天凌晨3点）
	if c.Flownet.Revalidation.CronExpr == "" {
		c.Flownet.Revalidation.CronExpr = "0 0 3 * * *"
	}
}
