// Package cache 提供已构建流图的内存缓存，避免每次查询都从存储层重建
package cache

import (
	"sync"
	"time"

	"github.com/LENAX/flownet/pkg/core/flownet"
)

// GraphCache 流图缓存接口（对外导出）
type GraphCache interface {
	// Set 缓存已构建的流图
	// networkID: 流网ID
	// graph: 已构建的流图
	// ttl: 缓存有效期
	Set(networkID string, graph flownet.FlowNetwork, ttl time.Duration) error

	// Get 获取缓存的流图
	// networkID: 流网ID
	// 返回: 流图和是否命中
	Get(networkID string) (flownet.FlowNetwork, bool)

	// Delete 删除缓存的流图（流网被删除或重新摄入时调用）
	Delete(networkID string) error

	// Clear 清空所有缓存
	Clear() error
}

// cacheEntry 缓存条目（内部使用）
type cacheEntry struct {
	graph      flownet.FlowNetwork
	expireTime time.Time
}

// MemoryGraphCache 内存流图缓存实现（对外导出）
type MemoryGraphCache struct {
	mu    sync.RWMutex
	cache map[string]*cacheEntry
}

// NewMemoryGraphCache 创建内存流图缓存实例（对外导出）
// cleanInterval: 过期条目的后台清理周期（<=0时使用1分钟）
func NewMemoryGraphCache(cleanInterval time.Duration) *MemoryGraphCache {
	if cleanInterval <= 0 {
		cleanInterval = 1 * time.Minute
	}
	c := &MemoryGraphCache{
		cache: make(map[string]*cacheEntry),
	}
	// 启动清理协程，定期清理过期缓存
	go c.cleanupExpired(cleanInterval)
	return c
}

// Set 缓存已构建的流图
func (c *MemoryGraphCache) Set(networkID string, graph flownet.FlowNetwork, ttl time.Duration) error {
	if networkID == "" || graph == nil {
		return nil // 空key或空图，忽略
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache[networkID] = &cacheEntry{
		graph:      graph,
		expireTime: time.Now().Add(ttl),
	}
	return nil
}

// Get 获取缓存的流图
func (c *MemoryGraphCache) Get(networkID string) (flownet.FlowNetwork, bool) {
	if networkID == "" {
		return nil, false
	}

	c.mu.RLock()
	entry, exists := c.cache[networkID]
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}

	// 检查是否过期
	if time.Now().After(entry.expireTime) {
		c.mu.Lock()
		delete(c.cache, networkID)
		c.mu.Unlock()
		return nil, false
	}

	return entry.graph, true
}

// Delete 删除缓存的流图
func (c *MemoryGraphCache) Delete(networkID string) error {
	if networkID == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.cache, networkID)
	return nil
}

// Clear 清空所有缓存
func (c *MemoryGraphCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache = make(map[string]*cacheEntry)
	return nil
}

// cleanupExpired 清理过期缓存（内部方法）
func (c *MemoryGraphCache) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for key, entry := range c.cache {
			if now.After(entry.expireTime) {
				delete(c.cache, key)
			}
		}
		c.mu.Unlock()
	}
}
