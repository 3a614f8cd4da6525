package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/LENAX/flownet/pkg/core/flownet"
)

func buildTestGraph(t *testing.T) flownet.FlowNetwork {
	t.Helper()
	g, err := flownet.Build([]flownet.Segment{
		{ID: "A", ToID: "", Length: 5},
		{ID: "B", ToID: "A", Length: 3},
	})
	if err != nil {
		t.Fatalf("构建流图失败: %v", err)
	}
	return g
}

// TestMemoryGraphCache_SetAndGet 测试缓存设置和获取
func TestMemoryGraphCache_SetAndGet(t *testing.T) {
	c := NewMemoryGraphCache(0)
	g := buildTestGraph(t)

	err := c.Set("net-1", g, 1*time.Hour)
	if err != nil {
		t.Fatalf("设置缓存失败: %v", err)
	}

	cached, found := c.Get("net-1")
	if !found {
		t.Fatal("期望缓存命中，但未找到")
	}
	if cached.Size() != g.Size() {
		t.Errorf("缓存的流图与原图不一致，期望段数: %d, 实际: %d", g.Size(), cached.Size())
	}
}

// TestMemoryGraphCache_TTLExpiration 测试缓存TTL过期
func TestMemoryGraphCache_TTLExpiration(t *testing.T) {
	c := NewMemoryGraphCache(0)
	g := buildTestGraph(t)

	err := c.Set("net-1", g, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("设置缓存失败: %v", err)
	}

	// 立即获取应该命中
	if _, found := c.Get("net-1"); !found {
		t.Error("过期前应该命中缓存")
	}

	// 等待过期
	time.Sleep(80 * time.Millisecond)
	if _, found := c.Get("net-1"); found {
		t.Error("过期后不应命中缓存")
	}
}

// TestMemoryGraphCache_Delete 测试删除缓存
func TestMemoryGraphCache_Delete(t *testing.T) {
	c := NewMemoryGraphCache(0)
	g := buildTestGraph(t)

	c.Set("net-1", g, 1*time.Hour)
	if err := c.Delete("net-1"); err != nil {
		t.Fatalf("删除缓存失败: %v", err)
	}

	if _, found := c.Get("net-1"); found {
		t.Error("删除后不应命中缓存")
	}
}

// TestMemoryGraphCache_Clear 测试清空缓存
func TestMemoryGraphCache_Clear(t *testing.T) {
	c := NewMemoryGraphCache(0)
	g := buildTestGraph(t)

	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("net-%d", i), g, 1*time.Hour)
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("清空缓存失败: %v", err)
	}

	for i := 0; i < 5; i++ {
		if _, found := c.Get(fmt.Sprintf("net-%d", i)); found {
			t.Errorf("清空后不应命中缓存: net-%d", i)
		}
	}
}

// TestMemoryGraphCache_ConcurrentAccess 测试并发读写安全
func TestMemoryGraphCache_ConcurrentAccess(t *testing.T) {
	c := NewMemoryGraphCache(0)
	g := buildTestGraph(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			c.Set(fmt.Sprintf("net-%d", i), g, 1*time.Hour)
		}(i)
		go func(i int) {
			defer wg.Done()
			c.Get(fmt.Sprintf("net-%d", i))
		}(i)
	}
	wg.Wait()
}
