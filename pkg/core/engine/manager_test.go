package engine

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LENAX/flownet/pkg/config"
	"github.com/LENAX/flownet/pkg/core/flownet"
	"github.com/LENAX/flownet/pkg/storage"
	"github.com/LENAX/flownet/pkg/storage/sqlite"
)

// setupTestManager 创建基于临时SQLite库的流网管理器
func setupTestManager(t *testing.T) *NetworkManager {
	dbPath := "./test_network_manager.db"
	os.Remove(dbPath)

	repo, err := sqlite.NewNetworkRepoFromDSN(dbPath)
	require.NoError(t, err, "创建SQLite仓储失败")

	cfg := &config.FlownetConfig{}
	cfg.ApplyDefaults()
	cfg.Flownet.Storage.Cache.Enabled = true

	manager := NewNetworkManager(repo, cfg)
	t.Cleanup(func() {
		manager.Close()
		os.Remove(dbPath)
	})
	return manager
}

// basinSegments 四段测试流域：B、C汇入A，D汇入B，A为出口
func basinSegments() []flownet.Segment {
	return []flownet.Segment{
		{ID: "A", ToID: "", Length: 5, DrainageArea: 100},
		{ID: "B", ToID: "A", Length: 3, DrainageArea: 60},
		{ID: "C", ToID: "A", Length: 2, DrainageArea: 30},
		{ID: "D", ToID: "B", Length: 4, DrainageArea: 55},
	}
}

func TestNetworkManager_IngestAndGet(t *testing.T) {
	manager := setupTestManager(t)
	ctx := context.Background()

	network, err := manager.IngestNetwork(ctx, "测试流域", basinSegments(), nil)
	require.NoError(t, err, "摄入流网失败")
	assert.NotEmpty(t, network.ID)
	assert.Equal(t, 4, network.SegmentCount)

	got, err := manager.GetNetwork(ctx, network.ID)
	require.NoError(t, err)
	assert.Equal(t, "测试流域", got.Name)

	list, err := manager.ListNetworks(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestNetworkManager_IngestRejectsCycle(t *testing.T) {
	manager := setupTestManager(t)

	cyclic := []flownet.Segment{
		{ID: "A", ToID: "B", Length: 1},
		{ID: "B", ToID: "C", Length: 1},
		{ID: "C", ToID: "A", Length: 1},
	}
	_, err := manager.IngestNetwork(context.Background(), "循环流域", cyclic, nil)
	require.Error(t, err, "含循环的段表应被拒绝")

	var integrityErr *flownet.GraphIntegrityError
	assert.True(t, errors.As(err, &integrityErr), "应返回GraphIntegrityError")
}

func TestNetworkManager_GetNetworkNotFound(t *testing.T) {
	manager := setupTestManager(t)

	_, err := manager.GetNetwork(context.Background(), "no-such-network")
	assert.ErrorIs(t, err, ErrNetworkNotFound)
}

func TestNetworkManager_Traces(t *testing.T) {
	manager := setupTestManager(t)
	ctx := context.Background()

	network, err := manager.IngestNetwork(ctx, "测试流域", basinSegments(), nil)
	require.NoError(t, err)

	up, err := manager.UpstreamTrace(ctx, network.ID, "A", 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B", "C", "D"}, []string(up))

	main, err := manager.MainstemTrace(ctx, network.ID, "A")
	require.NoError(t, err)
	assert.Equal(t, flownet.TraversalResult{"A", "B", "D"}, main)

	down, err := manager.DownstreamTrace(ctx, network.ID, "D", false)
	require.NoError(t, err)
	assert.Equal(t, flownet.TraversalResult{"D", "B", "A"}, down)
}

func TestNetworkManager_DistanceToOutlet(t *testing.T) {
	manager := setupTestManager(t)
	ctx := context.Background()

	network, err := manager.IngestNetwork(ctx, "测试流域", basinSegments(), nil)
	require.NoError(t, err)

	table, err := manager.DistanceToOutlet(ctx, network.ID, false)
	require.NoError(t, err)
	assert.Equal(t, flownet.DistanceTable{"A": 5, "B": 8, "C": 7, "D": 12}, table)
}

func TestNetworkManager_GraphCachedAcrossQueries(t *testing.T) {
	manager := setupTestManager(t)
	ctx := context.Background()

	network, err := manager.IngestNetwork(ctx, "测试流域", basinSegments(), nil)
	require.NoError(t, err)

	// 摄入已预热缓存，两次获取应返回同一流图实例
	g1, err := manager.GetGraph(ctx, network.ID)
	require.NoError(t, err)
	g2, err := manager.GetGraph(ctx, network.ID)
	require.NoError(t, err)
	assert.Same(t, g1, g2, "缓存命中应返回同一流图实例")
}

func TestNetworkManager_DeleteNetwork(t *testing.T) {
	manager := setupTestManager(t)
	ctx := context.Background()

	network, err := manager.IngestNetwork(ctx, "测试流域", basinSegments(), nil)
	require.NoError(t, err)

	err = manager.DeleteNetwork(ctx, network.ID)
	require.NoError(t, err)

	_, err = manager.GetNetwork(ctx, network.ID)
	assert.ErrorIs(t, err, ErrNetworkNotFound)

	_, err = manager.UpstreamTrace(ctx, network.ID, "A", 0)
	assert.ErrorIs(t, err, ErrNetworkNotFound, "删除后缓存应同步失效")
}

func TestNetworkManager_Gages(t *testing.T) {
	manager := setupTestManager(t)
	ctx := context.Background()

	network, err := manager.IngestNetwork(ctx, "测试流域", basinSegments(), nil)
	require.NoError(t, err)

	gages := []*storage.Gage{
		{SegmentID: "A", Name: "出口站", SourceCode: "USGS-001"},
		{SegmentID: "D", Name: "上游站", SourceCode: "USGS-002"},
		{SegmentID: "C", Name: "支流站", SourceCode: "USGS-003"},
	}
	saved, err := manager.RegisterGages(ctx, network.ID, gages)
	require.NoError(t, err, "登记站点失败")
	for _, g := range saved {
		assert.NotEmpty(t, g.ID, "登记应补全站点ID")
	}

	// 落点段不存在时整体拒绝
	_, err = manager.RegisterGages(ctx, network.ID, []*storage.Gage{{SegmentID: "Z", Name: "幽灵站"}})
	var notFound *flownet.NotFoundError
	assert.True(t, errors.As(err, &notFound), "落点段不存在应返回NotFoundError")

	// B的上游汇水网络为{B, D}，只命中上游站
	upGages, err := manager.UpstreamGages(ctx, network.ID, "B")
	require.NoError(t, err)
	require.Len(t, upGages, 1)
	assert.Equal(t, "上游站", upGages[0].Name)
}

func TestNetworkManager_GageDistance(t *testing.T) {
	manager := setupTestManager(t)
	ctx := context.Background()

	network, err := manager.IngestNetwork(ctx, "测试流域", basinSegments(), nil)
	require.NoError(t, err)

	gages := []*storage.Gage{
		{SegmentID: "A", Name: "出口站"},
		{SegmentID: "D", Name: "上游站"},
		{SegmentID: "C", Name: "支流站"},
	}
	saved, err := manager.RegisterGages(ctx, network.ID, gages)
	require.NoError(t, err)

	byName := make(map[string]*storage.Gage)
	for _, g := range saved {
		byName[g.Name] = g
	}

	// D到A同在一条下游路径上：|12 - 5| = 7
	dist, err := manager.GageDistance(ctx, network.ID, byName["上游站"].ID, byName["出口站"].ID)
	require.NoError(t, err)
	assert.InDelta(t, 7.0, dist, 1e-9)

	// 参数顺序不影响结果
	dist, err = manager.GageDistance(ctx, network.ID, byName["出口站"].ID, byName["上游站"].ID)
	require.NoError(t, err)
	assert.InDelta(t, 7.0, dist, 1e-9)

	// D与C分属不同支流，不在同一条下游路径上
	_, err = manager.GageDistance(ctx, network.ID, byName["上游站"].ID, byName["支流站"].ID)
	assert.ErrorIs(t, err, ErrGagesNotOnCommonPath)

	// 未知站点
	_, err = manager.GageDistance(ctx, network.ID, "no-such-gage", byName["出口站"].ID)
	assert.ErrorIs(t, err, ErrGageNotFound)
}

func TestRevalidationScheduler_RevalidateAll(t *testing.T) {
	manager := setupTestManager(t)
	ctx := context.Background()

	_, err := manager.IngestNetwork(ctx, "测试流域", basinSegments(), nil)
	require.NoError(t, err)

	scheduler := NewRevalidationScheduler(manager)
	require.NoError(t, scheduler.Register("0 0 3 * * *"))

	// 无效表达式应被拒绝
	assert.Error(t, scheduler.Register("not-a-cron"))

	// 手动触发一轮校验，健康流网不应报错
	scheduler.RevalidateAll(ctx)

	scheduler.Start()
	scheduler.Stop()
}
