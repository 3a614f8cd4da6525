package sqlite

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LENAX/flownet/pkg/storage"
)

// setupTestRepo 创建测试数据库
func setupTestRepo(t *testing.T) *NetworkRepo {
	dbFile := "test_network_repo.db"
	os.Remove(dbFile)

	db, err := sqlx.Open("sqlite3", dbFile)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
		os.Remove(dbFile)
	})

	repo, err := NewNetworkRepo(db)
	require.NoError(t, err)
	return repo
}

func testNetwork() (*storage.Network, []storage.SegmentRecord, []storage.DiversionRecord) {
	network := &storage.Network{
		ID:             "net-1",
		Name:           "test-basin",
		SegmentCount:   4,
		DiversionCount: 1,
		CreatedAt:      time.Now().UTC().Truncate(time.Second),
	}
	segments := []storage.SegmentRecord{
		{NetworkID: "net-1", SegmentID: "A", ToID: "", LengthKM: 5},
		{NetworkID: "net-1", SegmentID: "B", ToID: "A", LengthKM: 3, DrainageAreaSqKM: 10},
		{NetworkID: "net-1", SegmentID: "C", ToID: "A", LengthKM: 2, DrainageAreaSqKM: 20},
		{NetworkID: "net-1", SegmentID: "D", ToID: "B", LengthKM: 4},
	}
	diversions := []storage.DiversionRecord{
		{NetworkID: "net-1", FromID: "B", ToID: "C"},
	}
	return network, segments, diversions
}

func TestNetworkRepo_SaveAndGet(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	network, segments, diversions := testNetwork()
	require.NoError(t, repo.SaveNetwork(ctx, network, segments, diversions))

	// 查询流网元数据
	got, err := repo.GetNetwork(ctx, "net-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "test-basin", got.Name)
	assert.Equal(t, 4, got.SegmentCount)

	// 查询段表（按segment_id排序）
	segs, err := repo.GetSegments(ctx, "net-1")
	require.NoError(t, err)
	require.Len(t, segs, 4)
	assert.Equal(t, "A", segs[0].SegmentID)
	assert.Equal(t, "", segs[0].ToID) // 终端段的to_id还原为哨兵值
	assert.Equal(t, "A", segs[1].ToID)
	assert.InDelta(t, 10, segs[1].DrainageAreaSqKM, 1e-9)

	// 查询分流边
	divs, err := repo.GetDiversions(ctx, "net-1")
	require.NoError(t, err)
	require.Len(t, divs, 1)
	assert.Equal(t, "B", divs[0].FromID)
}

func TestNetworkRepo_GetMissing(t *testing.T) {
	repo := setupTestRepo(t)

	got, err := repo.GetNetwork(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNetworkRepo_SaveOverwrites(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	network, segments, diversions := testNetwork()
	require.NoError(t, repo.SaveNetwork(ctx, network, segments, diversions))

	// 重新摄入：段表缩小为两段
	network.SegmentCount = 2
	smaller := segments[:2]
	require.NoError(t, repo.SaveNetwork(ctx, network, smaller, nil))

	segs, err := repo.GetSegments(ctx, "net-1")
	require.NoError(t, err)
	assert.Len(t, segs, 2)

	divs, err := repo.GetDiversions(ctx, "net-1")
	require.NoError(t, err)
	assert.Empty(t, divs)
}

func TestNetworkRepo_ListAndDelete(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	network, segments, diversions := testNetwork()
	require.NoError(t, repo.SaveNetwork(ctx, network, segments, diversions))

	networks, err := repo.ListNetworks(ctx)
	require.NoError(t, err)
	require.Len(t, networks, 1)

	require.NoError(t, repo.DeleteNetwork(ctx, "net-1"))

	got, err := repo.GetNetwork(ctx, "net-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	segs, err := repo.GetSegments(ctx, "net-1")
	require.NoError(t, err)
	assert.Empty(t, segs)
}

func TestNetworkRepo_Gages(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	network, segments, diversions := testNetwork()
	require.NoError(t, repo.SaveNetwork(ctx, network, segments, diversions))

	gages := []*storage.Gage{
		{ID: "g-1", NetworkID: "net-1", SegmentID: "B", Name: "上游站", SourceCode: "04233300", CreatedAt: time.Now()},
		{ID: "g-2", NetworkID: "net-1", SegmentID: "D", Name: "源头站", SourceCode: "04233286", CreatedAt: time.Now()},
		{ID: "g-3", NetworkID: "net-1", SegmentID: "C", Name: "支流站", CreatedAt: time.Now()},
	}
	require.NoError(t, repo.SaveGages(ctx, gages))

	all, err := repo.ListGages(ctx, "net-1")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// 按段ID集合过滤（模拟上游站点查询：B的上游网络为{B,D}）
	filtered, err := repo.ListGagesBySegments(ctx, "net-1", []string{"B", "D"})
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	assert.Equal(t, "B", filtered[0].SegmentID)
	assert.Equal(t, "04233300", filtered[0].SourceCode)

	// 空集合直接返回空结果
	empty, err := repo.ListGagesBySegments(ctx, "net-1", nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
