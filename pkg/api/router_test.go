package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LENAX/flownet/pkg/api/dto"
	"github.com/LENAX/flownet/pkg/config"
	"github.com/LENAX/flownet/pkg/core/engine"
	"github.com/LENAX/flownet/pkg/storage/sqlite"
)

// setupTestRouter 创建基于临时SQLite库的测试路由
func setupTestRouter(t *testing.T) *gin.Engine {
	cfg := &config.FlownetConfig{}
	cfg.ApplyDefaults()
	return setupTestRouterWithConfig(t, cfg)
}

// setupTestRouterWithConfig 按给定配置创建测试路由
func setupTestRouterWithConfig(t *testing.T, cfg *config.FlownetConfig) *gin.Engine {
	dbPath := "./test_api_router.db"
	os.Remove(dbPath)

	repo, err := sqlite.NewNetworkRepoFromDSN(dbPath)
	require.NoError(t, err, "创建SQLite仓储失败")

	manager := engine.NewNetworkManager(repo, cfg)
	t.Cleanup(func() {
		manager.Close()
		os.Remove(dbPath)
	})

	return SetupRouter(manager, "test", cfg.GetStreamBatchSize(), cfg.Flownet.Query.PerComponentDistance)
}

// doRequest 执行一次HTTP请求并返回响应记录
func doRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ingestBasin 摄入四段测试流域并返回流网ID
func ingestBasin(t *testing.T, router *gin.Engine) string {
	req := dto.IngestNetworkRequest{
		Name: "测试流域",
		Segments: []dto.SegmentInput{
			{ID: "A", ToID: "", LengthKM: 5, DrainageArea: 100},
			{ID: "B", ToID: "A", LengthKM: 3, DrainageArea: 60},
			{ID: "C", ToID: "A", LengthKM: 2, DrainageArea: 30},
			{ID: "D", ToID: "B", LengthKM: 4, DrainageArea: 55},
		},
	}
	w := doRequest(router, http.MethodPost, "/api/v1/networks", req)
	require.Equal(t, http.StatusOK, w.Code, "摄入流网失败: %s", w.Body.String())

	var resp dto.APIResponse[dto.NetworkSummary]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 0, resp.Code)
	require.NotEmpty(t, resp.Data.ID)
	return resp.Data.ID
}

func TestRouter_Health(t *testing.T) {
	router := setupTestRouter(t)

	w := doRequest(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.APIResponse[dto.HealthResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Data.Status)
}

func TestRouter_IngestAndGetNetwork(t *testing.T) {
	router := setupTestRouter(t)
	networkID := ingestBasin(t, router)

	w := doRequest(router, http.MethodGet, "/api/v1/networks/"+networkID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.APIResponse[dto.NetworkDetail]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "测试流域", resp.Data.Name)
	assert.Equal(t, 4, resp.Data.SegmentCount)
	assert.Equal(t, []string{"A"}, resp.Data.OutletIDs)
}

func TestRouter_IngestRejectsCycle(t *testing.T) {
	router := setupTestRouter(t)

	req := dto.IngestNetworkRequest{
		Name: "循环流域",
		Segments: []dto.SegmentInput{
			{ID: "A", ToID: "B", LengthKM: 1},
			{ID: "B", ToID: "C", LengthKM: 1},
			{ID: "C", ToID: "A", LengthKM: 1},
		},
	}
	w := doRequest(router, http.MethodPost, "/api/v1/networks", req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "循环流向应返回422")
}

func TestRouter_UpstreamTrace(t *testing.T) {
	router := setupTestRouter(t)
	networkID := ingestBasin(t, router)

	w := doRequest(router, http.MethodGet, "/api/v1/networks/"+networkID+"/segments/A/upstream", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.APIResponse[dto.TraceResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Data.Count)
	assert.ElementsMatch(t, []string{"A", "B", "C", "D"}, resp.Data.SegmentIDs)

	// 距离截断
	w = doRequest(router, http.MethodGet, "/api/v1/networks/"+networkID+"/segments/A/upstream?max_distance=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotContains(t, resp.Data.SegmentIDs, "D", "超出距离上限的段应被截断")
}

func TestRouter_SegmentNotFound(t *testing.T) {
	router := setupTestRouter(t)
	networkID := ingestBasin(t, router)

	w := doRequest(router, http.MethodGet, "/api/v1/networks/"+networkID+"/segments/Z/upstream", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/networks/no-such-network/segments/A/upstream", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_Distances(t *testing.T) {
	router := setupTestRouter(t)
	networkID := ingestBasin(t, router)

	w := doRequest(router, http.MethodGet, "/api/v1/networks/"+networkID+"/distances", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.APIResponse[dto.DistanceResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, map[string]float64{"A": 5, "B": 8, "C": 7, "D": 12}, resp.Data.Distances)
}

// TestRouter_DistancesPerComponentDefault 配置默认按分量计算时，不带参数的距离查询
// 应返回每个分量的距离表，显式per_component=false仍回到严格的单出口策略
func TestRouter_DistancesPerComponentDefault(t *testing.T) {
	cfg := &config.FlownetConfig{}
	cfg.ApplyDefaults()
	cfg.Flownet.Query.PerComponentDistance = true
	router := setupTestRouterWithConfig(t, cfg)

	req := dto.IngestNetworkRequest{
		Name: "双出口流域",
		Segments: []dto.SegmentInput{
			{ID: "A", ToID: "", LengthKM: 5},
			{ID: "B", ToID: "A", LengthKM: 3},
			{ID: "X", ToID: "", LengthKM: 2},
			{ID: "Y", ToID: "X", LengthKM: 4},
		},
	}
	w := doRequest(router, http.MethodPost, "/api/v1/networks", req)
	require.Equal(t, http.StatusOK, w.Code, "摄入流网失败: %s", w.Body.String())

	var ingestResp dto.APIResponse[dto.NetworkSummary]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ingestResp))
	networkID := ingestResp.Data.ID

	// 不带参数时使用配置的默认策略
	w = doRequest(router, http.MethodGet, "/api/v1/networks/"+networkID+"/distances", nil)
	require.Equal(t, http.StatusOK, w.Code, "配置默认按分量计算时应返回200: %s", w.Body.String())

	var resp dto.APIResponse[dto.DistanceResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, map[string]float64{"A": 5, "B": 8, "X": 2, "Y": 6}, resp.Data.Distances)

	// 显式传参覆盖配置默认
	w = doRequest(router, http.MethodGet, "/api/v1/networks/"+networkID+"/distances?per_component=false", nil)
	assert.Equal(t, http.StatusConflict, w.Code, "显式关闭分量策略时多出口应返回409")

	// 非法布尔值
	w = doRequest(router, http.MethodGet, "/api/v1/networks/"+networkID+"/distances?per_component=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_Gages(t *testing.T) {
	router := setupTestRouter(t)
	networkID := ingestBasin(t, router)

	req := dto.RegisterGagesRequest{
		Gages: []dto.GageInput{
			{SegmentID: "A", Name: "出口站", SourceCode: "USGS-001"},
			{SegmentID: "D", Name: "上游站", SourceCode: "USGS-002"},
		},
	}
	w := doRequest(router, http.MethodPost, "/api/v1/networks/"+networkID+"/gages", req)
	require.Equal(t, http.StatusOK, w.Code, "登记站点失败: %s", w.Body.String())

	var listResp dto.APIResponse[dto.ListResponse[dto.GageDetail]]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	require.Len(t, listResp.Data.Items, 2)

	byName := make(map[string]dto.GageDetail)
	for _, g := range listResp.Data.Items {
		byName[g.Name] = g
	}

	// B的上游汇水网络只含上游站
	w = doRequest(router, http.MethodGet, "/api/v1/networks/"+networkID+"/segments/B/gages", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	require.Len(t, listResp.Data.Items, 1)
	assert.Equal(t, "上游站", listResp.Data.Items[0].Name)

	// 站点间沿网距离 |12 - 5| = 7
	path := "/api/v1/networks/" + networkID + "/gages/distance?from=" + byName["上游站"].ID + "&to=" + byName["出口站"].ID
	w = doRequest(router, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var distResp dto.APIResponse[dto.GageDistanceResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &distResp))
	assert.InDelta(t, 7.0, distResp.Data.DistanceKM, 1e-9)
}

func TestRouter_DeleteNetwork(t *testing.T) {
	router := setupTestRouter(t)
	networkID := ingestBasin(t, router)

	w := doRequest(router, http.MethodDelete, "/api/v1/networks/"+networkID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/networks/"+networkID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
