package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/LENAX/flownet/pkg/api/dto"
	"github.com/LENAX/flownet/pkg/core/engine"
)

// TraceHandler 遍历与距离查询API处理器
type TraceHandler struct {
	manager *engine.NetworkManager
	// perComponentDefault 未显式传参时的距离表分量策略
	perComponentDefault bool
}

// NewTraceHandler 创建TraceHandler
func NewTraceHandler(m *engine.NetworkManager, perComponentDefault bool) *TraceHandler {
	return &TraceHandler{manager: m, perComponentDefault: perComponentDefault}
}

// Upstream 上游溯源查询
// GET /api/v1/networks/:id/segments/:sid/upstream
func (h *TraceHandler) Upstream(c *gin.Context) {
	ctx := c.Request.Context()
	networkID := c.Param("id")
	segmentID := c.Param("sid")

	var query dto.UpstreamQueryRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(400, fmt.Sprintf("查询参数错误: %v", err)))
		return
	}

	result, err := h.manager.UpstreamTrace(ctx, networkID, segmentID, query.MaxDistance)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.TraceResponse{
		NetworkID:  networkID,
		StartID:    segmentID,
		Kind:       "upstream",
		SegmentIDs: result,
		Count:      len(result),
	}))
}

// Mainstem 主干溯源查询
// GET /api/v1/networks/:id/segments/:sid/mainstem
func (h *TraceHandler) Mainstem(c *gin.Context) {
	ctx := c.Request.Context()
	networkID := c.Param("id")
	segmentID := c.Param("sid")

	result, err := h.manager.MainstemTrace(ctx, networkID, segmentID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.TraceResponse{
		NetworkID:  networkID,
		StartID:    segmentID,
		Kind:       "mainstem",
		SegmentIDs: result,
		Count:      len(result),
	}))
}

// Downstream 下游追踪查询
// GET /api/v1/networks/:id/segments/:sid/downstream
func (h *TraceHandler) Downstream(c *gin.Context) {
	ctx := c.Request.Context()
	networkID := c.Param("id")
	segmentID := c.Param("sid")

	var query dto.DownstreamQueryRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(400, fmt.Sprintf("查询参数错误: %v", err)))
		return
	}

	result, err := h.manager.DownstreamTrace(ctx, networkID, segmentID, query.IncludeDiversions)
	if err != nil {
		writeError(c, err)
		return
	}

	kind := "downstream"
	if query.IncludeDiversions {
		kind = "downstream_diversions"
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.TraceResponse{
		NetworkID:  networkID,
		StartID:    segmentID,
		Kind:       kind,
		SegmentIDs: result,
		Count:      len(result),
	}))
}

// Distances 计算全网出口距离表
// GET /api/v1/networks/:id/distances
func (h *TraceHandler) Distances(c *gin.Context) {
	ctx := c.Request.Context()
	networkID := c.Param("id")

	// per_component 缺省时使用配置里的默认策略，显式传参时以请求为准
	perComponent := h.perComponentDefault
	if raw, ok := c.GetQuery("per_component"); ok {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse(400, fmt.Sprintf("查询参数错误: per_component=%s 不是合法布尔值", raw)))
			return
		}
		perComponent = v
	}

	table, err := h.manager.DistanceToOutlet(ctx, networkID, perComponent)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.DistanceResponse{
		NetworkID: networkID,
		Distances: table,
		Count:     len(table),
	}))
}
