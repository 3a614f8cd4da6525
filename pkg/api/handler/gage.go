package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LENAX/flownet/pkg/api/dto"
	"github.com/LENAX/flownet/pkg/core/engine"
	"github.com/LENAX/flownet/pkg/storage"
)

// GageHandler 站点API处理器
type GageHandler struct {
	manager *engine.NetworkManager
}

// NewGageHandler 创建GageHandler
func NewGageHandler(m *engine.NetworkManager) *GageHandler {
	return &GageHandler{manager: m}
}

// Register 登记站点
// POST /api/v1/networks/:id/gages
func (h *GageHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()
	networkID := c.Param("id")

	var req dto.RegisterGagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(400, fmt.Sprintf("请求参数错误: %v", err)))
		return
	}

	gages := make([]*storage.Gage, 0, len(req.Gages))
	for _, g := range req.Gages {
		gages = append(gages, &storage.Gage{
			SegmentID:  g.SegmentID,
			Name:       g.Name,
			SourceCode: g.SourceCode,
		})
	}

	saved, err := h.manager.RegisterGages(ctx, networkID, gages)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ListResponse[dto.GageDetail]{
		Total: len(saved),
		Items: toGageDetails(saved),
	}))
}

// List 列出流网的全部站点
// GET /api/v1/networks/:id/gages
func (h *GageHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	networkID := c.Param("id")

	gages, err := h.manager.ListGages(ctx, networkID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ListResponse[dto.GageDetail]{
		Total: len(gages),
		Items: toGageDetails(gages),
	}))
}

// Upstream 查询段上游汇水网络内的站点
// GET /api/v1/networks/:id/segments/:sid/gages
func (h *GageHandler) Upstream(c *gin.Context) {
	ctx := c.Request.Context()
	networkID := c.Param("id")
	segmentID := c.Param("sid")

	gages, err := h.manager.UpstreamGages(ctx, networkID, segmentID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ListResponse[dto.GageDetail]{
		Total: len(gages),
		Items: toGageDetails(gages),
	}))
}

// Distance 计算两个站点的沿网距离
// GET /api/v1/networks/:id/gages/distance?from=...&to=...
func (h *GageHandler) Distance(c *gin.Context) {
	ctx := c.Request.Context()
	networkID := c.Param("id")

	var query dto.GageDistanceRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(400, fmt.Sprintf("查询参数错误: %v", err)))
		return
	}

	dist, err := h.manager.GageDistance(ctx, networkID, query.From, query.To)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.GageDistanceResponse{
		FromGageID: query.From,
		ToGageID:   query.To,
		DistanceKM: dist,
	}))
}

// toGageDetails 转换站点实体为响应DTO
func toGageDetails(gages []*storage.Gage) []dto.GageDetail {
	items := make([]dto.GageDetail, 0, len(gages))
	for _, g := range gages {
		items = append(items, dto.GageDetail{
			ID:         g.ID,
			SegmentID:  g.SegmentID,
			Name:       g.Name,
			SourceCode: g.SourceCode,
			CreatedAt:  g.CreatedAt,
		})
	}
	return items
}
