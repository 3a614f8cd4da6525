package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LENAX/flownet/pkg/api/dto"
	"github.com/LENAX/flownet/pkg/core/engine"
	"github.com/LENAX/flownet/pkg/core/flownet"
)

// NetworkHandler 流网API处理器
type NetworkHandler struct {
	manager *engine.NetworkManager
}

// NewNetworkHandler 创建NetworkHandler
func NewNetworkHandler(m *engine.NetworkManager) *NetworkHandler {
	return &NetworkHandler{manager: m}
}

// List 列出所有流网
// GET /api/v1/networks
func (h *NetworkHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	networks, err := h.manager.ListNetworks(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(500, fmt.Sprintf("查询流网失败: %v", err)))
		return
	}

	items := make([]dto.NetworkSummary, 0, len(networks))
	for _, n := range networks {
		items = append(items, dto.NetworkSummary{
			ID:             n.ID,
			Name:           n.Name,
			SegmentCount:   n.SegmentCount,
			DiversionCount: n.DiversionCount,
			CreatedAt:      n.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ListResponse[dto.NetworkSummary]{
		Total:   len(items),
		Items:   items,
		HasMore: false,
	}))
}

// Ingest 摄入段表为新流网
// POST /api/v1/networks
func (h *NetworkHandler) Ingest(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.IngestNetworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(400, fmt.Sprintf("请求参数错误: %v", err)))
		return
	}

	segments := make([]flownet.Segment, 0, len(req.Segments))
	for _, s := range req.Segments {
		segments = append(segments, flownet.Segment{
			ID:           s.ID,
			ToID:         s.ToID,
			Length:       s.LengthKM,
			DrainageArea: s.DrainageArea,
		})
	}
	diversions := make([]flownet.Diversion, 0, len(req.Diversions))
	for _, d := range req.Diversions {
		diversions = append(diversions, flownet.Diversion{FromID: d.FromID, ToID: d.ToID})
	}

	network, err := h.manager.IngestNetwork(ctx, req.Name, segments, diversions)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NetworkSummary{
		ID:             network.ID,
		Name:           network.Name,
		SegmentCount:   network.SegmentCount,
		DiversionCount: network.DiversionCount,
		CreatedAt:      network.CreatedAt,
	}))
}

// Get 获取流网详情
// GET /api/v1/networks/:id
func (h *NetworkHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	network, err := h.manager.GetNetwork(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}

	graph, err := h.manager.GetGraph(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NetworkDetail{
		NetworkSummary: dto.NetworkSummary{
			ID:             network.ID,
			Name:           network.Name,
			SegmentCount:   network.SegmentCount,
			DiversionCount: network.DiversionCount,
			CreatedAt:      network.CreatedAt,
		},
		OutletIDs: graph.Outlets(),
	}))
}

// Delete 删除流网
// DELETE /api/v1/networks/:id
func (h *NetworkHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if err := h.manager.DeleteNetwork(ctx, id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(map[string]string{
		"id":      id,
		"message": "流网已删除",
	}))
}
