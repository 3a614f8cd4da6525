package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/LENAX/flownet/pkg/api/dto"
	"github.com/LENAX/flownet/pkg/core/engine"
)

// StreamHandler WebSocket结果流处理器
// 大流域的上游溯源结果可达数十万段，按批推送避免单条超大消息
type StreamHandler struct {
	manager   *engine.NetworkManager
	batchSize int
	upgrader  websocket.Upgrader
}

// NewStreamHandler 创建StreamHandler
func NewStreamHandler(m *engine.NetworkManager, batchSize int) *StreamHandler {
	return &StreamHandler{
		manager:   m,
		batchSize: batchSize,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// UpstreamStream 上游溯源结果流
// GET /api/v1/networks/:id/segments/:sid/upstream/stream
func (h *StreamHandler) UpstreamStream(c *gin.Context) {
	ctx := c.Request.Context()
	networkID := c.Param("id")
	segmentID := c.Param("sid")

	result, err := h.manager.UpstreamTrace(ctx, networkID, segmentID, 0)
	if err != nil {
		writeError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[Stream] WebSocket升级失败: %v", err)
		return
	}
	defer conn.Close()

	// 按批推送段ID，末批携带done标记与总数
	batch := 0
	for offset := 0; offset < len(result); offset += h.batchSize {
		end := offset + h.batchSize
		if end > len(result) {
			end = len(result)
		}
		msg := dto.StreamBatch{
			Batch:      batch,
			SegmentIDs: result[offset:end],
		}
		if end == len(result) {
			msg.Done = true
			msg.Total = len(result)
		}
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("[Stream] 推送批次失败: batch=%d, error=%v", batch, err)
			return
		}
		batch++
	}

	// 空结果也发送一条完成消息
	if len(result) == 0 {
		if err := conn.WriteJSON(dto.StreamBatch{Done: true}); err != nil {
			log.Printf("[Stream] 推送完成消息失败: %v", err)
		}
	}

	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
