package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LENAX/flownet/pkg/api/dto"
	"github.com/LENAX/flownet/pkg/core/engine"
	"github.com/LENAX/flownet/pkg/core/flownet"
)

// writeError 将服务层错误映射为HTTP响应
// 404 目标不存在；400 输入非法；422 流向完整性破坏；409 出口歧义或路径无定义
func writeError(c *gin.Context, err error) {
	var (
		notFoundErr  *flownet.NotFoundError
		invalidErr   *flownet.InvalidInputError
		integrityErr *flownet.GraphIntegrityError
		ambiguousErr *flownet.AmbiguousOutletError
	)

	switch {
	case errors.Is(err, engine.ErrNetworkNotFound),
		errors.Is(err, engine.ErrGageNotFound),
		errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(404, err.Error()))
	case errors.As(err, &invalidErr):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(400, err.Error()))
	case errors.As(err, &integrityErr):
		c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(422, err.Error()))
	case errors.As(err, &ambiguousErr),
		errors.Is(err, engine.ErrGagesNotOnCommonPath):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(409, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(500, err.Error()))
	}
}
