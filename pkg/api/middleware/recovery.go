package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/LENAX/flownet/pkg/api/dto"
)

// Recovery panic恢复中间件，记录触发panic的请求后返回统一错误响应
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				// 打印请求上下文和堆栈信息
				log.Printf("[Recovery] panic recovered: %s %s: %v\n%s",
					c.Request.Method, c.Request.URL.Path, err, debug.Stack())

				c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
					500,
					"服务器内部错误",
				))
				c.Abort()
			}
		}()
		c.Next()
	}
}
