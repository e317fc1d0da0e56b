package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"marcacion/backend/pkg/response"
)

// BodyLimit 请求体大小限制中间件
// 超限请求在读取 Content-Length 时直接拒绝；未声明长度的请求由 MaxBytesReader 截断，
// 下游绑定失败后在此统一改写为 413
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()

		if c.Writer.Written() {
			return
		}
		for _, e := range c.Errors {
			var tooLarge *http.MaxBytesError
			if errors.As(e.Err, &tooLarge) {
				response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
				return
			}
		}
	}
}
