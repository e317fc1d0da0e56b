package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "marcacion/backend/pkg/errors"
	"marcacion/backend/pkg/response"
)

// 业务错误码：模块基数 + 分类后缀
const (
	codeTemplateBase   = 21000
	codeAssignmentBase = 22000
	codeScheduleBase   = 23000

	suffixValidation    = 1
	suffixAuthorization = 3
	suffixNotFound      = 4
	suffixConflict      = 9
)

// handleServiceError 按错误分类写入响应
func handleServiceError(c *gin.Context, base int, err error) {
	switch {
	case apperrors.IsValidation(err):
		response.BadRequest(c, base+suffixValidation, err.Error())
	case apperrors.IsAuthorization(err):
		response.Forbidden(c, base+suffixAuthorization, err.Error())
	case apperrors.IsNotFound(err):
		response.NotFound(c, base+suffixNotFound, err.Error())
	case apperrors.IsConflict(err):
		response.Conflict(c, base+suffixConflict, err.Error())
	default:
		zap.L().Error("未分类的业务错误", zap.String("path", c.FullPath()), zap.Error(err))
		response.InternalError(c)
	}
}

// bindFailed 请求绑定失败，details 附带校验器给出的字段信息
func bindFailed(c *gin.Context, err error) {
	response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", err.Error())
}
