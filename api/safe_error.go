package api

import (
	"budget/config"
	"budget/logger"
	"budget/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SafeErrorMessage 生产环境下不向客户端暴露内部错误详情
func SafeErrorMessage(err error, fallback string) string {
	return config.SafeErrorMessage(err, fallback)
}

// renderError 按业务错误类别映射 HTTP 状态码，其余错误记录日志后返回 500
func renderError(c *gin.Context, err error, fallback string) {
	switch service.KindOf(err) {
	case service.KindValidation:
		BadRequest(c, err.Error())
	case service.KindNotFound:
		NotFound(c, err.Error())
	case service.KindConflict:
		Conflict(c, err.Error())
	default:
		logger.FromContext(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg(fallback)
		InternalError(c, SafeErrorMessage(err, fallback))
	}
}

// pathUUID 解析路径中的 UUID，格式错误视为资源不存在
func pathUUID(c *gin.Context, name, notFoundMessage string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		NotFound(c, notFoundMessage)
		return uuid.Nil, false
	}
	return id, true
}
