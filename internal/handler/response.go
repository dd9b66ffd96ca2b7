package handler

import (
	"errors"
	"net/http"

	"playmate_server/internal/infrastructure/middleware"
	"playmate_server/pkg/errorx"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ResponseData 统一响应结构
// 业务结果一律返回 HTTP 200，成败看 Code；只有鉴权失败和限流使用 401 / 429
type ResponseData struct {
	Code int `json:"code"`           // 业务响应状态码
	Msg  any `json:"msg"`            // 提示信息，参数校验失败时为 字段->原因
	Data any `json:"data,omitempty"` // 数据
}

func reply(c *gin.Context, code int, msg any, data any) {
	c.JSON(http.StatusOK, ResponseData{Code: code, Msg: msg, Data: data})
}

// HandleSuccess 返回成功响应
func HandleSuccess(c *gin.Context, data any) {
	reply(c, errorx.CodeSuccess, "success", data)
}

// HandleError 业务错误原样返回错误码和消息
// 非 CodeError 的错误视为系统故障，记录日志后统一返回"服务繁忙"
//
//	if err := svc.DoSomething(ctx); err != nil {
//	    HandleError(c, err)
//	    return
//	}
func HandleError(c *gin.Context, err error) {
	var codeErr *errorx.CodeError
	if errors.As(err, &codeErr) {
		reply(c, codeErr.Code, codeErr.Msg, nil)
		return
	}

	zap.L().Error("system error",
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.String("user_id", currentUserId(c)),
		zap.Error(err),
	)
	reply(c, errorx.ErrServerBusy.Code, errorx.ErrServerBusy.Msg, nil)
}

// HandleParamError 参数绑定失败
// 校验错误翻译成 字段->原因，其余（如 JSON 格式错误）返回通用提示
func HandleParamError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && Trans != nil {
		reply(c, errorx.ErrInvalidParam.Code, RemoveTopStruct(validationErrs.Translate(Trans)), nil)
		return
	}

	zap.L().Debug("param bind error", zap.String("path", c.Request.URL.Path), zap.Error(err))
	reply(c, errorx.ErrInvalidParam.Code, errorx.ErrInvalidParam.Msg, nil)
}

// HandleList 列表接口的统一响应
// 服务端故障时返回空列表并记录日志，客户端按"暂无数据"展示
// 参数错误、无权限等业务错误照常返回
func HandleList[T any](c *gin.Context, data []T, err error) {
	if err == nil {
		if data == nil {
			data = []T{}
		}
		HandleSuccess(c, data)
		return
	}
	switch errorx.GetCode(err) {
	case errorx.CodeServerBusy, errorx.CodeDBError, errorx.CodeCacheError:
		zap.L().Error("list load failed, degrade to empty",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		HandleSuccess(c, []T{})
	default:
		HandleError(c, err)
	}
}

// currentUserId JWTAuth 写入的当前用户 ID
func currentUserId(c *gin.Context) string {
	return c.GetString(middleware.ContextUserIDKey)
}
