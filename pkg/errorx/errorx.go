package errorx

import (
	"errors"
	"fmt"
)

// CodeError 带业务错误码的自定义错误
// 实现了 error 接口，支持 %w 包装底层错误，且能被 errors.Is/errors.As 识别
type CodeError struct {
	Code  int    // 业务错误码
	Msg   string // 错误消息
	cause error  // 被包装的底层错误
}

// Error 当存在底层错误时，返回格式为 "消息: 底层错误"；否则仅返回消息
func (e *CodeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.cause)
	}
	return e.Msg
}

// Unwrap 支持 errors.Is/errors.As 向下追溯
func (e *CodeError) Unwrap() error {
	return e.cause
}

// Is 同码即相等，便于 errors.Is(err, errorx.ErrAlreadyExists) 这类判断
func (e *CodeError) Is(target error) bool {
	var t *CodeError
	if errors.As(target, &t) {
		return t.Code == e.Code && t.cause == nil
	}
	return false
}

// New 创建一个新的 CodeError
func New(code int, msg string) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  msg,
	}
}

// Newf 创建一个带格式化消息的 CodeError
func Newf(code int, format string, args ...any) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// Wrap 包装底层错误，添加业务错误码和消息
// 用法: errorx.Wrap(err, CodeNotFound, "用户不存在")
func Wrap(err error, code int, msg string) *CodeError {
	return &CodeError{
		Code:  code,
		Msg:   msg,
		cause: err,
	}
}

// Wrapf 包装底层错误，支持格式化消息
// 用法: errorx.Wrapf(err, CodeNotFound, "好友关系 %s 不存在", id)
func Wrapf(err error, code int, format string, args ...any) *CodeError {
	return &CodeError{
		Code:  code,
		Msg:   fmt.Sprintf(format, args...),
		cause: err,
	}
}

// GetCode 从错误中提取业务错误码，如果不是 CodeError 则返回默认码
func GetCode(err error) int {
	var codeErr *CodeError
	if errors.As(err, &codeErr) {
		return codeErr.Code
	}
	return CodeServerBusy
}

// 业务状态码常量定义
const (
	CodeSuccess         = 1000 // 成功
	CodeInvalidParam    = 1001 // 请求参数错误（ValidationError）
	CodeUserExist       = 1002 // 用户名或邮箱已被占用
	CodeUserNotExist    = 1003 // 用户不存在
	CodeInvalidPassword = 1004 // 密码错误
	CodeServerBusy      = 1005 // 服务繁忙（RemoteError 对外统一码）
	CodeUnauthorized    = 1006 // 未登录/认证失败（NotAuthenticated）
	CodeForbidden       = 1007 // 无权操作该资源
	CodeNotFound        = 1008 // 资源不存在
	CodeInvalidState    = 1009 // 当前状态不允许该操作
	CodeDBError         = 1010 // 数据库错误
	CodeCacheError      = 1011 // 缓存错误
	CodeAlreadyExists   = 1012 // 记录已存在（AlreadyExists）
)

// 预定义常用错误实例
// 这些实例既可直接返回，也可用于 errors.Is 比较
var (
	ErrInvalidParam     = New(CodeInvalidParam, "请求参数错误")
	ErrServerBusy       = New(CodeServerBusy, "服务繁忙")
	ErrUnauthorized     = New(CodeUnauthorized, "请先登录")
	ErrForbidden        = New(CodeForbidden, "无权操作")
	ErrNotFound         = New(CodeNotFound, "资源不存在")
	ErrInvalidState     = New(CodeInvalidState, "当前状态不允许该操作")
	ErrAlreadyExists    = New(CodeAlreadyExists, "记录已存在")
	ErrUserNotExist     = New(CodeUserNotExist, "用户不存在")
	ErrInvalidPassword  = New(CodeInvalidPassword, "邮箱或密码不正确")
	ErrUserAlreadyExist = New(CodeUserExist, "用户名或邮箱已被注册")
)

// IsNotFound 检查错误是否为"未找到"类型（包括 gorm.ErrRecordNotFound）
func IsNotFound(err error) bool {
	var codeErr *CodeError
	if errors.As(err, &codeErr) && codeErr.Code == CodeNotFound {
		return true
	}
	return err != nil && err.Error() == "record not found"
}

// IsCode 判断错误链中是否含有指定业务码
func IsCode(err error, code int) bool {
	var codeErr *CodeError
	return errors.As(err, &codeErr) && codeErr.Code == code
}
