// Package errors 定义业务错误分类。
//
// 四类错误与 HTTP 语义一一对应：
//   - ValidationError     输入格式或结构非法（空名称、星期越界、上班时间不早于下班时间、日期无法解析）
//   - AuthorizationError  角色或站点范围不匹配
//   - NotFoundError       引用的模板 / 员工 / 站点不存在
//   - ConflictError       存在引用，删除被阻止
//
// 各 service 仍导出自己的哨兵错误（ErrTemplateNotFound 等），并通过 Cause 包装进对应分类，
// 调用方既可以 errors.Is 具体原因，也可以 errors.As 分类。
package errors

import (
	"errors"
	"fmt"
)

// ValidationError 输入校验失败
type ValidationError struct {
	Message string
	Cause   error
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return e.Cause }

// AuthorizationError 权限或范围不匹配
type AuthorizationError struct {
	Message string
	Cause   error
}

func (e *AuthorizationError) Error() string { return e.Message }
func (e *AuthorizationError) Unwrap() error { return e.Cause }

// NotFoundError 引用对象不存在
type NotFoundError struct {
	Message string
	Cause   error
}

func (e *NotFoundError) Error() string { return e.Message }
func (e *NotFoundError) Unwrap() error { return e.Cause }

// ConflictError 存在引用冲突
type ConflictError struct {
	Message string
	Cause   error
}

func (e *ConflictError) Error() string { return e.Message }
func (e *ConflictError) Unwrap() error { return e.Cause }

// ── 构造函数 ──

// Validation 以哨兵错误为原因构造 ValidationError，消息为原因文本
func Validation(cause error) error {
	return &ValidationError{Message: cause.Error(), Cause: cause}
}

// Validationf 构造带上下文的 ValidationError（如 "星期 3: 缺少上班时间"）
func Validationf(cause error, format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Unauthorized 以哨兵错误为原因构造 AuthorizationError
func Unauthorized(cause error) error {
	return &AuthorizationError{Message: cause.Error(), Cause: cause}
}

// NotFound 以哨兵错误为原因构造 NotFoundError
func NotFound(cause error) error {
	return &NotFoundError{Message: cause.Error(), Cause: cause}
}

// Conflict 以哨兵错误为原因构造 ConflictError
func Conflict(cause error) error {
	return &ConflictError{Message: cause.Error(), Cause: cause}
}

// ── 分类判断 ──

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsAuthorization(err error) bool {
	var e *AuthorizationError
	return errors.As(err, &e)
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}
