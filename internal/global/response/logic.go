package response

import (
	"errors"
	"fmt"
	"net/http"

	pkgerrors "github.com/pkg/errors"
)

// Error 响应错误，Code 的前三位即 HTTP 状态码
type Error struct {
	Code    int32  `json:"code"`
	Message string `json:"msg"`
	Origin  string `json:"origin,omitempty"`
	// cause 原始错误，供 Unwrap 与 Sentry 堆栈提取
	cause error
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

func newError(code int32, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

func (e *Error) Error() string {
	return fmt.Sprintf("code:%d, msg:%s", e.Code, e.Message)
}

// GetCode 实现 sentry.CodedError
func (e *Error) GetCode() int32 {
	return e.Code
}

// Status 对应的 HTTP 状态码
func (e *Error) Status() int {
	status := int(e.Code / 100)
	if status < 100 || status > 599 {
		return http.StatusInternalServerError
	}
	return status
}

func (e *Error) Unwrap() error {
	return e.cause
}

// StackTrace 取原始错误上的堆栈
func (e *Error) StackTrace() pkgerrors.StackTrace {
	if st, ok := e.cause.(stackTracer); ok {
		return st.StackTrace()
	}
	return nil
}

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// WithOrigin 附带原始错误，仅 debug 模式下会返回给前端
func (e *Error) WithOrigin(err error) *Error {
	if err == nil {
		return e
	}
	if _, ok := err.(stackTracer); !ok {
		err = pkgerrors.WithStack(err)
	}
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Origin:  fmt.Sprintf("%+v", err),
		cause:   err,
	}
}

// WithTips 替换为更具体的提示信息，release 模式也可见
func (e *Error) WithTips(tips string) *Error {
	if tips == "" {
		return e
	}
	return &Error{
		Code:    e.Code,
		Message: tips,
		Origin:  e.Origin,
		cause:   e.cause,
	}
}
