// Package errs 定义业务层使用的错误类别
// 业务层只返回这些错误，由 HTTP 层统一翻译为响应码
package errs

import (
	"errors"
)

type Kind uint8

const (
	KindUnknown Kind = iota
	KindBadRequest
	KindUnauthorized
	KindNotFound
	KindMaxApplicants
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindMaxApplicants:
		return "max_applicants"
	default:
		return "unknown"
	}
}

// 用于 errors.Is 判断类别
var (
	ErrBadRequest    = &Error{Kind: KindBadRequest}
	ErrUnauthorized  = &Error{Kind: KindUnauthorized}
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrMaxApplicants = &Error{Kind: KindMaxApplicants}
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Message
}

// Is 同类别即视为相等
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

func BadRequest(msg string) error    { return &Error{Kind: KindBadRequest, Message: msg} }
func Unauthorized(msg string) error  { return &Error{Kind: KindUnauthorized, Message: msg} }
func NotFound(msg string) error      { return &Error{Kind: KindNotFound, Message: msg} }
func MaxApplicants(msg string) error { return &Error{Kind: KindMaxApplicants, Message: msg} }

// KindOf 返回错误链上第一个业务错误的类别
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// MessageOf 返回业务错误携带的提示
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}
