package response

import (
	"fmt"
	"net/http"

	"team-recruit/config"
	"team-recruit/internal/global/errs"
	"team-recruit/internal/global/sentry"

	"github.com/gin-gonic/gin"
	pkgerrors "github.com/pkg/errors"
)

const SuccessCode int32 = 200

// ErrorContextKey gin.Context 中保存错误的键
const ErrorContextKey = "error"

type ResponseBody struct {
	Code   int32  `json:"code"`
	Msg    string `json:"msg"`
	Origin string `json:"origin,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// Success 返回 200，data 可省略
func Success(c *gin.Context, data ...any) {
	body := ResponseBody{Code: SuccessCode, Msg: "success"}
	if len(data) > 0 {
		body.Data = data[0]
	}
	c.JSON(http.StatusOK, body)
}

// Fail 将错误翻译为响应
func Fail(c *gin.Context, err error) {
	e := Translate(err)
	c.Set(ErrorContextKey, e)
	if e.Status() >= http.StatusInternalServerError {
		sentry.CaptureException(c, e)
	}

	body := ResponseBody{Code: e.Code, Msg: e.Message}
	if config.Get().Mode == config.ModeDebug {
		body.Origin = e.Origin
	}
	c.AbortWithStatusJSON(e.Status(), body)
}

// Translate 业务错误 -> 响应错误
func Translate(err error) *Error {
	if err == nil {
		return ErrInternal
	}
	var e *Error
	if pkgerrors.As(err, &e) {
		return e
	}
	msg := errs.MessageOf(err)
	switch errs.KindOf(err) {
	case errs.KindBadRequest:
		return ErrInvalidRequest.WithTips(msg)
	case errs.KindUnauthorized:
		return ErrUnauthorized.WithTips(msg)
	case errs.KindNotFound:
		return ErrNotFound.WithTips(msg)
	case errs.KindMaxApplicants:
		return ErrMaxApplicants.WithTips(msg)
	default:
		return ErrInternal.WithOrigin(err)
	}
}

// Recovery 在 defer 中调用，把 panic 转为 500
func Recovery(c *gin.Context) {
	r := recover()
	if r == nil {
		return
	}
	err, ok := r.(error)
	if !ok {
		err = fmt.Errorf("%v", r)
	}
	Fail(c, ErrInternal.WithOrigin(pkgerrors.WithStack(err)))
}
