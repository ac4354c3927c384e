package test

import (
	"net/http/httptest"
	"testing"

	"team-recruit/internal/global/response"

	"github.com/stretchr/testify/require"
)

// ErrorEqual 比较错误码与 HTTP 状态，提示语可能被 WithTips 替换
func ErrorEqual(t *testing.T, expected *response.Error, w *httptest.ResponseRecorder, resp response.ResponseBody) {
	t.Helper()
	require.Equal(t, expected.Status(), w.Code, w.Body.String())
	require.Equal(t, expected.Code, resp.Code, resp.Msg)
}

func NoError(t *testing.T, w *httptest.ResponseRecorder, resp response.ResponseBody) {
	t.Helper()
	require.Equal(t, 200, w.Code, w.Body.String())
	require.Equal(t, response.SuccessCode, resp.Code)
}
