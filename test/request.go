package test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"team-recruit/internal/global/response"

	"github.com/stretchr/testify/require"
)

// Request 描述一次测试请求，Body 非 nil 时按 JSON 发送
type Request struct {
	Method  string
	Path    string
	Body    any
	Headers map[string]string
	Cookies []*http.Cookie
}

// DoRequest 发送请求并解析统一响应体，非 JSON 响应时 body 为空
func DoRequest(t *testing.T, handler http.Handler, r Request) (*httptest.ResponseRecorder, response.ResponseBody) {
	t.Helper()
	var reader io.Reader
	if r.Body != nil {
		data, err := json.Marshal(r.Body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(r.Method, r.Path, reader)
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	for _, c := range r.Cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var body response.ResponseBody
	if json.Valid(w.Body.Bytes()) {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

// DecodeData 将 Data 字段解析到 v
func DecodeData(t *testing.T, body response.ResponseBody, v any) {
	t.Helper()
	data, err := json.Marshal(body.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

// FindCookie 按名称查找响应中的 Cookie
func FindCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
