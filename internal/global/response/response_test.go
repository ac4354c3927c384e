package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"team-recruit/config"
	"team-recruit/internal/global/errs"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestTranslate(t *testing.T) {
	cases := []struct {
		err    error
		code   int32
		status int
		msg    string
	}{
		{errs.BadRequest("已通过"), 40000, http.StatusBadRequest, "已通过"},
		{errs.Unauthorized(""), 40100, http.StatusUnauthorized, ErrUnauthorized.Message},
		{fmt.Errorf("wrap: %w", errs.NotFound("申请不存在")), 40400, http.StatusNotFound, "申请不存在"},
		{errs.MaxApplicants("专业人数已满"), 40900, http.StatusConflict, "专业人数已满"},
		{ErrTooManyAttempts, 42900, http.StatusTooManyRequests, ErrTooManyAttempts.Message},
		{errors.New("driver: bad connection"), 50001, http.StatusInternalServerError, ErrInternal.Message},
	}
	for _, tc := range cases {
		e := Translate(tc.err)
		require.Equal(t, tc.code, e.Code, tc.err.Error())
		require.Equal(t, tc.status, e.Status())
		require.Equal(t, tc.msg, e.Message)
	}
}

func TestErrorIsByCode(t *testing.T) {
	require.ErrorIs(t, ErrNotFound.WithTips("项目不存在"), ErrNotFound)
	require.NotErrorIs(t, ErrNotFound, ErrInvalidRequest)
}

func TestFailHidesOriginInRelease(t *testing.T) {
	config.Set(&config.Config{Mode: config.ModeRelease})
	t.Cleanup(func() { config.Set(&config.Config{Mode: config.ModeDebug}) })

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	Fail(c, errors.New("dial tcp 10.0.0.1:3306: connection refused"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body ResponseBody
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Equal(t, ErrInternal.Code, body.Code)
	require.Empty(t, body.Origin)
	require.NotContains(t, w.Body.String(), "3306")
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		defer Recovery(c)
		c.Next()
	})
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
}
