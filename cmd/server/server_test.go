package server

import (
	"net/http"
	"strconv"
	"strings"
	"testing"

	"team-recruit/config"
	"team-recruit/internal/admission"
	"team-recruit/internal/auth"
	"team-recruit/internal/global/response"
	"team-recruit/internal/model"
	"team-recruit/internal/module"
	"team-recruit/internal/repository"
	"team-recruit/test"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	cfg := &config.Config{Mode: config.ModeDebug, Prefix: "api"}
	cfg.Auth.AdminRoleID = 2
	config.Set(cfg)
	t.Cleanup(func() { config.Set(&config.Config{}) })

	db := test.NewDB(t)
	repos := repository.New(db)
	mods := module.Build(&module.Dependencies{
		DB:         db,
		Repos:      repos,
		Authorizer: test.NewAuthorizer(t, repos),
		Admission:  admission.NewController(repos, &test.Notifier{}, admission.WithLogger(test.DiscardLogger())),
	})
	for _, m := range mods {
		m.Init()
	}
	return NewEngine(cfg, mods)
}

func TestPingAndMetrics(t *testing.T) {
	r := newTestEngine(t)

	w, body := test.DoRequest(t, r, test.Request{Method: http.MethodGet, Path: "/api/ping"})
	test.NoError(t, w, body)

	w, _ = test.DoRequest(t, r, test.Request{Method: http.MethodGet, Path: "/metrics"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "recruit_http_request_duration_seconds")
}

func TestRecruitmentFlow(t *testing.T) {
	r := newTestEngine(t)

	w, body := test.DoRequest(t, r, test.Request{Method: http.MethodPost, Path: "/api/projects", Body: map[string]any{
		"name":           "智能车队",
		"password":       "owner",
		"proposer_name":  "王老师",
		"proposer_type":  "HOST",
		"proposer_email": "owner@example.com",
	}})
	test.NoError(t, w, body)
	var p model.Project
	test.DecodeData(t, body, &p)
	session := test.FindCookie(w, auth.CookieName(p.ID))
	require.NotNil(t, session)

	var ids []uint
	for _, major := range []string{"CS", "CS", "CS", "EE", "ME", "AI"} {
		w, body = test.DoRequest(t, r, test.Request{Method: http.MethodPost, Path: "/api/projects/1/apply", Body: map[string]any{
			"name": "申请人", "email": "a@example.com", "major": major, "password": "mine",
		}})
		test.NoError(t, w, body)
		var a model.Applicant
		test.DecodeData(t, body, &a)
		ids = append(ids, a.ID)
	}

	accept := func(id uint) (int, response.ResponseBody) {
		w, body := test.DoRequest(t, r, test.Request{
			Method:  http.MethodPost,
			Path:    "/api/projects/1/applicants/" + itoa(id) + "/accept",
			Cookies: []*http.Cookie{session},
		})
		return w.Code, body
	}

	codes := make([]int, 0, len(ids))
	for _, id := range ids {
		code, _ := accept(id)
		codes = append(codes, code)
	}
	// 第三个 CS 受专业上限限制，AI 受总人数上限限制
	assert.Equal(t, []int{200, 200, 409, 200, 200, 409}, codes)

	// 篡改的 Cookie 视为未登录
	tampered := *session
	tampered.Value = strings.Repeat("0", 24) + ":" + strings.Repeat("0", 8) + ":" + strings.Repeat("0", 32)
	w, body = test.DoRequest(t, r, test.Request{
		Method:  http.MethodPost,
		Path:    "/api/projects/1/applicants/" + itoa(ids[0]) + "/pending",
		Cookies: []*http.Cookie{&tampered},
	})
	test.ErrorEqual(t, response.ErrUnauthorized, w, body)

	w, body = test.DoRequest(t, r, test.Request{Method: http.MethodGet, Path: "/api/projects/1"})
	test.NoError(t, w, body)
	var detail struct {
		Approved int64 `json:"approved"`
	}
	test.DecodeData(t, body, &detail)
	assert.EqualValues(t, model.MaxApplicants, detail.Approved)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
