package project

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"team-recruit/config"
	"team-recruit/internal/admission"
	"team-recruit/internal/auth"
	"team-recruit/internal/global/jwt"
	"team-recruit/internal/global/middleware"
	"team-recruit/internal/global/response"
	"team-recruit/internal/model"
	"team-recruit/internal/repository"
	"team-recruit/test"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type env struct {
	router *gin.Engine
	db     *gorm.DB
	mr     *miniredis.Miniredis
}

// setup withRedis 为 true 时启用浏览去重与验证限流（3 次）
func setup(t *testing.T, withRedis bool) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := test.NewDB(t)
	repos := repository.New(db)
	e := &env{db: db}

	m := &ModuleProject{
		Repos:      repos,
		Authorizer: test.NewAuthorizer(t, repos),
		Admission:  admission.NewController(repos, &test.Notifier{}, admission.WithLogger(test.DiscardLogger())),
	}
	if withRedis {
		e.mr = miniredis.RunT(t)
		m.Redis = redis.NewClient(&redis.Options{Addr: e.mr.Addr()})
		m.Limiter = auth.NewAttemptLimiter(m.Redis, 3, time.Minute)
	}
	m.Init()

	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Session(2))
	m.InitRouter(r.Group("/"))
	e.router = r
	return e
}

func createBody() map[string]any {
	return map[string]any{
		"name":           "智能车队",
		"summary":        "招募队员",
		"keywords":       []string{"嵌入式", " 视觉 ", "嵌入式", ""},
		"password":       "owner",
		"proposer_name":  "王老师",
		"proposer_type":  "PROFESSOR",
		"proposer_email": "owner@example.com",
	}
}

func TestCreateProject(t *testing.T) {
	e := setup(t, false)

	w, body := test.DoRequest(t, e.router, test.Request{Method: http.MethodPost, Path: "/projects", Body: createBody()})
	test.NoError(t, w, body)
	assert.NotContains(t, w.Body.String(), "password")

	var p model.Project
	test.DecodeData(t, body, &p)
	assert.Equal(t, model.ProjectRecruiting, p.Status)
	assert.Equal(t, []string{"嵌入式", "视觉"}, p.Keywords)

	cookie := test.FindCookie(w, auth.CookieName(p.ID))
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, 86400, cookie.MaxAge)
	assert.Equal(t, "/", cookie.Path)

	bad := createBody()
	bad["proposer_type"] = "ALIEN"
	w, body = test.DoRequest(t, e.router, test.Request{Method: http.MethodPost, Path: "/projects", Body: bad})
	test.ErrorEqual(t, response.ErrInvalidRequest, w, body)

	bad = createBody()
	bad["password"] = strings.Repeat("x", 80)
	w, body = test.DoRequest(t, e.router, test.Request{Method: http.MethodPost, Path: "/projects", Body: bad})
	test.ErrorEqual(t, response.ErrInvalidRequest, w, body)

	bad = createBody()
	delete(bad, "password")
	w, body = test.DoRequest(t, e.router, test.Request{Method: http.MethodPost, Path: "/projects", Body: bad})
	test.ErrorEqual(t, response.ErrInvalidRequest, w, body)
}

func TestListProjects(t *testing.T) {
	e := setup(t, false)
	test.CreateProject(t, e.db, "a")
	closed := test.CreateProject(t, e.db, "b")
	require.NoError(t, e.db.Model(closed).Updates(map[string]any{"status": model.ProjectClosed, "name": "机器人"}).Error)

	w, body := test.DoRequest(t, e.router, test.Request{Method: http.MethodGet, Path: "/projects?status=CLOSED"})
	test.NoError(t, w, body)
	var resp ListProjectsResp
	test.DecodeData(t, body, &resp)
	assert.EqualValues(t, 1, resp.Total)
	require.Len(t, resp.Projects, 1)
	assert.Equal(t, closed.ID, resp.Projects[0].ID)

	w, body = test.DoRequest(t, e.router, test.Request{Method: http.MethodGet, Path: "/projects?keyword=" + url.QueryEscape("机器") + "&page_size=500"})
	test.NoError(t, w, body)
	test.DecodeData(t, body, &resp)
	assert.EqualValues(t, 1, resp.Total)
	assert.Equal(t, maxPageSize, resp.PageSize)

	w, body = test.DoRequest(t, e.router, test.Request{Method: http.MethodGet, Path: "/projects?status=OPEN"})
	test.ErrorEqual(t, response.ErrInvalidRequest, w, body)
}

func TestGetProject(t *testing.T) {
	e := setup(t, false)
	p := test.CreateProject(t, e.db, "owner")
	test.CreateApplicant(t, e.db, p.ID, "CS", model.ApplicantApproved)
	test.CreateApplicant(t, e.db, p.ID, "CS", model.ApplicantPending)

	var detail ProjectDetailResp
	for i := 1; i <= 2; i++ {
		w, body := test.DoRequest(t, e.router, test.Request{Method: http.MethodGet, Path: "/projects/1"})
		test.NoError(t, w, body)
		test.DecodeData(t, body, &detail)
		assert.EqualValues(t, i, detail.Views)
	}
	assert.EqualValues(t, 1, detail.Approved)
	assert.EqualValues(t, 1, detail.ApprovedByMajor["CS"])
	assert.EqualValues(t, model.MaxApplicants, detail.MaxApplicants)

	w, body := test.DoRequest(t, e.router, test.Request{Method: http.MethodGet, Path: "/projects/2"})
	test.ErrorEqual(t, response.ErrNotFound, w, body)
	w, body = test.DoRequest(t, e.router, test.Request{Method: http.MethodGet, Path: "/projects/abc"})
	test.ErrorEqual(t, response.ErrInvalidRequest, w, body)
}

func TestGetProjectViewsDeduplicated(t *testing.T) {
	e := setup(t, true)
	test.CreateProject(t, e.db, "owner")

	var detail ProjectDetailResp
	for i := 0; i < 3; i++ {
		w, body := test.DoRequest(t, e.router, test.Request{Method: http.MethodGet, Path: "/projects/1"})
		test.NoError(t, w, body)
		test.DecodeData(t, body, &detail)
		assert.EqualValues(t, 1, detail.Views)
	}

	e.mr.FastForward(viewWindow + time.Second)
	w, body := test.DoRequest(t, e.router, test.Request{Method: http.MethodGet, Path: "/projects/1"})
	test.NoError(t, w, body)
	test.DecodeData(t, body, &detail)
	assert.EqualValues(t, 2, detail.Views)
}

func TestVerifyProject(t *testing.T) {
	e := setup(t, false)
	p := test.CreateProject(t, e.db, "owner")

	w, body := test.DoRequest(t, e.router, test.Request{Method: http.MethodPost, Path: "/projects/1/verify",
		Body: VerifyReq{Password: "wrong"}})
	test.ErrorEqual(t, response.ErrInvalidPassword, w, body)
	assert.Nil(t, test.FindCookie(w, auth.CookieName(p.ID)))

	w, body = test.DoRequest(t, e.router, test.Request{Method: http.MethodPost, Path: "/projects/7/verify",
		Body: VerifyReq{Password: "owner"}})
	test.ErrorEqual(t, response.ErrNotFound, w, body)

	w, body = test.DoRequest(t, e.router, test.Request{Method: http.MethodPost, Path: "/projects/1/verify",
		Body: VerifyReq{Password: "owner"}})
	test.NoError(t, w, body)
	cookie := test.FindCookie(w, auth.CookieName(p.ID))
	require.NotNil(t, cookie)

	// 不带密码时检查已有会话
	w, body = test.DoRequest(t, e.router, test.Request{Method: http.MethodPost, Path: "/projects/1/verify"})
	test.ErrorEqual(t, response.ErrInvalidPassword, w, body)
	w, body = test.DoRequest(t, e.router, test.Request{Method: http.MethodPost, Path: "/projects/1/verify",
		Cookies: []*http.Cookie{cookie}})
	test.NoError(t, w, body)

	w, body = test.DoRequest(t, e.router, test.Request{Method: http.MethodPost, Path: "/projects/1/verify",
		Headers: map[string]string{middleware.PasswordHeader: "owner"}})
	test.NoError(t, w, body)
	assert.NotNil(t, test.FindCookie(w, auth.CookieName(p.ID)))
}

func TestVerifyProjectLimited(t *testing.T) {
	e := setup(t, true)
	test.CreateProject(t, e.db, "owner")
	verify := func(password string) {
		w, body := test.DoRequest(t, e.router, test.Request{Method: http.MethodPost, Path: "/projects/1/verify",
			Body: VerifyReq{Password: password}})
		if password == "owner" {
			test.ErrorEqual(t, response.ErrTooManyAttempts, w, body)
		} else {
			test.ErrorEqual(t, response.ErrInvalidPassword, w, body)
		}
	}
	for i := 0; i < 3; i++ {
		verify("wrong")
	}
	verify("owner")

	e.mr.FastForward(2 * time.Minute)
	w, body := test.DoRequest(t, e.router, test.Request{Method: http.MethodPost, Path: "/projects/1/verify",
		Body: VerifyReq{Password: "owner"}})
	test.NoError(t, w, body)
	// 校验成功后计数清零
	assert.Empty(t, e.mr.Keys())
}

func TestUpdateProject(t *testing.T) {
	e := setup(t, false)
	test.CreateProject(t, e.db, "owner")

	w, body := test.DoRequest(t, e.router, test.Request{Method: http.MethodPut, Path: "/projects/1",
		Body: map[string]any{"name": "新名字"}})
	test.ErrorEqual(t, response.ErrUnauthorized, w, body)

	w, body = test.DoRequest(t, e.router, test.Request{Method: http.MethodPut, Path: "/projects/1",
		Body: map[string]any{"password": "owner", "status": "PAUSED"}})
	test.ErrorEqual(t, response.ErrInvalidRequest, w, body)

	for _, invalid := range []map[string]any{
		{"password": "owner", "proposer_email": "not-an-email"},
		{"password": "owner", "proposer_email": ""},
		{"password": "owner", "new_password": strings.Repeat("x", 80)},
		{"password": "owner", "name": strings.Repeat("名", 101)},
	} {
		w, body = test.DoRequest(t, e.router, test.Request{Method: http.MethodPut, Path: "/projects/1", Body: invalid})
		test.ErrorEqual(t, response.ErrInvalidRequest, w, body)
	}

	w, body = test.DoRequest(t, e.router, test.Request{Method: http.MethodPut, Path: "/projects/1",
		Body: map[string]any{"password": "owner", "name": "新名字", "status": "CLOSED", "new_password": "rotated"}})
	test.NoError(t, w, body)
	var p model.Project
	test.DecodeData(t, body, &p)
	assert.Equal(t, "新名字", p.Name)
	assert.Equal(t, model.ProjectClosed, p.Status)
	assert.NotNil(t, test.FindCookie(w, auth.CookieName(1)))

	// 旧密码失效
	w, body = test.DoRequest(t, e.router, test.Request{Method: http.MethodPut, Path: "/projects/1",
		Body: map[string]any{"password": "owner", "summary": "x"}})
	test.ErrorEqual(t, response.ErrUnauthorized, w, body)
	w, body = test.DoRequest(t, e.router, test.Request{Method: http.MethodPut, Path: "/projects/1",
		Body: map[string]any{"password": "rotated", "summary": "x"}})
	test.NoError(t, w, body)
}

func TestDeleteProject(t *testing.T) {
	e := setup(t, false)
	p := test.CreateProject(t, e.db, "owner")
	for _, major := range []string{"A", "B", "C"} {
		test.CreateApplicant(t, e.db, p.ID, major, model.ApplicantPending)
	}

	w, body := test.DoRequest(t, e.router, test.Request{Method: http.MethodDelete, Path: "/projects/1"})
	test.ErrorEqual(t, response.ErrUnauthorized, w, body)

	w, body = test.DoRequest(t, e.router, test.Request{Method: http.MethodDelete, Path: "/projects/1",
		Headers: map[string]string{middleware.PasswordHeader: "owner"}})
	test.NoError(t, w, body)
	revoked := test.FindCookie(w, auth.CookieName(p.ID))
	require.NotNil(t, revoked)
	assert.Less(t, revoked.MaxAge, 0)

	var n int64
	require.NoError(t, e.db.Model(&model.Applicant{}).Where("project_id = ?", p.ID).Count(&n).Error)
	assert.Zero(t, n)

	w, body = test.DoRequest(t, e.router, test.Request{Method: http.MethodGet, Path: fmt.Sprintf("/projects/%d", p.ID)})
	test.ErrorEqual(t, response.ErrNotFound, w, body)
}

func TestLogout(t *testing.T) {
	e := setup(t, false)
	w, body := test.DoRequest(t, e.router, test.Request{Method: http.MethodPost, Path: "/projects/3/logout"})
	test.NoError(t, w, body)
	cookie := test.FindCookie(w, auth.CookieName(3))
	require.NotNil(t, cookie)
	assert.Less(t, cookie.MaxAge, 0)
	assert.Empty(t, cookie.Value)
}

func TestAttachmentsDisabled(t *testing.T) {
	e := setup(t, false)
	test.CreateProject(t, e.db, "owner")
	w, body := test.DoRequest(t, e.router, test.Request{Method: http.MethodPost, Path: "/projects/1/attachments/presign",
		Headers: map[string]string{middleware.PasswordHeader: "owner"},
		Body:    PresignReq{Filename: "a.pdf"}})
	test.ErrorEqual(t, response.ErrNotFound, w, body)
}

func TestVerifyProjectAsAdmin(t *testing.T) {
	config.Set(&config.Config{JWT: config.JWT{AccessSecret: "secret", AccessExpire: 60}})
	t.Cleanup(func() { config.Set(&config.Config{}) })
	e := setup(t, false)
	test.CreateProject(t, e.db, "owner")

	token, err := jwt.CreateToken(jwt.Payload{UserID: "admin-1", RoleID: 2})
	require.NoError(t, err)
	w, body := test.DoRequest(t, e.router, test.Request{Method: http.MethodPost, Path: "/projects/1/verify",
		Headers: map[string]string{"Authorization": "Bearer " + token}})
	test.NoError(t, w, body)
	var resp struct {
		Admin  bool   `json:"admin"`
		UserID string `json:"user_id"`
	}
	test.DecodeData(t, body, &resp)
	assert.True(t, resp.Admin)
	assert.Equal(t, "admin-1", resp.UserID)

	// 管理员无需项目密码即可修改
	w, body = test.DoRequest(t, e.router, test.Request{Method: http.MethodPut, Path: "/projects/1",
		Headers: map[string]string{"Authorization": "Bearer " + token},
		Body:    map[string]any{"summary": "管理员修改"}})
	test.NoError(t, w, body)
}
