package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"team-recruit/internal/auth"
	"team-recruit/internal/global/jwt"
	"team-recruit/internal/global/response"

	"github.com/gin-gonic/gin"
)

const (
	AdminKey     = "is_admin"
	ProjectIDKey = "project_id"

	// PasswordHeader 不方便带请求体时可用此头传项目密码
	PasswordHeader = "X-Project-Password"

	maxPeekBody = 1 << 20
)

// PermissionChecker 见 auth.Authorizer
type PermissionChecker interface {
	VerifyPermission(ctx context.Context, projectID uint, cred auth.Credentials) (bool, error)
}

func bearer(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(header, "Bearer "), true
}

// Session 可选登录，未带令牌时按匿名处理，带了无效令牌返回 401
// 角色不低于 adminRoleID 的视为平台管理员
func Session(adminRoleID int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearer(c); ok {
			payload, valid := jwt.ParseToken(token)
			if !valid {
				response.Fail(c, response.ErrTokenInvalid)
				return
			}
			c.Set(jwt.PayloadKey, payload)
			c.Set(AdminKey, payload.RoleID >= adminRoleID)
		}
		c.Next()
	}
}

func IsAdmin(c *gin.Context) bool {
	return c.GetBool(AdminKey)
}

// ProjectID 路径参数 :id，非法时已写入 400
func ProjectID(c *gin.Context) (uint, bool) {
	if v, ok := c.Get(ProjectIDKey); ok {
		return v.(uint), true
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, response.ErrInvalidRequest.WithTips("项目编号错误"))
		return 0, false
	}
	c.Set(ProjectIDKey, uint(id))
	return uint(id), true
}

// Credentials 收集请求中的管理员身份、会话 Cookie 与明文密码
func Credentials(c *gin.Context, projectID uint) auth.Credentials {
	cred := auth.Credentials{Admin: IsAdmin(c)}
	if v, err := c.Cookie(auth.CookieName(projectID)); err == nil {
		cred.Session = v
	}
	cred.Password = c.GetHeader(PasswordHeader)
	if cred.Password == "" {
		cred.Password = peekPassword(c)
	}
	return cred
}

// peekPassword 读取 JSON 请求体中的 password 字段，并还原请求体供后续绑定
func peekPassword(c *gin.Context) string {
	if c.Request.Body == nil || c.ContentType() != gin.MIMEJSON {
		return ""
	}
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPeekBody))
	_ = c.Request.Body.Close()
	c.Request.Body = io.NopCloser(bytes.NewReader(data))
	if err != nil || len(data) == 0 {
		return ""
	}
	var body struct {
		Password string `json:"password"`
	}
	if json.Unmarshal(data, &body) != nil {
		return ""
	}
	return body.Password
}

// RequireProjectPermission 校验调用方对 :id 项目的管理权限
func RequireProjectPermission(checker PermissionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, ok := ProjectID(c)
		if !ok {
			return
		}
		allowed, err := checker.VerifyPermission(c.Request.Context(), projectID, Credentials(c, projectID))
		if err != nil {
			response.Fail(c, err)
			return
		}
		if !allowed {
			response.Fail(c, response.ErrUnauthorized.WithTips("项目密码错误或会话已过期"))
			return
		}
		c.Next()
	}
}
