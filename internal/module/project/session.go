package project

import (
	"net/http"

	"team-recruit/internal/auth"
	"team-recruit/internal/global/jwt"
	"team-recruit/internal/global/middleware"
	"team-recruit/internal/global/response"

	"github.com/gin-gonic/gin"
)

type VerifyReq struct {
	Password string `json:"password"`
}

func setCookie(c *gin.Context, cookie *auth.SessionCookie) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cookie.Name,
		Value:    cookie.Value,
		MaxAge:   cookie.MaxAge,
		Path:     cookie.Path,
		Secure:   cookie.Secure,
		HttpOnly: cookie.HttpOnly,
		SameSite: cookie.SameSite,
	})
}

// VerifyProject 校验项目密码并签发会话
// 未带密码时按已有会话或管理员身份判断，便于前端检查登录状态
func (p *ModuleProject) VerifyProject(c *gin.Context) {
	id, ok := middleware.ProjectID(c)
	if !ok {
		return
	}
	var req VerifyReq
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
			return
		}
	}
	if req.Password == "" {
		req.Password = c.GetHeader(middleware.PasswordHeader)
	}
	ctx := c.Request.Context()
	ip := c.ClientIP()

	if req.Password == "" {
		cred := middleware.Credentials(c, id)
		allowed, err := p.Authorizer.VerifyPermission(ctx, id, cred)
		if err != nil {
			response.Fail(c, err)
			return
		}
		if !allowed {
			response.Fail(c, response.ErrInvalidPassword)
			return
		}
		resp := gin.H{"admin": cred.Admin}
		if payload, ok := jwt.GetUserPayload(c); ok && cred.Admin {
			resp["user_id"] = payload.UserID
		}
		response.Success(c, resp)
		return
	}

	allowed, err := p.Limiter.Attempt(ctx, id, ip)
	if err != nil {
		// 限流依赖 redis，出错时放行
		log.Warn("检查验证次数失败", "error", err, "project_id", id)
	} else if !allowed {
		log.Warn("项目密码尝试次数过多", "project_id", id, "client_ip", ip)
		response.Fail(c, response.ErrTooManyAttempts)
		return
	}

	match, err := p.Authorizer.VerifyPassword(ctx, id, req.Password)
	if err != nil {
		response.Fail(c, err)
		return
	}
	if !match {
		log.Info("项目密码错误", "project_id", id, "client_ip", ip)
		response.Fail(c, response.ErrInvalidPassword)
		return
	}
	if err := p.Limiter.Reset(ctx, id, ip); err != nil {
		log.Warn("重置验证次数失败", "error", err, "project_id", id)
	}

	cookie, err := p.Authorizer.IssueSessionCredential(id, req.Password)
	if err != nil {
		log.Error("签发会话失败", "error", err, "project_id", id)
		response.Fail(c, response.ErrInternal.WithOrigin(err))
		return
	}
	setCookie(c, cookie)
	response.Success(c)
}

// Logout 删除会话 Cookie
func (p *ModuleProject) Logout(c *gin.Context) {
	id, ok := middleware.ProjectID(c)
	if !ok {
		return
	}
	setCookie(c, p.Authorizer.RevokeSessionCredential(id))
	response.Success(c)
}
