// Package auth 项目密码鉴权
// 调用方可以通过平台管理员会话、加密会话 Cookie 或请求中的明文密码证明自己有权管理项目
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"team-recruit/tools"
)

// SessionMaxAge 会话 Cookie 有效期
const SessionMaxAge = 24 * time.Hour

// PasswordStore 查询资源的密码哈希，资源不存在时返回 errs.NotFound
type PasswordStore interface {
	PasswordHash(ctx context.Context, id uint) (string, error)
}

// Credentials 一次请求中携带的全部凭证
type Credentials struct {
	Admin    bool   // 已通过平台管理员身份校验
	Session  string // 会话 Cookie 原值
	Password string // 请求中直接提供的明文密码
}

// SessionCookie 交给 HTTP 层写入的 Cookie
type SessionCookie struct {
	Name     string
	Value    string
	MaxAge   int
	Path     string
	Secure   bool
	HttpOnly bool
	SameSite http.SameSite
}

type Authorizer struct {
	store  PasswordStore
	cipher *Cipher
	secure bool
	log    *slog.Logger
}

type Option func(*Authorizer)

// WithSecureCookie 生产环境下 Cookie 仅通过 HTTPS 发送
func WithSecureCookie(secure bool) Option {
	return func(a *Authorizer) { a.secure = secure }
}

func WithLogger(log *slog.Logger) Option {
	return func(a *Authorizer) { a.log = log }
}

func NewAuthorizer(store PasswordStore, cipher *Cipher, opts ...Option) *Authorizer {
	a := &Authorizer{store: store, cipher: cipher, log: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CookieName 每个项目一个 Cookie
func CookieName(projectID uint) string {
	return fmt.Sprintf("project_auth_%d", projectID)
}

// VerifyPassword 项目不存在时返回 errs.NotFound；哈希或明文为空视为不匹配
func (a *Authorizer) VerifyPassword(ctx context.Context, projectID uint, plaintext string) (bool, error) {
	hash, err := a.store.PasswordHash(ctx, projectID)
	if err != nil {
		return false, err
	}
	return tools.PasswordCompare(plaintext, hash), nil
}

// VerifyPermission 依次检查管理员会话、会话 Cookie、明文密码，任一通过即返回 true
// 返回的 error 只可能是项目不存在或存储层错误
func (a *Authorizer) VerifyPermission(ctx context.Context, projectID uint, cred Credentials) (bool, error) {
	if cred.Admin {
		return true, nil
	}
	if cred.Session != "" {
		if password, ok := a.cipher.Decrypt(cred.Session); ok {
			matched, err := a.VerifyPassword(ctx, projectID, password)
			if err != nil {
				return false, err
			}
			if matched {
				return true, nil
			}
		} else {
			a.log.Warn("会话 Cookie 无法解密", "project_id", projectID)
		}
	}
	if cred.Password != "" {
		return a.VerifyPassword(ctx, projectID, cred.Password)
	}
	return false, nil
}

// IssueSessionCredential 加密明文密码（而不是哈希），密码轮换后旧 Cookie 自然失效
func (a *Authorizer) IssueSessionCredential(projectID uint, plaintext string) (*SessionCookie, error) {
	token, err := a.cipher.Encrypt(plaintext)
	if err != nil {
		return nil, err
	}
	return a.cookie(projectID, token, int(SessionMaxAge/time.Second)), nil
}

// RevokeSessionCredential 返回一个立即过期的同名 Cookie
func (a *Authorizer) RevokeSessionCredential(projectID uint) *SessionCookie {
	return a.cookie(projectID, "", -1)
}

func (a *Authorizer) cookie(projectID uint, value string, maxAge int) *SessionCookie {
	return &SessionCookie{
		Name:     CookieName(projectID),
		Value:    value,
		MaxAge:   maxAge,
		Path:     "/",
		Secure:   a.secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}
