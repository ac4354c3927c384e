package middleware

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Cors 会话 Cookie 需要携带凭证，来源必须显式列出
// allowOrigins 为空时不允许跨域，含 "*" 时回显任意来源
func Cors(allowOrigins []string) gin.HandlerFunc {
	allowAll := slices.Contains(allowOrigins, "*")
	return cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowAll || slices.Contains(allowOrigins, origin)
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", PasswordHeader, "X-Applicant-Password"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
