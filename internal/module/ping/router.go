package ping

import (
	"team-recruit/internal/global/response"

	"github.com/gin-gonic/gin"
)

const version = "1.0.0"

func (p *ModulePing) InitRouter(r *gin.RouterGroup) {
	r.GET("/ping", p.Ping)
}

// Ping 顺带检查数据库连接
func (p *ModulePing) Ping(c *gin.Context) {
	database := "ok"
	if p.DB != nil {
		sqlDB, err := p.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			log.Error("数据库连接异常", "error", err)
			response.Fail(c, response.ErrDatabase.WithOrigin(err))
			return
		}
	}
	response.Success(c, map[string]any{
		"message":  "pong",
		"version":  version,
		"database": database,
	})
}
