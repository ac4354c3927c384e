package project

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

// viewWindow 同一 IP 在窗口内重复访问只计一次
const viewWindow = time.Hour

// countView 返回本次访问是否计入浏览量，计数失败不影响详情返回
func (p *ModuleProject) countView(c *gin.Context, projectID uint) bool {
	ctx := c.Request.Context()
	if p.Redis != nil {
		key := fmt.Sprintf("recruit:view:%d:%s", projectID, c.ClientIP())
		fresh, err := p.Redis.SetNX(ctx, key, 1, viewWindow).Result()
		if err != nil {
			log.Warn("浏览量去重失败", "error", err, "project_id", projectID)
		} else if !fresh {
			return false
		}
	}
	if err := p.Repos.Projects.IncrementViews(ctx, projectID); err != nil {
		log.Warn("增加浏览量失败", "error", err, "project_id", projectID)
		return false
	}
	return true
}
