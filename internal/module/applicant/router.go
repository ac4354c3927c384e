package applicant

import (
	"team-recruit/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

func (m *ModuleApplicant) InitRouter(r *gin.RouterGroup) {
	projectGroup := r.Group("/projects/:id")

	// 公开
	projectGroup.POST("/apply", m.Apply)
	projectGroup.GET("/applicants", m.ListApplicants)

	// 申请人凭自己的密码操作
	projectGroup.PUT("/applicants/:aid", m.UpdateSelf)
	projectGroup.DELETE("/applicants/:aid", m.DeleteSelf)

	owner := projectGroup.Group("", middleware.RequireProjectPermission(m.Authorizer))
	{
		owner.GET("/applicants/export", m.ExportApplicants)
		owner.POST("/applicants/:aid/accept", m.Accept)
		owner.POST("/applicants/:aid/reject", m.Reject)
		owner.POST("/applicants/:aid/pending", m.Pending)
	}
}
