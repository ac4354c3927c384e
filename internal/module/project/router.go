package project

import (
	"team-recruit/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

func (p *ModuleProject) InitRouter(r *gin.RouterGroup) {
	projectGroup := r.Group("/projects")

	projectGroup.POST("", p.CreateProject)
	projectGroup.GET("", p.ListProjects)
	projectGroup.GET("/:id", p.GetProject)
	projectGroup.POST("/:id/verify", p.VerifyProject)
	projectGroup.POST("/:id/logout", p.Logout)

	owner := projectGroup.Group("/:id", middleware.RequireProjectPermission(p.Authorizer))
	{
		owner.PUT("", p.UpdateProject)
		owner.DELETE("", p.DeleteProject)
		owner.POST("/attachments/presign", p.PresignAttachment)
		owner.POST("/attachments", p.UploadAttachment)
	}
}
