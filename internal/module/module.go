package module

import (
	"team-recruit/internal/admission"
	"team-recruit/internal/auth"
	"team-recruit/internal/global/storage"
	"team-recruit/internal/module/applicant"
	"team-recruit/internal/module/ping"
	"team-recruit/internal/module/project"
	"team-recruit/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Module interface {
	GetName() string
	Init()
	InitRouter(r *gin.RouterGroup)
}

// Dependencies 进程启动时构造一次，注入各模块
type Dependencies struct {
	DB         *gorm.DB
	Redis      *redis.Client
	Repos      *repository.Repositories
	Authorizer *auth.Authorizer
	Limiter    *auth.AttemptLimiter
	Admission  *admission.Controller
	Storage    *storage.Storage
}

// Build 在这里注册模块
func Build(d *Dependencies) []Module {
	return []Module{
		&ping.ModulePing{DB: d.DB},
		&project.ModuleProject{
			Repos:      d.Repos,
			Authorizer: d.Authorizer,
			Limiter:    d.Limiter,
			Admission:  d.Admission,
			Storage:    d.Storage,
			Redis:      d.Redis,
		},
		&applicant.ModuleApplicant{
			Admission:  d.Admission,
			Authorizer: d.Authorizer,
		},
	}
}
