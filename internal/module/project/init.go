package project

import (
	"log/slog"

	"team-recruit/internal/admission"
	"team-recruit/internal/auth"
	"team-recruit/internal/global/logger"
	"team-recruit/internal/global/storage"
	"team-recruit/internal/repository"

	"github.com/redis/go-redis/v9"
)

var log *slog.Logger

type ModuleProject struct {
	Repos      *repository.Repositories
	Authorizer *auth.Authorizer
	Limiter    *auth.AttemptLimiter // 为 nil 时不限制验证次数
	Admission  *admission.Controller
	Storage    *storage.Storage // 为 nil 时附件接口返回 404
	Redis      *redis.Client    // 为 nil 时浏览量不去重
}

func (p *ModuleProject) GetName() string {
	return "Project"
}

func (p *ModuleProject) Init() {
	log = logger.New("Project")
}
