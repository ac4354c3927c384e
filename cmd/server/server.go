package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"team-recruit/config"
	"team-recruit/internal/admission"
	"team-recruit/internal/auth"
	"team-recruit/internal/global/database"
	"team-recruit/internal/global/httpclient"
	"team-recruit/internal/global/logger"
	"team-recruit/internal/global/metrics"
	"team-recruit/internal/global/middleware"
	"team-recruit/internal/global/redis"
	"team-recruit/internal/global/sentry"
	"team-recruit/internal/global/storage"
	"team-recruit/internal/module"
	"team-recruit/internal/notify"
	"team-recruit/internal/repository"
	"team-recruit/tools"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

var (
	log        *slog.Logger
	modules    []module.Module
	dispatcher *notify.Dispatcher
)

func Init() {
	config.Init()
	cfg := config.Get()
	log = logger.New("Server")

	if err := sentry.Init(); err != nil {
		log.Error("Sentry 初始化失败", "error", err)
	}

	// 密钥缺失或格式错误时无法签发会话，直接退出
	cipher, err := auth.NewCipher(cfg.Auth.EncryptionKey)
	tools.PanicOnErr(err)

	db, err := database.Open(cfg)
	tools.PanicOnErr(err)

	ctx := context.Background()
	rdb, err := redis.Open(ctx, cfg.Redis)
	tools.PanicOnErr(err)
	if rdb == nil {
		log.Warn("未配置 Redis，密码尝试次数不受限制")
	}

	store, err := storage.New(ctx, cfg.S3)
	tools.PanicOnErr(err)
	if store == nil {
		log.Info("未配置对象存储，附件上传已关闭")
	}

	repos := repository.New(db)
	dispatcher = notify.NewDispatcher(httpclient.New(), cfg.Mail, logger.New("Notify"))
	deps := &module.Dependencies{
		DB:    db,
		Redis: rdb,
		Repos: repos,
		Authorizer: auth.NewAuthorizer(repos.Projects, cipher,
			auth.WithSecureCookie(cfg.Mode == config.ModeRelease),
			auth.WithLogger(logger.New("Auth")),
		),
		Limiter: auth.NewAttemptLimiter(rdb, cfg.Auth.VerifyAttempts,
			time.Duration(cfg.Auth.VerifyWindowSeconds)*time.Second),
		Admission: admission.NewController(repos, dispatcher,
			admission.WithLogger(logger.New("Admission")),
		),
		Storage: store,
	}

	modules = module.Build(deps)
	for _, m := range modules {
		log.Info(fmt.Sprintf("Init Module: %s", m.GetName()))
		m.Init()
	}
}

// NewEngine 组装中间件与路由
func NewEngine(cfg *config.Config, modules []module.Module) *gin.Engine {
	if log == nil {
		log = logger.New("Server")
	}
	gin.SetMode(string(cfg.Mode))
	r := gin.New()

	r.Use(sentry.Middleware(), middleware.SentryEnrichIP())
	switch cfg.Mode {
	case config.ModeRelease:
		r.Use(middleware.Logger(logger.Get()))
	default:
		r.Use(gin.Logger())
	}
	r.Use(middleware.Recovery())
	r.Use(middleware.Cors(cfg.Cors.AllowOrigins))
	r.Use(metrics.Middleware())
	r.Use(middleware.Session(cfg.Auth.AdminRoleID))

	r.GET("/metrics", metrics.Handler())

	group := r.Group("/" + cfg.Prefix)
	for _, m := range modules {
		log.Info(fmt.Sprintf("Init Router: %s", m.GetName()))
		m.InitRouter(group)
	}
	return r
}

func Run() {
	cfg := config.Get()
	srv := &http.Server{
		Addr:              cfg.Host + ":" + cfg.Port,
		Handler:           NewEngine(cfg, modules),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("服务启动", "addr", srv.Addr, "mode", cfg.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			tools.PanicOnErr(err)
		}
	}()

	<-ctx.Done()
	log.Info("正在关闭服务")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("关闭服务失败", "error", err)
	}
	dispatcher.Wait()
	sentry.Flush(2 * time.Second)
}
