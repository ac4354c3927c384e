package config

import (
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，如 RECRUIT_DATABASE_HOST
const EnvPrefix = "RECRUIT"

var current atomic.Pointer[Config]

// Init 读取配置文件并用环境变量覆盖，失败直接 panic
func Init() {
	cfg, err := Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		panic(err)
	}
	Set(cfg)
}

// Load 按 配置文件 -> 环境变量 的顺序加载配置
// path 为空时在 . 与 ./config 下查找 config.yaml，找不到文件不视为错误
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "读取配置文件失败")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "解析配置文件失败")
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, errors.Wrap(err, "读取环境变量失败")
	}
	cfg.Mode = Mode(strings.ToLower(string(cfg.Mode)))
	if cfg.Mode != ModeRelease {
		cfg.Mode = ModeDebug
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", "8080")
	v.SetDefault("mode", string(ModeDebug))
	v.SetDefault("database.driver", string(DriverMysql))
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("jwt.access_expire", 7*24*3600)
	v.SetDefault("auth.admin_role_id", 2)
	v.SetDefault("auth.verify_attempts", 10)
	v.SetDefault("auth.verify_window_seconds", 600)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age", 30)
}

// Get 返回当前配置，未初始化时返回零值配置
func Get() *Config {
	if cfg := current.Load(); cfg != nil {
		return cfg
	}
	return &Config{Mode: ModeDebug}
}

// Set 替换当前配置，测试中用于注入
func Set(cfg *Config) {
	current.Store(cfg)
}
