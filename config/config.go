package config

type Mode string

const (
	ModeDebug   Mode = "debug"
	ModeRelease Mode = "release"
)

type Config struct {
	Host     string   `envconfig:"HOST" mapstructure:"host"`
	Port     string   `envconfig:"PORT" mapstructure:"port"`
	Prefix   string   `envconfig:"PREFIX" mapstructure:"prefix"`
	Mode     Mode     `envconfig:"MODE" mapstructure:"mode"`
	Database Database `mapstructure:"database"`
	Redis    Redis    `mapstructure:"redis"`
	JWT      JWT      `mapstructure:"jwt"`
	Auth     Auth     `mapstructure:"auth"`
	Mail     Mail     `mapstructure:"mail"`
	S3       S3       `mapstructure:"s3"`
	Log      Log      `mapstructure:"log"`
	Sentry   Sentry   `mapstructure:"sentry"`
	Cors     Cors     `mapstructure:"cors"`
}

type DBDriver string

const (
	DriverMysql    DBDriver = "mysql"
	DriverPostgres DBDriver = "postgres"
)

type Database struct {
	Driver       DBDriver `envconfig:"DRIVER" mapstructure:"driver"`
	Host         string   `envconfig:"HOST" mapstructure:"host"`
	Port         string   `envconfig:"PORT" mapstructure:"port"`
	Username     string   `envconfig:"USERNAME" mapstructure:"username"`
	Password     string   `envconfig:"PASSWORD" mapstructure:"password"`
	DBName       string   `envconfig:"DB_NAME" mapstructure:"db_name"`
	MaxOpenConns int      `envconfig:"MAX_OPEN_CONNS" mapstructure:"max_open_conns"`
}

// Redis 为空 Host 时不启用限流与浏览去重
type Redis struct {
	Host     string `envconfig:"HOST" mapstructure:"host"`
	Port     string `envconfig:"PORT" mapstructure:"port"`
	Password string `envconfig:"PASSWORD" mapstructure:"password"`
	DB       int    `envconfig:"DB" mapstructure:"db"`
}

// JWT 平台管理员会话
type JWT struct {
	AccessSecret string `envconfig:"ACCESS_SECRET" mapstructure:"access_secret"`
	AccessExpire int64  `envconfig:"ACCESS_EXPIRE" mapstructure:"access_expire"` // 秒
}

type Auth struct {
	EncryptionKey       string `envconfig:"ENCRYPTION_KEY" mapstructure:"encryption_key"` // 32 字节的 hex 编码
	AdminRoleID         int    `envconfig:"ADMIN_ROLE_ID" mapstructure:"admin_role_id"`
	VerifyAttempts      int    `envconfig:"VERIFY_ATTEMPTS" mapstructure:"verify_attempts"`
	VerifyWindowSeconds int    `envconfig:"VERIFY_WINDOW_SECONDS" mapstructure:"verify_window_seconds"`
}

type Mail struct {
	Endpoint string `envconfig:"ENDPOINT" mapstructure:"endpoint"` // 邮件服务 HTTP 接口，为空时只记日志
	APIKey   string `envconfig:"API_KEY" mapstructure:"api_key"`
	From     string `envconfig:"FROM" mapstructure:"from"`
	SiteURL  string `envconfig:"SITE_URL" mapstructure:"site_url"`
}

type S3 struct {
	Endpoint        string `envconfig:"ENDPOINT" mapstructure:"endpoint"`
	BaseURL         string `envconfig:"BASE_URL" mapstructure:"base_url"`
	Bucket          string `envconfig:"BUCKET" mapstructure:"bucket"`
	Region          string `envconfig:"REGION" mapstructure:"region"`
	AccessKey       string `envconfig:"ACCESS_KEY" mapstructure:"access_key"`
	SecretAccessKey string `envconfig:"SECRET_KEY" mapstructure:"secret_key"`
	Prefix          string `envconfig:"PREFIX" mapstructure:"prefix"`
	UsePathStyle    bool   `envconfig:"PATH_STYLE" mapstructure:"path_style"`
}

type Log struct {
	FilePath   string `envconfig:"LOG_FILE_PATH" mapstructure:"file_path"`     // 日志文件路径
	Level      string `envconfig:"LOG_LEVEL" mapstructure:"level"`             // 日志级别：debug, info, warn, error
	MaxSize    int    `envconfig:"LOG_MAX_SIZE" mapstructure:"max_size"`       // 日志文件最大大小（MB）
	MaxBackups int    `envconfig:"LOG_MAX_BACKUPS" mapstructure:"max_backups"` // 保留的旧日志文件数
	MaxAge     int    `envconfig:"LOG_MAX_AGE" mapstructure:"max_age"`         // 日志文件保留天数
	Compress   bool   `envconfig:"LOG_COMPRESS" mapstructure:"compress"`       // 是否压缩旧日志文件
}

type Sentry struct {
	Dsn         string        `envconfig:"DSN" mapstructure:"dsn"`
	Environment string        `envconfig:"ENVIRONMENT" mapstructure:"environment"`
	SampleRate  float64       `envconfig:"SAMPLE_RATE" mapstructure:"sample_rate"`
	Tracing     SentryTracing `mapstructure:"tracing"`
}

type SentryTracing struct {
	DBSlowThresholdMs    int  `envconfig:"DB_SLOW_THRESHOLD_MS" mapstructure:"db_slow_threshold_ms"`
	RedisSlowThresholdMs int  `envconfig:"REDIS_SLOW_THRESHOLD_MS" mapstructure:"redis_slow_threshold_ms"`
	TraceHTTPCalls       bool `envconfig:"TRACE_HTTP_CALLS" mapstructure:"trace_http_calls"`
}

type Cors struct {
	AllowOrigins []string `envconfig:"ALLOW_ORIGINS" mapstructure:"allow_origins"`
}
