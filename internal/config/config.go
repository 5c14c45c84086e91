package config

import (
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"wake-on-lan-web"`

	Server  ServerConfig
	DB      DBConfig
	Redis   RedisConfig
	Minio   MinioConfig
	Auth    AuthConfig
	Email   EmailConfig
	Jaeger  JaegerConfig
	Monitor MonitorConfig
	Wol     WolConfig
	Agent   AgentConfig
}

type ServerConfig struct {
	Mode   string `env:"SERVER_MODE"   envDefault:"dev"`
	Port   int    `env:"SERVER_PORT"   envDefault:"8080"`
	Scheme string `env:"SERVER_SCHEME" envDefault:"http"`
	Domain string `env:"SERVER_DOMAIN" envDefault:"localhost"`
}

type DBConfig struct {
	Host     string `env:"DB_HOST"     envDefault:"localhost"`
	Port     int    `env:"DB_PORT"     envDefault:"5432"`
	User     string `env:"DB_USER"     envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
	Database string `env:"DB_DATABASE" envDefault:"wol"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Pass string `env:"REDIS_PASS" envDefault:""`
}

type MinioConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT"   envDefault:"localhost:9000"`
	AccessKey string `env:"MINIO_ACCESS_KEY" envDefault:"minioadmin"`
	SecretKey string `env:"MINIO_SECRET_KEY" envDefault:"minioadmin"`
	Bucket    string `env:"MINIO_BUCKET"     envDefault:"device-icons"`
	UseSSL    bool   `env:"MINIO_SSL"        envDefault:"false"`
}

type AuthConfig struct {
	Secret string `env:"AUTH_SECRET,required"`
	Issuer string `env:"AUTH_ISSUER" envDefault:"wake-on-lan-web"`
}

type EmailConfig struct {
	Enabled bool   `env:"EMAIL_ENABLED" envDefault:"false"`
	Server  string `env:"EMAIL_SERVER"  envDefault:""`
	Port    int    `env:"EMAIL_PORT"    envDefault:"587"`
	User    string `env:"EMAIL_USER"    envDefault:""`
	Pass    string `env:"EMAIL_PASS"    envDefault:""`
	Admin   string `env:"EMAIL_ADMIN"   envDefault:""`
}

type JaegerConfig struct {
	Sampler struct {
		Type  string `env:"JAEGER_SAMPLER_TYPE"  envDefault:"const"`
		Param int    `env:"JAEGER_SAMPLER_PARAM" envDefault:"1"`
	}
	Reporter struct {
		LogSpans           bool   `env:"JAEGER_REPORTER_LOG_SPANS" envDefault:"false"`
		LocalAgentHostPort string `env:"JAEGER_AGENT_HOST_PORT"    envDefault:"localhost:6831"`
	}
}

type MonitorConfig struct {
	Interval     time.Duration `env:"MONITOR_INTERVAL"      envDefault:"60s"`
	ProbeTimeout time.Duration `env:"MONITOR_PROBE_TIMEOUT" envDefault:"3s"`
	Concurrency  int           `env:"MONITOR_CONCURRENCY"   envDefault:"16"`
}

type WolConfig struct {
	Port int `env:"WOL_PORT" envDefault:"9"`
}

type AgentConfig struct {
	Port    int           `env:"AGENT_PORT"    envDefault:"3001"`
	Secret  string        `env:"AGENT_SECRET"  envDefault:""`
	Timeout time.Duration `env:"AGENT_TIMEOUT" envDefault:"5s"`
}

func MustLoad() Config {
	if err := godotenv.Load(); err != nil {
		zap.L().Info("No .env file found, relying on environment")
	}

	conf := Config{}
	if err := env.Parse(&conf); err != nil {
		zap.L().Fatal("failed to parse config", zap.Error(err))
	}

	return conf
}
