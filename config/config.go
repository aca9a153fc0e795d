package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// 订阅套餐标识
const (
	PlanFree       = "free"
	PlanPro        = "pro"
	PlanEnterprise = "enterprise"
)

// Unlimited 表示套餐无月度生成上限
const Unlimited = -1

type Config struct {
	Server   ServerConfig          `mapstructure:"server"`
	Database DatabaseConfig        `mapstructure:"database"`
	Redis    RedisConfig           `mapstructure:"redis"`
	Session  SessionConfig         `mapstructure:"session"`
	OpenAI   OpenAIConfig          `mapstructure:"openai"`
	OAuth    OAuthConfig           `mapstructure:"oauth"`
	CORS     CORSConfig            `mapstructure:"cors"`
	Log      LogConfig             `mapstructure:"log"`
	Quota    QuotaConfig           `mapstructure:"quota"`
	Plans    map[string]PlanConfig `mapstructure:"plans"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type SessionConfig struct {
	Secret     string        `mapstructure:"secret"`
	CookieName string        `mapstructure:"cookie_name"`
	MaxAge     time.Duration `mapstructure:"max_age"`
	Secure     bool          `mapstructure:"secure"`
}

type OpenAIConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	// RateLimit 每秒允许的补全请求数，0 表示不限制
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`
}

type OAuthConfig struct {
	Github GithubOAuthConfig `mapstructure:"github"`
}

type GithubOAuthConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURI  string `mapstructure:"redirect_uri"`
}

// Enabled GitHub 登录是否已配置
func (c GithubOAuthConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json, console
}

// QuotaConfig 关闭时套餐额度只用于展示
type QuotaConfig struct {
	Enforce bool `mapstructure:"enforce"`
}

type PlanConfig struct {
	Name            string   `mapstructure:"name"`
	Price           float64  `mapstructure:"price"`
	Features        []string `mapstructure:"features"`
	MonthlyArticles int      `mapstructure:"monthly_articles"` // -1 不限
	MaxLength       int      `mapstructure:"max_length"`
}

// Plan 返回套餐配置，未知套餐按 free 处理
func (c *Config) Plan(name string) PlanConfig {
	if p, ok := c.Plans[name]; ok {
		return p
	}
	return c.Plans[PlanFree]
}

// Validate 检查启动必需的配置项
func (c *Config) Validate() error {
	var errs []error
	if c.OpenAI.APIKey == "" {
		errs = append(errs, errors.New("OPENAI_API_KEY is required"))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	} else if strings.Contains(c.Database.DSN, "://") {
		errs = append(errs, errors.New("DATABASE_URL must be a MySQL DSN (user:pass@tcp(host:port)/db), not a URL"))
	}
	if c.Session.Secret == "" {
		errs = append(errs, errors.New("SESSION_SECRET is required"))
	}
	return errors.Join(errs...)
}

// DefaultPlans 默认套餐
func DefaultPlans() map[string]PlanConfig {
	return map[string]PlanConfig{
		PlanFree: {
			Name:            "Free",
			Price:           0,
			Features:        []string{"5 articles/month", "Basic topic suggestions", "Standard response time"},
			MonthlyArticles: 5,
			MaxLength:       1000,
		},
		PlanPro: {
			Name:            "Pro",
			Price:           29,
			Features:        []string{"50 articles/month", "Advanced topic suggestions", "Priority response time", "Extended article length"},
			MonthlyArticles: 50,
			MaxLength:       2000,
		},
		PlanEnterprise: {
			Name:            "Enterprise",
			Price:           99,
			Features:        []string{"Unlimited articles", "Custom topic suggestions", "Instant response time", "Maximum article length", "Dedicated support"},
			MonthlyArticles: Unlimited,
			MaxLength:       5000,
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 20)

	v.SetDefault("session.cookie_name", "sports_ai_session")
	v.SetDefault("session.max_age", 7*24*time.Hour)
	v.SetDefault("session.secure", false)

	v.SetDefault("openai.model", "gpt-4o")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.timeout", 90*time.Second)
	v.SetDefault("openai.rate_limit", 0)
	v.SetDefault("openai.rate_burst", 1)

	v.SetDefault("oauth.github.client_id", "")
	v.SetDefault("oauth.github.client_secret", "")
	v.SetDefault("oauth.github.redirect_uri", "")

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Content-Type"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("quota.enforce", false)
}

// Load 读取配置文件（可选）并用环境变量覆盖
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// 环境变量覆盖，server.port -> SERVER_PORT
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 必需项同时接受常用的环境变量名
	bindings := map[string][]string{
		"openai.api_key": {"OPENAI_API_KEY"},
		"database.dsn":   {"DATABASE_DSN", "DATABASE_URL"},
		"session.secret": {"SESSION_SECRET"},
		"redis.addr":     {"REDIS_ADDR"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if configPath != "" {
		// 优先读取 config.local.yaml（包含真实密钥，不提交到git）
		localConfigPath := filepath.Join(filepath.Dir(configPath), "config.local.yaml")
		if _, err := os.Stat(localConfigPath); err == nil {
			configPath = localConfigPath
		}

		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", configPath, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if len(cfg.Plans) == 0 {
		cfg.Plans = DefaultPlans()
	}

	return &cfg, nil
}
