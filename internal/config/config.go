package config

import (
	"fmt"
	"strings"
	"time"

	"family-planner/pkg/logger"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort          string
	Env               string
	AppOrigin         string
	CORSOrigins       []string
	// TrustProxyHeaders takes the client IP from X-Forwarded-For and
	// X-Real-IP. Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool
	DB                DBConfig
	Supabase          SupabaseConfig
	Redis             RedisConfig
	Invites           InvitesConfig
	Mail              MailConfig
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type SupabaseConfig struct {
	URL            string
	PublishableKey string
	JWTSecret      string
	AuthTimeout    time.Duration
	SkipAuth       bool
	MockUserID     string
	MockUserEmail  string
	MockUserName   string
	MockUserAvatar string
}

type RedisConfig struct {
	Enabled        bool
	Addr           string
	Password       string
	DB             int
	KeyPrefix      string
	MembershipTTL  time.Duration
	ConnectTimeout time.Duration
}

type InvitesConfig struct {
	DefaultTTLDays int
	AcceptRate     float64
	AcceptBurst    int
}

type MailConfig struct {
	Transport    string
	From         string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	Retries      int
	RetryBase    time.Duration
}

func Load(log logger.Logger) (Config, error) {
	if err := loadDotEnv(log); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return Config{
		HTTPPort:          v.GetString("HTTP_PORT"),
		Env:               v.GetString("ENV"),
		AppOrigin:         strings.TrimRight(v.GetString("APP_ORIGIN"), "/"),
		CORSOrigins:       splitList(v.GetString("CORS_ORIGINS")),
		TrustProxyHeaders: v.GetBool("TRUST_PROXY_HEADERS"),
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetString("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			TimeZone:        v.GetString("DB_TIMEZONE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			AutoMigrate:     v.GetBool("DB_AUTO_MIGRATE"),
		},
		Supabase: SupabaseConfig{
			URL:            v.GetString("SUPABASE_URL"),
			PublishableKey: firstNonEmpty(v.GetString("SUPABASE_PUBLISHABLE_KEY"), v.GetString("VITE_SUPABASE_PUBLISHABLE_KEY")),
			JWTSecret:      v.GetString("SUPABASE_JWT_SECRET"),
			AuthTimeout:    v.GetDuration("SUPABASE_AUTH_TIMEOUT"),
			SkipAuth:       v.GetBool("AUTH_SKIP"),
			MockUserID:     v.GetString("AUTH_MOCK_USER_ID"),
			MockUserEmail:  v.GetString("AUTH_MOCK_USER_EMAIL"),
			MockUserName:   v.GetString("AUTH_MOCK_USER_NAME"),
			MockUserAvatar: v.GetString("AUTH_MOCK_USER_AVATAR_URL"),
		},
		Redis: RedisConfig{
			Enabled:        v.GetBool("REDIS_ENABLED"),
			Addr:           v.GetString("REDIS_ADDR"),
			Password:       v.GetString("REDIS_PASSWORD"),
			DB:             v.GetInt("REDIS_DB"),
			KeyPrefix:      v.GetString("REDIS_KEY_PREFIX"),
			MembershipTTL:  v.GetDuration("MEMBERSHIP_CACHE_TTL"),
			ConnectTimeout: v.GetDuration("REDIS_CONNECT_TIMEOUT"),
		},
		Invites: InvitesConfig{
			DefaultTTLDays: v.GetInt("INVITE_TTL_DAYS"),
			AcceptRate:     v.GetFloat64("INVITE_ACCEPT_RATE"),
			AcceptBurst:    v.GetInt("INVITE_ACCEPT_BURST"),
		},
		Mail: MailConfig{
			Transport:    strings.ToLower(strings.TrimSpace(v.GetString("MAIL_TRANSPORT"))),
			From:         v.GetString("MAIL_FROM"),
			SMTPHost:     v.GetString("SMTP_HOST"),
			SMTPPort:     v.GetInt("SMTP_PORT"),
			SMTPUser:     v.GetString("SMTP_USER"),
			SMTPPassword: v.GetString("SMTP_PASSWORD"),
			Retries:      v.GetInt("MAIL_RETRIES"),
			RetryBase:    v.GetDuration("MAIL_RETRY_BASE"),
		},
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("APP_ORIGIN", "http://localhost:5173")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("TRUST_PROXY_HEADERS", false)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "family_planner")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute)
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("SUPABASE_AUTH_TIMEOUT", 5*time.Second)
	v.SetDefault("AUTH_SKIP", false)
	v.SetDefault("AUTH_MOCK_USER_ID", "00000000-0000-0000-0000-000000000001")

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_KEY_PREFIX", "family-planner:membership:")
	v.SetDefault("REDIS_CONNECT_TIMEOUT", 5*time.Second)
	v.SetDefault("MEMBERSHIP_CACHE_TTL", time.Minute)

	v.SetDefault("INVITE_TTL_DAYS", 7)
	v.SetDefault("INVITE_ACCEPT_RATE", 1.0)
	v.SetDefault("INVITE_ACCEPT_BURST", 5)

	v.SetDefault("MAIL_TRANSPORT", "log")
	v.SetDefault("MAIL_FROM", "Family Planner <no-reply@family-planner.local>")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("MAIL_RETRIES", 3)
	v.SetDefault("MAIL_RETRY_BASE", time.Second)
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
