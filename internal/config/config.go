package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DatabaseURL      string // あれば最優先
	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）
	PostgresSSLMode  string

	JWTSecret    string        // セッショントークン署名シークレット
	CookieSecure bool          // cookieのSecure属性
	SessionTTL   time.Duration // セッションのアイドル時間（30分）

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers []string
	KafkaTopic   string // 注文受付の通知先（processingorders）
	KafkaGroupID string // notifierのconsumer group

	BlobDir string // 画像/アップロードファイルの保存先

	// セルフチェックアウトでも通知を送るか（既定はfalse）
	NotifyOnCheckout bool

	// 起動時に用意する管理者アカウント（空なら作らない）
	AdminUsername string
	AdminPassword string

	GoEnv    string // dev/prod
	LogLevel string
}

// Loadは環境変数
func Load() (Config, error) {
	pgPort, err := atoiDefault("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	redisDB, err := atoiDefault("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}
	ttlMin, err := atoiDefault("SESSION_TTL_MINUTES", 30)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: getenv("PORT", "8080"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       getenv("POSTGRES_DB", "storefront"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		JWTSecret:    os.Getenv("JWT_SECRET"),
		CookieSecure: envBool("COOKIE_SECURE", true),
		SessionTTL:   time.Duration(ttlMin) * time.Minute,

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		KafkaBrokers: splitList(getenv("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   getenv("KAFKA_TOPIC", "processingorders"),
		KafkaGroupID: getenv("KAFKA_GROUP_ID", "storefront-notifier"),

		BlobDir: getenv("BLOB_DIR", "./data/blobs"),

		NotifyOnCheckout: envBool("NOTIFY_ON_CHECKOUT", false),

		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		GoEnv:    getenv("GO_ENV", "dev"),
		LogLevel: getenv("LOG_LEVEL", "info"),
	}

	//必須チェック
	if cfg.DatabaseURL == "" && cfg.PostgresPassword == "" {
		return Config{}, fmt.Errorf("DATABASE_URL or POSTGRES_PASSWORD is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if len(cfg.KafkaBrokers) == 0 {
		return Config{}, fmt.Errorf("KAFKA_BROKERS is required")
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL_MINUTES must be positive")
	}
	if (cfg.AdminUsername == "") != (cfg.AdminPassword == "") {
		return Config{}, fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}

	return cfg, nil
}

// postgresの接続文字列
func (c Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

func (c Config) IsDev() bool {
	return c.GoEnv == "dev"
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiDefault(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "TRUE", "True":
		return true
	case "0", "false", "FALSE", "False":
		return false
	default:
		return def
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
