package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	Store     StoreConfig
	DB        DatabaseConfig
	Redis     RedisConfig
	Upload    UploadConfig
	Analytics AnalyticsConfig
	Orders    OrdersConfig
}

// StoreConfig selects the record store backend.
type StoreConfig struct {
	Driver         string
	Dir            string
	Strict         bool
	ProductsFormat string
	ProductsDir    string
}

type DatabaseConfig struct {
	Type            string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	SSLMode         string
	Path            string
	MaxIdleConn     int
	MaxOpenConn     int
	ConnMaxLifetime int
}

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

type UploadConfig struct {
	Driver     string
	Dir        string
	PolicyPath string
	S3         S3Config
}

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	PathStyle bool
}

type AnalyticsConfig struct {
	Timezone string
}

type OrdersConfig struct {
	StrictTransitions bool
}

const (
	StoreDriverFile     = "file"
	StoreDriverMemory   = "memory"
	StoreDriverDatabase = "database"
	StoreDriverRedis    = "redis"

	ProductsFormatJSON     = "json"
	ProductsFormatMarkdown = "markdown"
)

var Module = fx.Module("config",
	fx.Provide(Load),
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	storeDir := getenv("STORE_DIR", "./data")

	return Config{
		AppName:     getenv("APP_SERVICE", "farmstand"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		Store: StoreConfig{
			Driver:         normalizeStoreDriver(getenv("STORE_DRIVER", StoreDriverFile)),
			Dir:            storeDir,
			Strict:         getenvBool("STORE_STRICT", false),
			ProductsFormat: normalizeProductsFormat(getenv("PRODUCTS_FORMAT", ProductsFormatJSON)),
			ProductsDir:    getenv("PRODUCTS_DIR", storeDir+"/products"),
		},
		DB: DatabaseConfig{
			Type:            getenv("DATABASE_TYPE", "sqlite"),
			Host:            getenv("DATABASE_HOST", "localhost"),
			Port:            getenv("DATABASE_PORT", "5432"),
			Name:            getenv("DATABASE_NAME", "farmstand"),
			User:            getenv("DATABASE_USER", "postgres"),
			Password:        getenv("DATABASE_PASSWORD", ""),
			SSLMode:         getenv("DATABASE_SSLMODE", "disable"),
			Path:            getenv("DATABASE_PATH", storeDir+"/farmstand.db"),
			MaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 2),
			MaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 10),
			ConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		},
		Redis: RedisConfig{
			Addr:      getenv("REDIS_ADDR", "localhost:6379"),
			Password:  getenv("REDIS_PASSWORD", ""),
			DB:        getenvInt("REDIS_DB", 0),
			KeyPrefix: getenv("REDIS_KEY_PREFIX", "farmstand"),
		},
		Upload: UploadConfig{
			Driver:     strings.ToLower(getenv("UPLOAD_DRIVER", "fs")),
			Dir:        getenv("UPLOAD_DIR", "./public/uploads"),
			PolicyPath: getenv("UPLOAD_POLICY_PATH", ""),
			S3: S3Config{
				Bucket:    strings.TrimSpace(getenv("UPLOAD_S3_BUCKET", "")),
				Region:    getenv("UPLOAD_S3_REGION", "us-east-1"),
				Endpoint:  strings.TrimSpace(getenv("UPLOAD_S3_ENDPOINT", "")),
				PathStyle: getenvBool("UPLOAD_S3_PATH_STYLE", false),
			},
		},
		Analytics: AnalyticsConfig{
			Timezone: getenv("ANALYTICS_TIMEZONE", "Local"),
		},
		Orders: OrdersConfig{
			StrictTransitions: getenvBool("ORDER_STRICT_TRANSITIONS", false),
		},
	}
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func normalizeStoreDriver(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case StoreDriverMemory, StoreDriverDatabase, StoreDriverRedis:
		return value
	case "db", "sql":
		return StoreDriverDatabase
	default:
		return StoreDriverFile
	}
}

func normalizeProductsFormat(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case ProductsFormatMarkdown, "md":
		return ProductsFormatMarkdown
	default:
		return ProductsFormatJSON
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}
