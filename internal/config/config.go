// backend-go/internal/config/config.go
package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	Cache    CacheConfig
	Drive    DriveConfig
	Storage  StorageConfig
	Analysis AnalysisConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	LogLevel       string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type AppConfig struct {
	DataDir   string
	ExportDir string
}

type CacheConfig struct {
	Enabled          bool
	RedisURL         string
	RedisHost        string
	RedisPort        string
	RedisPassword    string
	RedisDB          int
	ReportTTLSeconds int
}

type DriveConfig struct {
	CredentialsFile string
	FolderID        string
	ERPStockFile    string
	SMStockFile     string
	TradeLogFile    string
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AnalysisConfig carries every tunable the report computations use.
// Day counts are calendar days, months are calendar months.
type AnalysisConfig struct {
	WindowDays            int
	MonthsEquivalent      int
	MinActiveDaysPerMonth float64
	RefrigeratedKeyword   string
	RefrigeratedAlertDays int
	DefaultAlertDays      int
	AgingMonths           int
	TrendSheetCount       int
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("LOG_LEVEL", "info")
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "inventory_recon")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("APP_DATA_DIR", "./data/workbooks")
		viper.SetDefault("APP_EXPORT_DIR", "./data/exports")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_REPORT_TTL_SECONDS", 300)
		viper.SetDefault("DRIVE_CREDENTIALS_FILE", "service_account.json")
		viper.SetDefault("DRIVE_FOLDER_ID", "")
		viper.SetDefault("DRIVE_ERP_STOCK_FILE", "이카운트 재고.xlsx")
		viper.SetDefault("DRIVE_SM_STOCK_FILE", "SM 재고.xlsx")
		viper.SetDefault("DRIVE_TRADE_LOG_FILE", "매입매출장.xlsx")
		viper.SetDefault("STORAGE_ENDPOINT", "")
		viper.SetDefault("STORAGE_ACCESS_KEY", "")
		viper.SetDefault("STORAGE_SECRET_KEY", "")
		viper.SetDefault("STORAGE_BUCKET", "inventory-workbooks")
		viper.SetDefault("STORAGE_USE_SSL", true)
		viper.SetDefault("ANALYSIS_WINDOW_DAYS", 90)
		viper.SetDefault("ANALYSIS_MONTHS_EQUIVALENT", 3)
		viper.SetDefault("ANALYSIS_MIN_ACTIVE_DAYS_PER_MONTH", 5.0)
		viper.SetDefault("HEALTH_REFRIGERATED_KEYWORD", "냉장")
		viper.SetDefault("HEALTH_REFRIGERATED_ALERT_DAYS", 21)
		viper.SetDefault("HEALTH_DEFAULT_ALERT_DAYS", 90)
		viper.SetDefault("HEALTH_AGING_MONTHS", 3)
		viper.SetDefault("TREND_SHEET_COUNT", 7)

		// Read from environment variables
		viper.AutomaticEnv()

		ensureDir(viper.GetString("APP_DATA_DIR"))
		ensureDir(viper.GetString("APP_EXPORT_DIR"))

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				LogLevel:       viper.GetString("LOG_LEVEL"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			App: AppConfig{
				DataDir:   viper.GetString("APP_DATA_DIR"),
				ExportDir: viper.GetString("APP_EXPORT_DIR"),
			},
			Cache: CacheConfig{
				Enabled:          viper.GetBool("CACHE_ENABLED"),
				RedisURL:         viper.GetString("REDIS_URL"),
				RedisHost:        viper.GetString("REDIS_HOST"),
				RedisPort:        viper.GetString("REDIS_PORT"),
				RedisPassword:    viper.GetString("REDIS_PASSWORD"),
				RedisDB:          viper.GetInt("REDIS_DB"),
				ReportTTLSeconds: viper.GetInt("CACHE_REPORT_TTL_SECONDS"),
			},
			Drive: DriveConfig{
				CredentialsFile: viper.GetString("DRIVE_CREDENTIALS_FILE"),
				FolderID:        viper.GetString("DRIVE_FOLDER_ID"),
				ERPStockFile:    viper.GetString("DRIVE_ERP_STOCK_FILE"),
				SMStockFile:     viper.GetString("DRIVE_SM_STOCK_FILE"),
				TradeLogFile:    viper.GetString("DRIVE_TRADE_LOG_FILE"),
			},
			Storage: StorageConfig{
				Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
				AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
				SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
				Bucket:    viper.GetString("STORAGE_BUCKET"),
				UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
			},
			Analysis: AnalysisConfig{
				WindowDays:            viper.GetInt("ANALYSIS_WINDOW_DAYS"),
				MonthsEquivalent:      viper.GetInt("ANALYSIS_MONTHS_EQUIVALENT"),
				MinActiveDaysPerMonth: viper.GetFloat64("ANALYSIS_MIN_ACTIVE_DAYS_PER_MONTH"),
				RefrigeratedKeyword:   viper.GetString("HEALTH_REFRIGERATED_KEYWORD"),
				RefrigeratedAlertDays: viper.GetInt("HEALTH_REFRIGERATED_ALERT_DAYS"),
				DefaultAlertDays:      viper.GetInt("HEALTH_DEFAULT_ALERT_DAYS"),
				AgingMonths:           viper.GetInt("HEALTH_AGING_MONTHS"),
				TrendSheetCount:       viper.GetInt("TREND_SHEET_COUNT"),
			},
		}
	})

	return instance
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
