package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const defaultDSN = "host=localhost user=postgres password=postgres dbname=bakim port=5432 sslmode=disable"

type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	CORSOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:5173"`

	DatabaseDriver    string `env:"DB_DRIVER" envDefault:"postgres"` // postgres | mysql | sqlite
	DatabaseDSN       string `env:"DATABASE_DSN" envDefault:"host=localhost user=postgres password=postgres dbname=bakim port=5432 sslmode=disable"`
	AutoMigrate       bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`
	DBConnectAttempts uint   `env:"DB_CONNECT_ATTEMPTS" envDefault:"5"`

	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"` // json | text
	LogFile   string `env:"LOG_FILE"`                     // boşsa sadece stdout

	RedisAddr    string `env:"REDIS_ADDR"` // boşsa karar olayları yayınlanmaz
	RedisChannel string `env:"REDIS_CHANNEL" envDefault:"bakim:approvals"`

	// Onay kolonu sonradan eklenen tablolar için açık kapama anahtarları.
	// Açık olsa bile kolon veritabanında yoksa tür atlanır.
	BagTVApprovalEnabled   bool `env:"BAGTV_APPROVAL_ENABLED" envDefault:"true"`
	MessageApprovalEnabled bool `env:"MESSAGE_APPROVAL_ENABLED" envDefault:"true"`
}

// Load .env dosyasını (varsa) okur, ardından ortam değişkenlerini Config'e işler.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf(".env okunamadı: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("konfigürasyon okunamadı: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.DatabaseDSN == defaultDSN {
		log.Println("[WARN] DATABASE_DSN varsayılan değer kullanılıyor, production için mutlaka kendi bağlantı bilgisini tanımla.")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS varsayılan değer kullanılıyor, production için mutlaka kendi domain'ini tanımla.")
	}

	return &cfg, nil
}

// Validate production güvenlik kontrollerini yapar.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET environment değişkeni tanımlanmamış")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET en az 32 karakter olmalıdır")
	}

	switch strings.ToLower(c.DatabaseDriver) {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("desteklenmeyen DB_DRIVER: %q", c.DatabaseDriver)
	}

	if c.DBConnectAttempts == 0 {
		c.DBConnectAttempts = 1
	}
	return nil
}

// AllowedOrigins virgülle ayrılmış CORS listesini temizleyip döner.
func (c *Config) AllowedOrigins() string {
	origins := strings.Split(c.CORSOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return strings.Join(origins, ",")
}
