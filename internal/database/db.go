package database

import (
	"context"
	"fmt"
	"strings"

	"bakim-takip-backend/internal/config"
	"bakim-takip-backend/internal/models"

	"github.com/avast/retry-go/v5"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Models AutoMigrate edilen tüm tablolar.
var Models = []any{
	&models.Facility{},
	&models.User{},
	&models.ControlItem{},
	&models.YBSWorkItem{},
	&models.BagTVControl{},
	&models.Message{},
	&models.AuditLog{},
}

// Init bağlantıyı kurar (geçici hatalarda tekrar dener) ve gerekirse
// migration çalıştırır.
func Init(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*gorm.DB, error) {
	attempt := 0
	r := retry.New(
		retry.Context(ctx),
		retry.Attempts(cfg.DBConnectAttempts),
		retry.DelayType(retry.BackOffDelay),
	)

	var db *gorm.DB
	err := r.Do(func() error {
		attempt++
		var openErr error
		db, openErr = Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
		if openErr != nil {
			log.WithError(openErr).WithField("attempt", attempt).Warn("Veritabanına bağlanılamadı, tekrar denenecek")
		}
		return openErr
	})
	if err != nil {
		return nil, fmt.Errorf("veritabanına bağlanılamadı: %w", err)
	}

	if cfg.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		log.Info("Veritabanı migration tamamlandı")
	}

	log.WithField("driver", cfg.DatabaseDriver).Info("Veritabanı bağlantısı başarılı")
	return db, nil
}

// Open sürücüye göre gorm bağlantısını açar ve bağlantıyı doğrular.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(driver) {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("desteklenmeyen veritabanı sürücüsü: %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if strings.ToLower(driver) == "sqlite" {
		// sqlite tek yazıcı ile çalışır; bellek içi veritabanı bağlantılar
		// arasında paylaşılmaz.
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("AutoMigrate hatası: %w", err)
	}
	return nil
}
