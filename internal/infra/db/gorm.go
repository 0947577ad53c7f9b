package db

import (
	"storefront/internal/config"
	"storefront/internal/domain/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
// TranslateErrorを有効にして、一意制約違反をgorm.ErrDuplicatedKeyで受け取る。
func Connect(cfg config.Config) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.IsDev() {
		logLevel = logger.Info
	}

	return gorm.Open(postgres.Open(cfg.PostgresDSN()), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logLevel),
	})
}

// アカウント/監査ログ（リレーショナル）とテーブルストア用のテーブルを作る
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.AuditLog{},
		&model.Product{},
		&model.Customer{},
		&model.Order{},
	)
}
