package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/dom/media-tracker/internal/domain"
	"github.com/dom/media-tracker/internal/logging"
	"github.com/dom/media-tracker/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:         NewGormLogger(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates the users table, one table per tracked variant and the
// token revocation table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.User{}, &domain.RevokedToken{}); err != nil {
		return err
	}

	for _, v := range domain.AllVariants {
		table := tableFor(v)
		if err := db.Table(table).AutoMigrate(&domain.TrackedItem{}); err != nil {
			return fmt.Errorf("migrate %s: %w", table, err)
		}
		stmt := fmt.Sprintf(
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_%s_owner_catalog ON %s (owner_id, catalog_id)",
			table, table,
		)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("index %s: %w", table, err)
		}
	}

	return nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:         NewUserRepository(db),
		TrackedItem:  NewTrackedItemRepository(db),
		RevokedToken: NewRevokedTokenRepository(db),
	}
}

// NewGormLogger routes gorm's query log through zerolog.
func NewGormLogger(level logger.LogLevel) logger.Interface {
	return logger.New(gormWriter{}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

type gormWriter struct{}

func (gormWriter) Printf(format string, args ...interface{}) {
	logging.Warn().Str("component", "gorm").Msgf(format, args...)
}

// tableFor maps a variant to its table name.
func tableFor(v domain.Variant) string {
	switch v {
	case domain.VariantMovie:
		return "movies"
	case domain.VariantTvShow:
		return "tv_shows"
	case domain.VariantGame:
		return "games"
	}
	return ""
}

// refColumn maps a variant to the users column holding its reference list.
func refColumn(v domain.Variant) string {
	return tableFor(v)
}

// translate maps gorm errors onto repository errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
	}
	return err
}
