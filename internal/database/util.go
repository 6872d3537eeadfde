package database

import (
	"log/slog"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GetDatabase opens dsn. "postgres:" and "mysql:" prefixes select those drivers,
// anything else is a sqlite file name (or ":memory:").
func GetDatabase(dsn string, debug bool) (*gorm.DB, error) {
	conf := &gorm.Config{TranslateError: true}

	if !debug {
		conf.Logger = logger.Default.LogMode(logger.Silent)
	} else {
		conf.Logger = logger.Default.LogMode(logger.Info)
	}

	var db *gorm.DB
	var err error

	switch {
	case strings.HasPrefix(dsn, "postgres:"):
		slog.Info("open postgres database")
		db, err = gorm.Open(postgres.Open(strings.TrimPrefix(dsn, "postgres:")), conf)
	case strings.HasPrefix(dsn, "mysql:"):
		slog.Info("open mysql database")
		db, err = gorm.Open(mysql.Open(strings.TrimPrefix(dsn, "mysql:")), conf)
	default:
		slog.Info("open sqlite database " + dsn)
		db, err = gorm.Open(sqlite.Open(dsn), conf)

		if err == nil {
			err = singleWriter(db)
		}
	}

	if err != nil {
		slog.Error("db open error", slog.Any("error", err))
		return nil, err
	}

	return db, nil
}

// sqlite allows one writer; a single connection also keeps ":memory:" databases shared.
func singleWriter(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	sqlDB.SetMaxOpenConns(1)

	return nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// escapeLike quotes LIKE wildcards in s, for use with ESCAPE '!'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
