package gormstore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/domainkit/domainkit"
)

type DBConfig struct {
	// MaxOpenConns limits the connection pool, no limit if 0.
	MaxOpenConns int

	// PingTimeout bounds the connectivity check done by Open. Defaults to 5s.
	PingTimeout time.Duration

	// Logger receives gorm logs.
	// If not provided, domainkit.NopLogger is used.
	Logger domainkit.LoggerAdapter
}

func (c *DBConfig) setDefaults() {
	if c.PingTimeout == 0 {
		c.PingTimeout = 5 * time.Second
	}
	if c.Logger == nil {
		c.Logger = domainkit.NopLogger{}
	}
}

// Open opens a gorm connection pool and checks connectivity.
func Open(ctx context.Context, dialector gorm.Dialector, config DBConfig) (*gorm.DB, error) {
	config.setDefaults()

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         NewGormLogger(config.Logger),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open %s database", dialector.Name())
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "cannot get sql.DB")
	}
	if config.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	}

	pingCtx, cancel := context.WithTimeout(ctx, config.PingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrapf(err, "cannot ping %s database", dialector.Name())
	}

	config.Logger.Debug("Database opened", domainkit.LogFields{
		"dialect":        dialector.Name(),
		"max_open_conns": config.MaxOpenConns,
	})

	return db, nil
}

// OpenSQLite opens a SQLite database, dsn is passed to the driver as is.
func OpenSQLite(ctx context.Context, dsn string, config DBConfig) (*gorm.DB, error) {
	return Open(ctx, sqlite.Open(dsn), config)
}

// Close closes the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
