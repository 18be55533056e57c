package db

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"liyu1981.xyz/device-health-service/pkg/common"
	"liyu1981.xyz/device-health-service/pkg/models"
)

const (
	TypeFile     = "file"
	TypeMemory   = "memory"
	TypePostgres = "postgres"

	DefaultSqlitePath = "device-health.db"
)

type DB struct {
	Conn *gorm.DB
}

type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

var (
	instance *DB
	once     sync.Once
)

// GetInstance opens the process wide connection on first use. Later calls
// ignore the dialector and return the same instance.
func GetInstance(dialector gorm.Dialector) *DB {
	once.Do(func() {
		var err error
		instance, err = Open(dialector)
		if err != nil {
			log.Fatal("Failed to open database: ", err)
		}
	})
	return instance
}

// Open connects and migrates a standalone instance, bypassing the singleton.
func Open(dialector gorm.Dialector) (*DB, error) {
	logger := common.GetLogger()

	conn, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	logger.Info("Connected to database with dialector:", zap.String("dialector", dialector.Name()))

	db := &DB{Conn: conn}
	if err := db.Migrate(); err != nil {
		return nil, err
	}

	if dialector.Name() == "sqlite" {
		if err := conn.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("enable sqlite foreign key support: %w", err)
		}
		if err := conn.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
			return nil, fmt.Errorf("set sqlite journal mode: %w", err)
		}
	}

	return db, nil
}

func (d *DB) Migrate() error {
	if err := d.Conn.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	common.GetLogger().Info("Database migration completed")
	return nil
}

func (d *DB) SetPool(opts PoolOptions) error {
	sqlDB, err := d.Conn.DB()
	if err != nil {
		return err
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	return nil
}

func (d *DB) Close() error {
	sqlDB, err := d.Conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// UseDialector picks the dialector for a configured database type.
func UseDialector(dbType, path, dsn string) (gorm.Dialector, error) {
	switch dbType {
	case TypeFile:
		if path != "" {
			return sqlite.Open(path), nil
		}
		return UseSqliteDialector(), nil
	case TypeMemory:
		return UseMemorySqliteDialector(), nil
	case TypePostgres:
		if dsn == "" {
			return nil, fmt.Errorf("database dsn is required for %s", TypePostgres)
		}
		return UsePostgresDialector(dsn), nil
	}
	return nil, fmt.Errorf("unknown database type: %q", dbType)
}

func UseSqliteDialector() gorm.Dialector {
	var dbPath string
	var found bool
	if dbPath, found = os.LookupEnv(common.EnvPrefix + "_DATABASE_PATH"); !found {
		dbPath = DefaultSqlitePath
	}
	return sqlite.Open(dbPath)
}

func UseMemorySqliteDialector() gorm.Dialector {
	return sqlite.Open("file::memory:?cache=shared")
}

// UseIsolatedMemorySqliteDialector gives a private in-memory database, handy
// when a test needs callbacks or failures that must not leak into the shared one.
func UseIsolatedMemorySqliteDialector() gorm.Dialector {
	return sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
}

func UsePostgresDialector(dsn string) gorm.Dialector {
	return postgres.Open(dsn)
}
