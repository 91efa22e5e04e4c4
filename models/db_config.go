package models

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"

	sqliteEncrypt "github.com/Daskott/gorm-sqlite-cipher"
	"github.com/sanfx/clinc-app/shared"
	"github.com/sanfx/clinc-app/utils"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const (
	DB_NAME = "clinic.db"

	SQLITE_DRIVER = "sqlite"
	MYSQL_DRIVER  = "mysql"
)

// Store is the database handle shared by the repositories. It is opened once at
// startup and closed at shutdown.
type Store struct {
	db   *gorm.DB
	logg *zap.SugaredLogger
}

func OpenStore(config shared.DatabaseConfig, logg *zap.SugaredLogger) (*Store, error) {
	dialector, err := newDialector(config)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				LogLevel:                  gormLogLevel(config.LogLevel),
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %v", err)
	}

	logg.Debugf("Opened %v database", config.Driver)
	return &Store{db: db, logg: logg}, nil
}

// AutoMigrate creates or updates the clinic schema
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(&Patient{}, &ClinicalHistory{}, &Vitals{}, &PhotoDeletion{})
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// Transaction runs fn inside one unit of work. The transaction is committed when fn
// returns nil and rolled back when it returns an error or panics; the connection is
// handed back to the pool either way.
func (s *Store) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn)
}

func (s *Store) session(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func newDialector(config shared.DatabaseConfig) (gorm.Dialector, error) {
	switch config.Driver {
	case SQLITE_DRIVER:
		dsn, err := sqliteDSN(config.Sqlite)
		if err != nil {
			return nil, fmt.Errorf("failed to set sqlite DSN: %v", err)
		}
		return sqliteEncrypt.Open(dsn), nil
	case MYSQL_DRIVER:
		return mysql.Open(mysqlDSN(config.Mysql)), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", config.Driver)
	}
}

func sqliteDSN(config shared.SqliteConfig) (string, error) {
	dbDir, err := DbDirectory(config.Dir)
	if err != nil {
		return "", err
	}

	dbFilePath := filepath.Join(dbDir, DB_NAME)
	dbName := fmt.Sprintf("file:%v", dbFilePath)

	return fmt.Sprintf(
		"%v?_pragma_key=%s&_pragma_cipher_page_size=4096&_journal_mode=WAL&_foreign_keys=1",
		dbName,
		url.QueryEscape(config.PassPhrase),
	), nil
}

func mysqlDSN(config shared.MysqlConfig) string {
	port := config.Port
	if port == 0 {
		port = 3306
	}

	return fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		config.User,
		config.Password,
		config.Host,
		port,
		config.Name,
	)
}

func DbDirectory(dbRootDir string) (string, error) {
	dbDir := filepath.Join(dbRootDir, "db")

	err := utils.CreateDirIfNotExist(dbDir)
	if err != nil {
		return "", err
	}

	return dbDir, nil
}

func gormLogLevel(level string) gormLogger.LogLevel {
	switch level {
	case "error":
		return gormLogger.Error
	case "warn":
		return gormLogger.Warn
	case "info":
		return gormLogger.Info
	default:
		return gormLogger.Silent
	}
}
