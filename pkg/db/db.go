package db

import (
	"io"
	"log"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	constant "liyu1981.xyz/battery-fleet-service/pkg/common"
	"liyu1981.xyz/battery-fleet-service/pkg/models"
)

type DB struct {
	Conn *gorm.DB
}

var (
	instance *DB
	once     sync.Once
)

func GetInstance(dialector gorm.Dialector) *DB {
	var logger = constant.GetLogger()
	once.Do(func() {
		conn, err := Open(dialector, os.Stdout)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}

		logger.Info("Connected to database with dialector:", zap.String("dialector", dialector.Name()))

		instance = &DB{Conn: conn}

		if err := Migrate(instance.Conn); err != nil {
			log.Fatal("Failed to migrate database:", err)
		}

		logger.Info("Database migration completed")

		if dialector.Name() != "sqlite" {
			return
		}

		if err := instance.Conn.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			log.Fatal("Failed to enable sqlite foreign key support", err)
		}

		if err := instance.Conn.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
			log.Fatal("Failed to set sqlite journal mode", err)
		}

		if err := instance.Conn.Exec("PRAGMA busy_timeout = 5000").Error; err != nil {
			log.Fatal("Failed to set sqlite busy timeout", err)
		}
	})
	return instance
}

// NewGormLogger reports warnings and slow queries to w. Lookups that find
// nothing are expected on normal paths and are not logged.
func NewGormLogger(w io.Writer) gormlogger.Interface {
	return gormlogger.New(
		log.New(w, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// Open connects without migrating, gorm's own log output goes to w.
func Open(dialector gorm.Dialector, w io.Writer) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{Logger: NewGormLogger(w)})
}

// Migrate creates or updates the fleet tables, parents first.
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&models.Battery{},
		&models.BatteryHistoryEntry{},
		&models.UsagePattern{},
		&models.Recommendation{},
	)
}

func UseSqliteDialector() gorm.Dialector {
	var dbPath string
	var found bool
	if dbPath, found = os.LookupEnv(constant.EnvKeyFleetDbPath); !found {
		dbPath = "fleet.db"
	}
	return sqlite.Open(dbPath)
}

func UseMemorySqliteDialector() gorm.Dialector {
	return sqlite.Open("file::memory:?cache=shared")
}

// UsePostgresDialector connects with a libpq style DSN, e.g.
// "host=localhost user=fleet password=fleet dbname=fleet port=5432 sslmode=disable".
func UsePostgresDialector(dsn string) gorm.Dialector {
	return postgres.Open(dsn)
}

// UseDialector picks the dialector for a configured db type: file, memory or postgres.
func UseDialector(dbType string, dsn string) (gorm.Dialector, bool) {
	switch dbType {
	case "file":
		return UseSqliteDialector(), true
	case "memory":
		return UseMemorySqliteDialector(), true
	case "postgres":
		return UsePostgresDialector(dsn), true
	default:
		return nil, false
	}
}
