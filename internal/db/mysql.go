package db

import (
	"fmt"
	stdlog "log"
	"os"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/estoico/stoic-rag-backend/internal/logger"
	"github.com/estoico/stoic-rag-backend/internal/utils"
)

// MySQLService connects to the Laravel application database. The schema is
// owned and migrated by Laravel, so no AutoMigrate runs here.
type MySQLService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMySQLService(logg *logger.Logger) (*MySQLService, error) {
	serviceLog := logg.With("service", "MySQLService")

	host := utils.GetEnv("MYSQL_HOST", "localhost", logg)
	port := utils.GetEnv("MYSQL_PORT", "3306", logg)
	user := utils.GetEnv("MYSQL_USER", "root", logg)
	password := utils.GetEnv("MYSQL_PASSWORD", "", logg)
	name := utils.GetEnv("MYSQL_DATABASE", "estoico", logg)

	dsn := fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		user,
		password,
		host,
		port,
		name,
	)

	gormLog := gormLogger.New(
		stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access MySQL pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(utils.GetEnvAsInt("MYSQL_MAX_OPEN_CONNS", 10, logg))
	sqlDB.SetMaxIdleConns(utils.GetEnvAsInt("MYSQL_MAX_IDLE_CONNS", 5, logg))
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return &MySQLService{db: db, log: serviceLog}, nil
}

func (s *MySQLService) DB() *gorm.DB { return s.db }
