package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/rpupo63/data-table-transformer/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

type Database struct {
	db          *gorm.DB
	projectRepo *ProjectRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:          db,
		projectRepo: NewProjectRepo(db),
	}
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

// Ping checks that the database answers a trivial query
func (d Database) Ping() error {
	var result int
	return d.db.Raw("SELECT 1").Scan(&result).Error
}

// Migrate brings the schema up to date
func (d Database) Migrate() error {
	return GetMigrator(d.db).Migrate()
}

// MigrateWhenReachable pings every interval until the database answers, then
// migrates it. It returns ctx.Err() if ctx ends first.
func (d Database) MigrateWhenReachable(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := d.Ping(); err == nil {
			return d.Migrate()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// DSN builds the connection string for DB_TYPE. sqlite returns a file path.
func DSN(c map[string]string) (string, error) {
	switch dbType := config.GetString(c, "DB_TYPE", "postgres"); dbType {
	case "supa":
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
			config.GetString(c, "SUPABASE_DB_HOST", ""),
			config.GetString(c, "SUPABASE_DB_USER", ""),
			config.GetString(c, "SUPABASE_DB_PASSWORD", ""),
			config.GetString(c, "SUPABASE_DB_NAME", ""),
			config.GetString(c, "SUPABASE_DB_PORT", "5432"),
		), nil
	case "postgres":
		dsn := config.GetString(c, "DATABASE_URL", "")
		if dsn == "" {
			return "", fmt.Errorf("DATABASE_URL is required for DB_TYPE=postgres")
		}
		return dsn, nil
	case "sqlite":
		return config.GetString(c, "SQLITE_PATH", "data_table_transformer.db"), nil
	default:
		return "", fmt.Errorf("unsupported DB_TYPE %q", dbType)
	}
}

// Open connects with the settings in c. Reads are routed to
// DATABASE_REPLICA_URL when it is set.
func Open(c map[string]string) (*gorm.DB, error) {
	dsn, err := DSN(c)
	if err != nil {
		return nil, err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
	// No ping on open: the service starts during a database outage and new
	// projects go to the local fallback until the database answers.
	gormConfig := &gorm.Config{
		PrepareStmt:          false,
		DisableAutomaticPing: true,
		Logger:               newLogger,
	}

	if config.GetString(c, "DB_TYPE", "postgres") == "sqlite" {
		return gorm.Open(sqlite.Open(dsn), gormConfig)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if replica := config.GetString(c, "DATABASE_REPLICA_URL", ""); replica != "" {
		err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.New(postgres.Config{
				DSN:                  replica,
				PreferSimpleProtocol: true,
			})},
			Policy: dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, fmt.Errorf("error registering read replica: %w", err)
		}
	}

	return db, nil
}
