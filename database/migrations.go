package database

import (
	"time"

	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/google/uuid"
	"github.com/rpupo63/data-table-transformer/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// projectV1 is the projects table as first shipped, before S3 imports.
type projectV1 struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;not null"`
	UserID    string    `gorm:"type:text;not null;index:idx_projects_user_created,priority:1"`
	Name      string    `gorm:"type:text;not null"`
	Status    string    `gorm:"type:text;not null;default:draft"`
	FileName  *string   `gorm:"type:text"`
	FileURL   *string   `gorm:"type:text"`
	FileSize  *int64    `gorm:"type:bigint"`
	RowsCount *int64    `gorm:"type:bigint"`
	CreatedAt time.Time `gorm:"not null;index:idx_projects_user_created,priority:2"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (projectV1) TableName() string { return "projects" }

func GetMigrator(db *gorm.DB) *gormigrate.Gormigrate {
	migrator := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "0001_create_projects",
			Migrate: func(txn *gorm.DB) error {
				return txn.AutoMigrate(&projectV1{})
			},
			Rollback: func(txn *gorm.DB) error {
				return txn.Migrator().DropTable("projects")
			},
		},
		{
			ID: "0002_add_projects_s3_config",
			Migrate: func(txn *gorm.DB) error {
				return txn.Migrator().AddColumn(&models.Project{}, "S3Config")
			},
			Rollback: func(txn *gorm.DB) error {
				return txn.Migrator().DropColumn(&models.Project{}, "S3Config")
			},
		},
	})

	migrator.InitSchema(func(txn *gorm.DB) error {
		// A clean database skips the history and gets the latest schema directly.
		log.Info().Msg("clean database detected, running full schema initialization")
		return txn.AutoMigrate(&models.Project{})
	})

	return migrator
}
