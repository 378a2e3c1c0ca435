package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProjectStatus is the lifecycle state of an import/transform job
type ProjectStatus string

const (
	ProjectDraft      ProjectStatus = "draft"
	ProjectProcessing ProjectStatus = "processing"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectError      ProjectStatus = "error"
)

// ProjectStatuses lists every known status in lifecycle order
var ProjectStatuses = []ProjectStatus{ProjectDraft, ProjectProcessing, ProjectCompleted, ProjectError}

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectDraft, ProjectProcessing, ProjectCompleted, ProjectError:
		return true
	}
	return false
}

// CanTransitionTo reports whether a project in status s may move to next.
// completed is terminal; error may go back to processing for a retry.
// Staying in the same status is always allowed.
func (s ProjectStatus) CanTransitionTo(next ProjectStatus) bool {
	if !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	switch s {
	case ProjectDraft:
		return next == ProjectProcessing || next == ProjectError
	case ProjectProcessing:
		return next == ProjectCompleted || next == ProjectError
	case ProjectError:
		return next == ProjectProcessing
	}
	return false
}

// Project tracks one data import and its progress through the pipeline
type Project struct {
	ID        uuid.UUID      `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	UserID    string         `json:"user_id" db:"user_id" gorm:"type:text;not null;index:idx_projects_user_created,priority:1"`
	Name      string         `json:"name" db:"name" gorm:"type:text;not null"`
	Status    ProjectStatus  `json:"status" db:"status" gorm:"type:text;not null;default:draft"`
	FileName  *string        `json:"file_name,omitempty" db:"file_name" gorm:"type:text"`
	FileURL   *string        `json:"file_url,omitempty" db:"file_url" gorm:"type:text"`
	FileSize  *int64         `json:"file_size,omitempty" db:"file_size" gorm:"type:bigint"`
	RowsCount *int64         `json:"rows_count,omitempty" db:"rows_count" gorm:"type:bigint"`
	S3Config  datatypes.JSON `json:"s3_config,omitempty" db:"s3_config" gorm:"column:s3_config"`
	CreatedAt time.Time      `json:"created_at" db:"created_at" gorm:"not null;index:idx_projects_user_created,priority:2"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at" gorm:"not null"`
}

func (Project) TableName() string { return "projects" }

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = ProjectDraft
	}
	return nil
}
