package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/data-table-transformer/errs"
	"github.com/rpupo63/data-table-transformer/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// ListRecentByOwner returns up to limit projects of a user, newest first
func (r *ProjectRepo) ListRecentByOwner(ctx context.Context, userID string, limit int) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Find(&projects).Error
	return projects, err
}

// FindByIDForOwner returns nil without error when the project does not exist
// or belongs to another user.
func (r *ProjectRepo) FindByIDForOwner(ctx context.Context, id uuid.UUID, userID string) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// UpdateStatus moves a project along its lifecycle and optionally records a row count.
func (r *ProjectRepo) UpdateStatus(ctx context.Context, id uuid.UUID, userID string, status models.ProjectStatus, rowsCount *int64) (*models.Project, error) {
	var project models.Project

	err := r.db.WithContext(ctx).Clauses(dbresolver.Write).Transaction(func(txn *gorm.DB) error {
		err := txn.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", id, userID).
			First(&project).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewNotFound("project")
		}
		if err != nil {
			return err
		}

		if !project.Status.CanTransitionTo(status) {
			return errs.NewInvalidTransitionError(string(project.Status), string(status))
		}

		updates := map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}
		if rowsCount != nil {
			updates["rows_count"] = *rowsCount
		}
		if err := txn.Model(&project).Updates(updates).Error; err != nil {
			return err
		}

		return txn.Where("id = ?", id).First(&project).Error
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}
