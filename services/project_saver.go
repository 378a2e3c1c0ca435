package services

import (
	"context"
	"fmt"

	"github.com/rpupo63/data-table-transformer/errs"
	"github.com/rpupo63/data-table-transformer/models"
	"github.com/rs/zerolog"
)

// StoredIn names where a new project record ended up
type StoredIn string

const (
	StoredInDatabase StoredIn = "database"
	StoredInLocal    StoredIn = "local"
)

type ProjectWriter interface {
	Add(ctx context.Context, project *models.Project) error
}

type FallbackWriter interface {
	Append(project models.Project) error
}

// ProjectSaver writes to the database and, when that fails for any reason,
// appends the record to the local fallback list instead. There is no retry
// and nothing moves records from the fallback to the database later.
type ProjectSaver struct {
	db       ProjectWriter
	fallback FallbackWriter
	logger   zerolog.Logger
}

func NewProjectSaver(db ProjectWriter, fallback FallbackWriter, logger zerolog.Logger) *ProjectSaver {
	return &ProjectSaver{db: db, fallback: fallback, logger: logger}
}

func (s *ProjectSaver) Save(ctx context.Context, project *models.Project) (StoredIn, error) {
	dbErr := s.db.Add(ctx, project)
	if dbErr == nil {
		return StoredInDatabase, nil
	}

	s.logger.Info().Err(dbErr).Str("projectID", project.ID.String()).Msg("database not available, using local fallback")

	if err := s.fallback.Append(*project); err != nil {
		return "", errs.NewProjectNotSavedError(fmt.Errorf("database: %v; fallback: %w", dbErr, err))
	}
	return StoredInLocal, nil
}
