package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/data-table-transformer/errs"
	"github.com/rpupo63/data-table-transformer/models"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
)

// MappingRoute is where the client goes after a successful import
const MappingRoute = "/mapping"

// FileUpload is one file received from the client
type FileUpload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
	// UploadID keys progress reporting; optional.
	UploadID string
}

// Next tells the client where to navigate and after how long
type Next struct {
	Route     string    `json:"route"`
	ProjectID uuid.UUID `json:"project_id"`
	DelayMs   int64     `json:"delay_ms"`
}

type ImportResult struct {
	Project  *models.Project `json:"project"`
	StoredIn StoredIn        `json:"stored_in"`
	Message  string          `json:"message"`
	Next     Next            `json:"next"`
}

type Importer struct {
	store           ObjectStore
	connector       Connector
	saver           *ProjectSaver
	progress        *ProgressTracker
	navigationDelay time.Duration
	now             func() time.Time
	logger          zerolog.Logger
}

func NewImporter(store ObjectStore, connector Connector, saver *ProjectSaver, progress *ProgressTracker, navigationDelay time.Duration, logger zerolog.Logger) *Importer {
	return &Importer{
		store:           store,
		connector:       connector,
		saver:           saver,
		progress:        progress,
		navigationDelay: navigationDelay,
		now:             time.Now,
		logger:          logger,
	}
}

// UploadKey is the storage key for a file uploaded at t
func UploadKey(t time.Time, fileName string) string {
	return fmt.Sprintf("uploads/%d-%s", t.UnixMilli(), fileName)
}

// baseName strips any directory a client may have sent with the file name
func baseName(name string) string {
	return path.Base(filepath.ToSlash(strings.TrimSpace(name)))
}

// ProjectName is the file name without its final extension
func ProjectName(fileName string) string {
	ext := path.Ext(fileName)
	if ext == "" || ext == fileName {
		return fileName
	}
	return strings.TrimSuffix(fileName, ext)
}

// ImportFile validates and stores an uploaded file, then records a draft project.
// Rejected files never reach the object store.
func (i *Importer) ImportFile(ctx context.Context, user models.User, file FileUpload) (*ImportResult, error) {
	if err := ValidateUpload(file.ContentType, file.Size); err != nil {
		return nil, err
	}

	name := baseName(file.Name)
	if name == "" || name == "." || name == "/" {
		return nil, errs.NewMissingRequiredFieldError("file name")
	}

	now := i.now().UTC()
	progressKey := ProgressKey(user.ID, file.UploadID)
	i.progress.Set(progressKey, 0)
	publicURL, err := i.store.Upload(ctx, UploadKey(now, name), file.Body, file.Size, UploadOptions{
		Upsert: true,
		OnProgress: func(percent int) {
			i.progress.Set(progressKey, percent)
		},
	})
	if err != nil {
		// a failed upload has no progress left to poll
		i.progress.Delete(progressKey)
		i.logger.Error().Err(err).Str("file", name).Msg("upload failed")
		if errors.Is(err, errs.ErrObjectKeyExists) {
			return nil, errs.NewAlreadyExists("object")
		}
		return nil, errs.NewUploadFailedError(err)
	}

	size := file.Size
	project := &models.Project{
		ID:        uuid.New(),
		UserID:    user.ID,
		Name:      ProjectName(name),
		Status:    models.ProjectDraft,
		FileName:  &name,
		FileURL:   &publicURL,
		FileSize:  &size,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return i.finish(ctx, project, fmt.Sprintf("File \"%s\" uploaded successfully!", name))
}

// ConnectS3 checks the S3 form, connects, then records a draft project.
// An incomplete form never reaches the connector.
func (i *Importer) ConnectS3(ctx context.Context, user models.User, cfg models.S3Config) (*ImportResult, error) {
	if missing := cfg.MissingFields(); len(missing) > 0 {
		return nil, errs.NewIncompleteS3ConfigError(missing)
	}

	result, err := i.connector.Connect(ctx, cfg)
	if err != nil {
		i.logger.Error().Err(err).Str("bucket", cfg.Bucket).Msg("s3 connection failed")
		return nil, errs.NewS3ConnectError(err)
	}

	source, err := json.Marshal(cfg.Source())
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to encode s3 source", err)
	}

	now := i.now().UTC()
	filePath := cfg.FilePath
	project := &models.Project{
		ID:        uuid.New(),
		UserID:    user.ID,
		Name:      cfg.ObjectName(),
		Status:    models.ProjectDraft,
		FileName:  &filePath,
		FileSize:  result.Size,
		S3Config:  datatypes.JSON(source),
		CreatedAt: now,
		UpdatedAt: now,
	}

	return i.finish(ctx, project, "Successfully connected to S3 and imported data!")
}

func (i *Importer) finish(ctx context.Context, project *models.Project, message string) (*ImportResult, error) {
	storedIn, err := i.saver.Save(ctx, project)
	if err != nil {
		return nil, err
	}

	return &ImportResult{
		Project:  project,
		StoredIn: storedIn,
		Message:  message,
		Next: Next{
			Route:     MappingRoute,
			ProjectID: project.ID,
			DelayMs:   i.navigationDelay.Milliseconds(),
		},
	}, nil
}
