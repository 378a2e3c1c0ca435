package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/data-table-transformer/models"
	"github.com/rpupo63/data-table-transformer/services"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	dashboardHandler dashboardHandler
	importHandler    importHandler
	projectHandler   projectHandler
	stageHandler     stageHandler
	authHandler      authHandler
	healthHandler    healthHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string `json:"error"`
	Status  string `json:"status"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
	Cause   string `json:"cause,omitempty"`
}

type AuthStateResponse struct {
	User      *models.User `json:"user"`
	IsLoading bool         `json:"isLoading"`
}

type UploadProgressResponse struct {
	UploadID string `json:"upload_id"`
	Percent  int    `json:"percent"`
}

type ProjectResponse struct {
	Project  *models.Project   `json:"project"`
	StoredIn services.StoredIn `json:"stored_in"`
}

type UpdateStatusRequest struct {
	Status    models.ProjectStatus `json:"status"`
	RowsCount *int64               `json:"rows_count,omitempty"`
}

// StageResponse is returned by the pipeline stages that are not built yet
type StageResponse struct {
	Route     string     `json:"route"`
	ProjectID *uuid.UUID `json:"project_id"`
	Status    string     `json:"status"`
	Message   string     `json:"message"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	StartedAt time.Time `json:"started_at"`
	Uptime    string    `json:"uptime"`
}
