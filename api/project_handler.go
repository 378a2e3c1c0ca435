package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/data-table-transformer/database"
	"github.com/rpupo63/data-table-transformer/errs"
	"github.com/rpupo63/data-table-transformer/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type projectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo *database.ProjectRepo
	fallback    *database.FallbackStore
}

func newProjectHandler(projectRepo *database.ProjectRepo, fallback *database.FallbackStore) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		projectRepo: projectRepo,
		fallback:    fallback,
	}
}

func projectIDParam(r *http.Request) (uuid.UUID, error) {
	projectIDStr := chi.URLParam(r, "projectID")
	if projectIDStr == "" {
		return uuid.Nil, errs.NewMissingRequiredFieldError("projectID")
	}
	projectID, err := uuid.Parse(projectIDStr)
	if err != nil {
		return uuid.Nil, errs.NewInvalidFieldError("projectID", "must be a UUID")
	}
	return projectID, nil
}

// getProject looks a project up in the database first and then in the local
// fallback list, so records saved while the database was down still resolve.
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		projectID, err := projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, dbErr := h.projectRepo.FindByIDForOwner(r.Context(), projectID, user.ID)
		if dbErr == nil && project != nil {
			h.responder.WriteJSON(w, ProjectResponse{Project: project, StoredIn: services.StoredInDatabase})
			return
		}
		if dbErr != nil {
			h.logger.Warn().Err(dbErr).Str("projectID", projectID.String()).Msg("database lookup failed, checking local fallback")
		}

		project, err = h.fallback.FindByIDForOwner(projectID, user.ID)
		if err != nil {
			h.logger.Error().Err(err).Msg("failed to read local fallback")
		}
		if project != nil {
			h.responder.WriteJSON(w, ProjectResponse{Project: project, StoredIn: services.StoredInLocal})
			return
		}

		if dbErr != nil {
			h.responder.WriteError(w, wrapDatabaseError("find project", "project", dbErr))
			return
		}
		h.responder.WriteError(w, errs.NewNotFound("project"))
	}
}

// updateStatus moves a project along draft -> processing -> completed, with
// error reachable from draft and processing and retried from error.
func (h projectHandler) updateStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		projectID, err := projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req UpdateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode status request body")
			h.responder.WriteError(w, errs.NewMalformedPayloadError("json", err))
			return
		}

		if req.Status == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("status"))
			return
		}
		if !req.Status.Valid() {
			h.responder.WriteError(w, errs.NewInvalidFieldError("status", "must be one of draft, processing, completed, error"))
			return
		}
		if req.RowsCount != nil && *req.RowsCount < 0 {
			h.responder.WriteError(w, errs.NewInvalidFieldError("rows_count", "must not be negative"))
			return
		}

		project, err := h.projectRepo.UpdateStatus(r.Context(), projectID, user.ID, req.Status, req.RowsCount)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update project status", "project", err))
			return
		}

		h.logger.Info().
			Str("projectID", projectID.String()).
			Str("status", string(project.Status)).
			Msg("project status updated")

		h.responder.WriteJSON(w, ProjectResponse{Project: project, StoredIn: services.StoredInDatabase})
	}
}
