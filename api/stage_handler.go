package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rpupo63/data-table-transformer/errs"
	"github.com/rs/zerolog/log"
)

// stageHandler serves the mapping, transform and editor steps. They only
// acknowledge the project they were opened for.
type stageHandler struct {
	responder Responder
}

func newStageHandler() stageHandler {
	logger := log.With().Str("handlerName", "stageHandler").Logger()
	return stageHandler{responder: NewResponder(logger)}
}

func (h stageHandler) notImplemented(route string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var projectID *uuid.UUID
		if raw := r.URL.Query().Get("projectId"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				h.responder.WriteError(w, errs.NewInvalidFieldError("projectId", "must be a UUID"))
				return
			}
			projectID = &id
		}

		notImplemented := errs.NewNotImplementedError(route)
		h.responder.WriteJSONWithStatus(w, notImplemented.StatusCode, StageResponse{
			Route:     route,
			ProjectID: projectID,
			Status:    "not_implemented",
			Message:   notImplemented.Error(),
		})
	}
}
