package api

import (
	"net/http"

	"github.com/rpupo63/data-table-transformer/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type dashboardHandler struct {
	responder    Responder
	logger       zerolog.Logger
	dashboardSvc *services.Dashboard
}

func newDashboardHandler(projects services.ProjectLister) dashboardHandler {
	logger := log.With().Str("handlerName", "dashboardHandler").Logger()

	return dashboardHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		dashboardSvc: services.NewDashboard(projects, logger),
	}
}

// dashboard returns the signed-in user's most recent projects and their summary.
// A failing project listing still answers 200 with no projects.
func (h dashboardHandler) dashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, h.dashboardSvc.Load(r.Context(), *user))
	}
}
