package api

import (
	"net/http"
	"time"

	"github.com/rpupo63/data-table-transformer/database"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	database    database.Database
	startupTime time.Time
}

func newHealthHandler(db database.Database, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()
	return healthHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		database:    db,
		startupTime: startupTime,
	}
}

// health answers 200 even when the database is down: imports keep working
// through the local fallback.
func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbStatus := "ok"
		if err := h.database.Ping(); err != nil {
			h.logger.Warn().Err(err).Msg("database ping failed")
			dbStatus = "unavailable"
		}

		h.responder.WriteJSON(w, HealthResponse{
			Status:    "ok",
			Database:  dbStatus,
			StartedAt: h.startupTime.UTC(),
			Uptime:    time.Since(h.startupTime).Round(time.Second).String(),
		})
	}
}
