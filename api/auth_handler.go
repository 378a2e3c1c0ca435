package api

import (
	"net/http"

	"github.com/rpupo63/data-table-transformer/errs"
	"github.com/rs/zerolog/log"
)

type authHandler struct {
	responder Responder
}

func newAuthHandler() authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()
	return authHandler{responder: NewResponder(logger)}
}

// state reports the current session. No session is a normal answer, not an error.
func (h authHandler) state() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := ctxGetUser(r.Context())
		h.responder.WriteJSON(w, AuthStateResponse{User: user, IsLoading: false})
	}
}

func (h authHandler) me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewMissingTokenError())
			return
		}
		h.responder.WriteJSON(w, user)
	}
}
