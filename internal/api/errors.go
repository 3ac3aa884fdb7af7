package api

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/petalsafe/petalsafe-backend/internal/api/respond"
	"github.com/petalsafe/petalsafe-backend/internal/model"
)

// writeServiceError maps the service layer's sentinel errors onto HTTP
// statuses. Anything unrecognized is a store or infrastructure failure and
// must surface as a 500, never be conflated with a legitimate outcome.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		respond.WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, "account not found")
	case errors.Is(err, model.ErrConflict):
		respond.WriteConflict(w, err.Error())
	case errors.Is(err, model.ErrUnauthorized):
		respond.WriteForbidden(w, "not allowed")
	default:
		log.Error().Stack().Err(err).Msg("request failed")
		respond.WriteInternalError(w, "internal error")
	}
}
