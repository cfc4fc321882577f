package http

import (
	"context"
	"errors"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/store"
)

// writeError maps service errors to responses: validation failures to 422,
// missing transactions to 404, anything else to 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case core.IsValidation(err):
		UnprocessableEntityError(validationMessage(err)).Write(w)
	case errors.Is(err, store.ErrNotFound):
		NotFoundError("transaction not found").Write(w)
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to send.
		w.WriteHeader(499)
	default:
		s.events.LogError(r.Context(), "Request failed", err, log.ComponentHTTP, op, nil)
		InternalServerError("internal error").Write(w)
	}
}

func validationMessage(err error) string {
	for _, sentinel := range []error{
		core.ErrEmptyDescription,
		core.ErrDescriptionTooLong,
		core.ErrInvalidAmount,
		core.ErrInvalidType,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
