package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/codr1/santase-sub001/internal/apperror"
)

var errBodyTooLarge = errors.New("request body too large")

type errorBody struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// writeError - maps an error to an HTTP status and a stable error code.
// Everything in the taxonomy is recoverable at the request boundary; only
// unexpected faults fall through to 500.
func (that *Server) writeError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)

	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "error", err)
		writeJSON(w, status, errorBody{Code: code, Error: "internal server error"})
		return
	}

	writeJSON(w, status, errorBody{Code: code, Error: err.Error()})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, apperror.ErrIllegalMove):
		return http.StatusBadRequest, "illegal_move"
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, apperror.ErrRoomNotFound):
		return http.StatusNotFound, "room_not_found"
	case errors.Is(err, apperror.ErrRoomFull):
		return http.StatusConflict, "room_full"
	case errors.Is(err, apperror.ErrMatchNotStarted),
		errors.Is(err, apperror.ErrRoundInProgress),
		errors.Is(err, apperror.ErrMatchFinished):
		return http.StatusConflict, "conflict"
	case errors.Is(err, errBodyTooLarge):
		return http.StatusRequestEntityTooLarge, "request_too_large"
	case errors.Is(err, apperror.ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, apperror.ErrRoomConnectionLimit):
		return http.StatusServiceUnavailable, "connection_limit_exceeded"
	case errors.Is(err, apperror.ErrGlobalConnectionLimit):
		return http.StatusServiceUnavailable, "global_cap_exceeded"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(body)
}
