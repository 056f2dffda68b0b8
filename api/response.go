package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"github.com/Fazalwahab12/shift-backend-sub002/internal/common"
)

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

type errorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// statusFor maps domain error codes to HTTP statuses. Infrastructure errors
// are a 500 and never leak their message.
func statusFor(code common.Code) int {
	switch code {
	case common.CodeNotFound:
		return http.StatusNotFound
	case common.CodeValidation:
		return http.StatusBadRequest
	case common.CodeBlocked, common.CodeForbidden:
		return http.StatusForbidden
	case common.CodeInvalidTransition, common.CodeSchedulingConflict,
		common.CodeRescheduleLimit, common.CodeAlreadyPending:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	var domainErr *common.Error
	if !errors.As(err, &domainErr) {
		logger.Error("internal error", slog.Any("err", err))
		writeJSON(w, map[string]any{"error": errorBody{Code: "internal", Message: "internal error"}}, http.StatusInternalServerError)
		return
	}

	body := errorBody{
		Code:    string(domainErr.Code),
		Message: domainErr.Message,
		Details: domainErr.Details,
	}
	writeJSON(w, map[string]any{"error": body}, statusFor(domainErr.Code))
}
