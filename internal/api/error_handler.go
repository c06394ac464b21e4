package api

import (
	"net/http"

	"github.com/vytor/readwithcard/internal/errors"
	"github.com/vytor/readwithcard/internal/logger"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handleError centralizes error handling for HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	// Unknown errors come back wrapped as internal errors
	appErr := errors.AsAppError(err)

	log = log.WithField("code", appErr.Code).WithError(appErr)
	if appErr.Status >= 500 {
		log.Error("server error")
	} else {
		log.Warn("client error")
	}

	writeJSON(w, r, appErr.Status, errorBody{Error: errorDetail{Code: appErr.Code, Message: appErr.Message}})
}
