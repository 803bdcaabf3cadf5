package api

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	kanerr "github.com/emilianobruni/erflow/internal/errors"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Warnf("Failed to encode response: %v", err)
		}
	}
}

// Error writes an error response, mapping domain errors to HTTP status codes.
func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var notFound *kanerr.NotFoundError
	var validation *kanerr.ValidationError
	var parse *kanerr.ParseError
	var env *kanerr.EnvironmentError

	switch {
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &validation), errors.As(err, &parse), errors.Is(err, kanerr.ErrNotConfirmed):
		status = http.StatusBadRequest
	case errors.As(err, &env):
		status = http.StatusServiceUnavailable
	}

	if status >= http.StatusInternalServerError {
		log.Errorf("Request failed: %v", err)
	}
	JSON(w, status, map[string]string{"error": err.Error()})
}

// BadRequest writes a 400 error with the given message.
func BadRequest(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, map[string]string{"error": message})
}
