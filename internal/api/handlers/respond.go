package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/dom/media-tracker/internal/logging"
	"github.com/goccy/go-json"
)

var errInvalidBody = errors.New("invalid request body")

// writeJSON sends a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Error().Err(err).Msg("write JSON response")
	}
}

// writeMessage sends the {"message": ...} body used for every error and for
// plain acknowledgements.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// internalError logs err server side and answers with a generic 500.
func internalError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	logging.Report(ctx, err, msg)
	writeMessage(w, http.StatusInternalServerError, "Internal server error.")
}

// readJSON decodes the request body into dst. An empty body leaves dst at its
// zero value.
func readJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errInvalidBody
	}
	return nil
}
