package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/dmitrijs2005/jobboard/internal/common"
)

const maxJSONBody = 1 << 20

// envelope is the body of every response. Payload keys are merged next to
// success and message.
type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	if _, ok := body["success"]; !ok {
		body["success"] = status < http.StatusBadRequest
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError renders err through Normalize. The full error is logged when
// the caller only gets a generic message, and for every failed resume upload.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := Normalize(err)
	switch {
	case status == http.StatusInternalServerError:
		h.log.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	case common.IsUploadFailure(err):
		h.log.Warn(r.Context(), "resume upload failed", "path", r.URL.Path, "status", status, "error", err)
	case status == http.StatusBadGateway:
		h.log.Warn(r.Context(), "upstream failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, envelope{"success": false, "message": msg})
}

// readJSON decodes a bounded JSON body into dst.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return common.Validationf("Request body is too large")
		}
		return common.Validationf("Request body is not valid JSON")
	}
	return nil
}
