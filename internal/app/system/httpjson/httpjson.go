// internal/app/system/httpjson/httpjson.go
package httpjson

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dalemusser/trainhub/internal/app/system/apperr"
	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies; survey answers are text fields, so
// anything near this limit is abuse, not data.
const maxBodyBytes = 1 << 20

// Write encodes v as a JSON response with the given status code.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error maps err to an HTTP status via its app error code and writes a
// JSON error body. Internal errors are logged and masked.
func Error(w http.ResponseWriter, log *zap.Logger, err error) {
	status := apperr.HTTPStatus(err)
	code := apperr.CodeOf(err)
	msg := err.Error()
	if status >= 500 {
		if log != nil {
			log.Error("request failed", zap.Error(err))
		}
		msg = "internal error"
	}
	Write(w, status, map[string]string{
		"error": msg,
		"code":  string(code),
	})
}

// Decode reads a JSON request body into dst, rejecting unknown fields and
// oversized bodies.
func Decode(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("request body is required")
		}
		return apperr.Wrap(apperr.CodeValidation, "invalid request body", err)
	}
	return nil
}
