// Package envelope writes every HTTP response body in the same
// {status_code, message, data} shape.
package envelope

import (
	"encoding/json"
	"net/http"

	"github.com/PauloHFS/inkpress/internal/logging"
)

type Envelope[T any] struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Data       T      `json:"data"`
}

// ErrorData is the data of an error envelope. Fields is only set for
// validation failures.
type ErrorData struct {
	Fields map[string]string `json:"fields,omitempty"`
}

func Write[T any](w http.ResponseWriter, status int, message string, data T) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if status == http.StatusNoContent {
		return
	}
	if err := json.NewEncoder(w).Encode(Envelope[T]{
		StatusCode: status,
		Message:    message,
		Data:       data,
	}); err != nil {
		logging.Get().Error("failed to encode response", "error", err, "status", status)
	}
}

func Error(w http.ResponseWriter, status int, message string, fields map[string]string) {
	var data *ErrorData
	if len(fields) > 0 {
		data = &ErrorData{Fields: fields}
	}
	Write(w, status, message, data)
}
