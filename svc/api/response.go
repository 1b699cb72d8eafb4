package api

import (
	"encoding/json"
	"net/http"
)

// Response is the JSON envelope of every API answer.
type Response struct {
	Code    string         `json:"code,omitempty"`
	Message string         `json:"message,omitempty"`
	Data    any            `json:"data,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
	Error   *ErrorDetail   `json:"error,omitempty"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func ok(w http.ResponseWriter, data any, meta map[string]any) {
	writeJSON(w, http.StatusOK, Response{Code: "OK", Data: data, Meta: meta})
}

func fail(w http.ResponseWriter, err error) {
	he := classify(err)
	writeJSON(w, he.Status, Response{
		Code:  he.Key,
		Error: &ErrorDetail{Code: he.Key, Message: err.Error()},
	})
}
