// Package api writes the uniform response envelope. Every endpoint, success
// or failure, returns one so clients can correlate responses by requestId.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Envelope struct {
	Success   bool       `json:"success"`
	Data      any        `json:"data,omitempty"`
	Error     *ErrorBody `json:"error,omitempty"`
	RequestID string     `json:"requestId,omitempty"`
}

func Success(w http.ResponseWriter, data any, requestID string) {
	write(w, http.StatusOK, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Created(w http.ResponseWriter, data any, requestID string) {
	write(w, http.StatusCreated, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Fail(w http.ResponseWriter, status int, code, message, requestID string) {
	write(w, status, Envelope{
		Success:   false,
		Error:     &ErrorBody{Code: code, Message: message},
		RequestID: requestID,
	})
}

func write(w http.ResponseWriter, status int, envelope Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		slog.Warn("response encode failed", "requestId", envelope.RequestID, "err", err)
	}
}
