package main

import (
	"encoding/json"
	"net/http"
)

// Helpers for the JSON envelope every handler responds with.

// respondWithError sends the uniform error envelope to the client. The
// underlying cause, when one is given, goes to the log only; clients just
// see the message.
func (cfg *apiConfig) respondWithError(w http.ResponseWriter, code int, msg string, err error) {
	if err != nil {
		cfg.logger.Error(msg, "error", err)
	}
	cfg.respondWithJSON(w, code, ErrorResponse{
		Error: msg,
	})
}

// respondWithJSON marshals the payload and writes it with the given status
// code. A payload that fails to marshal turns into a bare 500 with no body.
func (cfg *apiConfig) respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	data, err := json.Marshal(payload)
	if err != nil {
		cfg.logger.Error("error marshalling JSON", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(code)
	if _, err := w.Write(data); err != nil {
		cfg.logger.Error("error writing response", "error", err)
	}
}
