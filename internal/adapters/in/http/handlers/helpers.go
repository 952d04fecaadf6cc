// internal/adapters/in/http/handlers/helpers.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	tweetdom "github.com/murakami-kaito-dev/bouldering-app-sub001/internal/domain/tweet"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeTweetErr maps domain errors to HTTP responses.
func writeTweetErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tweetdom.ErrNotFound):
		writeError(w, http.StatusNotFound, "tweet not found")
	case errors.Is(err, tweetdom.ErrNotOwner):
		writeError(w, http.StatusForbidden, "not the owner of this tweet")
	case errors.Is(err, tweetdom.ErrInvalidID),
		errors.Is(err, tweetdom.ErrInvalidUserID),
		errors.Is(err, tweetdom.ErrInvalidBody),
		errors.Is(err, tweetdom.ErrInvalidCreatedAt):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
