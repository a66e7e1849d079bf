package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/vncsmyrnk/contentapi/internal/core/domain"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// errorMappings is checked in order; the first sentinel found in the chain
// decides the status and the message the client sees.
var errorMappings = []struct {
	err     error
	status  int
	message string
}{
	{domain.ErrValidation, http.StatusBadRequest, ""},
	{domain.ErrDuplicateEmail, http.StatusBadRequest, "Email already registered"},
	{domain.ErrInvalidID, http.StatusBadRequest, "Invalid id"},
	{domain.ErrNoSession, http.StatusUnauthorized, "Invalid or expired refresh token"},
	{domain.ErrUnknownEmail, http.StatusUnauthorized, "Email not registered"},
	{domain.ErrWrongPassword, http.StatusUnauthorized, "Incorrect password"},
	{domain.ErrTokenExpired, http.StatusUnauthorized, "Access token expired"},
	{domain.ErrUnauthenticated, http.StatusUnauthorized, "Authentication required"},
	{domain.ErrInvalidSignature, http.StatusUnauthorized, "Authentication required"},
	{domain.ErrForbidden, http.StatusForbidden, "Insufficient permissions"},
	{domain.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{domain.ErrPostNotFound, http.StatusNotFound, "Post not found"},
	{domain.ErrRateLimited, http.StatusTooManyRequests, "Too many requests, please try again later"},
	{domain.ErrStoreUnavailable, http.StatusInternalServerError, "Internal server error"},
}

// errorStatus returns the HTTP status and client-facing message for err.
// Anything unrecognised becomes a generic 500.
func errorStatus(err error) (int, string) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.err) {
			continue
		}
		if m.err == domain.ErrValidation {
			return m.status, validationMessage(err)
		}
		return m.status, m.message
	}
	return http.StatusInternalServerError, "Internal server error"
}

func validationMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, domain.ErrValidation.Error()+": "); i >= 0 {
		return msg[i+len(domain.ErrValidation.Error())+2:]
	}
	return "Invalid request"
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := errorStatus(err)
	if status >= http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Msg("request failed")
	}
	writeJSON(w, status, errorResponse{Error: msg, Code: status})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: Invalid request body", domain.ErrValidation)
	}
	return nil
}
