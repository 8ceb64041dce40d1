package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/inkwell/inkwell/internal/repository"
	"github.com/inkwell/inkwell/internal/service"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ListResponse wraps one page of results with the total match count.
type ListResponse[T any] struct {
	Count   int64 `json:"count"`
	Results []T   `json:"results"`
}

func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func respondWithError(w http.ResponseWriter, status int, code, message string) {
	respondWithJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

func respondWithFields(w http.ResponseWriter, fields map[string]string) {
	respondWithJSON(w, http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{
			Code:    "VALIDATION_FAILED",
			Message: "Request validation failed",
			Fields:  fields,
		},
	})
}

// respondWithServiceError maps domain errors to their status codes and
// logs anything unexpected as an internal error.
func respondWithServiceError(w http.ResponseWriter, logger *logrus.Logger, err error, action string) {
	switch {
	case errors.Is(err, service.ErrPhoneRegistered):
		respondWithError(w, http.StatusBadRequest, "PHONE_REGISTERED", "There is already a user with this phone number, please enter a different value.")
	case errors.Is(err, service.ErrTooManyRequests):
		respondWithError(w, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "You requested too much.")
	case errors.Is(err, service.ErrIncorrectCode):
		respondWithError(w, http.StatusNotAcceptable, "INCORRECT_CODE", "The code entered is incorrect.")
	case errors.Is(err, service.ErrCodeExpired):
		respondWithError(w, http.StatusRequestTimeout, "CODE_EXPIRED", "The entered code has expired.")
	case errors.Is(err, service.ErrInvalidToken):
		respondWithError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired")
	case errors.Is(err, service.ErrTokenRevoked):
		respondWithError(w, http.StatusUnauthorized, "TOKEN_REVOKED", "Token has been revoked")
	case errors.Is(err, service.ErrForbidden):
		respondWithError(w, http.StatusForbidden, "FORBIDDEN", "You do not have permission to perform this action.")
	case errors.Is(err, repository.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "NOT_FOUND", "Not found.")
	case errors.Is(err, service.ErrInvalidTarget):
		respondWithFields(w, map[string]string{"object_id": "object does not exist or cannot be commented on"})
	case errors.Is(err, service.ErrInvalidParent):
		respondWithFields(w, map[string]string{"parent": "parent must be a comment on the same object"})
	case errors.Is(err, repository.ErrUnknownCategory):
		respondWithFields(w, map[string]string{"category": "unknown category"})
	case errors.Is(err, repository.ErrSlugTaken):
		respondWithFields(w, map[string]string{"slug": "slug already in use"})
	case errors.Is(err, repository.ErrUserExists):
		respondWithFields(w, map[string]string{"phone": "user with this phone already exists"})
	default:
		logger.WithError(err).Error("Failed to " + action)
		respondWithError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to "+action)
	}
}

// decodeAndValidate reads a JSON body into dst and checks its rules,
// writing the 400 response itself when either step fails.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *Validator, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return false
	}
	if err := v.Validate(dst); err != nil {
		var fields ValidationError
		if errors.As(err, &fields) {
			respondWithFields(w, fields)
			return false
		}
		respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return false
	}
	return true
}

func pathID(r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func queryPage(r *http.Request) repository.Page {
	q := r.URL.Query()
	number, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("page_size"))
	return repository.Page{Number: number, Size: size}
}

// queryBool parses true/false style flags; anything else means unset.
func queryBool(r *http.Request, name string) *bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	if err != nil {
		return nil
	}
	return &v
}
