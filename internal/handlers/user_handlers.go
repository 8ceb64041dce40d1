package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/inkwell/inkwell/internal/middleware"
	"github.com/inkwell/inkwell/internal/models"
	"github.com/inkwell/inkwell/internal/repository"
	"github.com/sirupsen/logrus"
)

type UserHandlers struct {
	userRepo  *repository.UserRepository
	validator *Validator
	logger    *logrus.Logger
}

func NewUserHandlers(userRepo *repository.UserRepository, validator *Validator, logger *logrus.Logger) *UserHandlers {
	return &UserHandlers{
		userRepo:  userRepo,
		validator: validator,
		logger:    logger,
	}
}

type ProfileUpdateRequest struct {
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Email     string `json:"email" validate:"omitempty,email,max=254"`
}

// UserUpdateRequest is the superuser view of an account.
type UserUpdateRequest struct {
	ProfileUpdateRequest
	IsActive    bool       `json:"is_active"`
	IsStaff     bool       `json:"is_staff"`
	Author      bool       `json:"author"`
	SpecialUser *time.Time `json:"special_user"`
}

func (p ProfileUpdateRequest) apply(u *models.User) {
	u.FirstName = strings.TrimSpace(p.FirstName)
	u.LastName = strings.TrimSpace(p.LastName)
	u.Email = strings.TrimSpace(p.Email)
}

func (h *UserHandlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	respondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var req ProfileUpdateRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	req.apply(user)

	if err := h.userRepo.Update(r.Context(), user); err != nil {
		respondWithServiceError(w, h.logger, err, "update profile")
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandlers) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	if err := h.userRepo.Delete(r.Context(), user.ID); err != nil {
		respondWithServiceError(w, h.logger, err, "delete profile")
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}

func (h *UserHandlers) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	users, total, err := h.userRepo.List(r.Context(), repository.UserFilter{
		Search:   q.Get("search"),
		Author:   queryBool(r, "author"),
		Ordering: q.Get("ordering"),
		Page:     queryPage(r),
	})
	if err != nil {
		respondWithServiceError(w, h.logger, err, "list users")
		return
	}

	now := time.Now()
	items := make([]UserListItem, 0, len(users))
	for i := range users {
		items = append(items, newUserListItem(&users[i], now))
	}
	respondWithJSON(w, http.StatusOK, ListResponse[UserListItem]{Count: total, Results: items})
}

func (h *UserHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusNotFound, "NOT_FOUND", "Not found.")
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "get user")
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusNotFound, "NOT_FOUND", "Not found.")
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "get user")
		return
	}

	var req UserUpdateRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	req.apply(user)
	user.IsActive = req.IsActive
	user.IsStaff = req.IsStaff
	user.Author = req.Author
	user.SpecialUser = req.SpecialUser

	if err := h.userRepo.Update(r.Context(), user); err != nil {
		respondWithServiceError(w, h.logger, err, "update user")
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusNotFound, "NOT_FOUND", "Not found.")
		return
	}

	if err := h.userRepo.Delete(r.Context(), id); err != nil {
		respondWithServiceError(w, h.logger, err, "delete user")
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}
