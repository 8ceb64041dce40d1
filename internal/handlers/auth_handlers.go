package handlers

import (
	"net/http"

	"github.com/inkwell/inkwell/internal/service"
	"github.com/sirupsen/logrus"
)

type AuthHandlers struct {
	otpService   *service.OTPService
	tokenService *service.TokenService
	validator    *Validator
	logger       *logrus.Logger
}

func NewAuthHandlers(
	otpService *service.OTPService,
	tokenService *service.TokenService,
	validator *Validator,
	logger *logrus.Logger,
) *AuthHandlers {
	return &AuthHandlers{
		otpService:   otpService,
		tokenService: tokenService,
		validator:    validator,
		logger:       logger,
	}
}

type RegisterRequest struct {
	Phone string `json:"phone" validate:"required,phone"`
}

type RegisterResponse struct {
	Code string `json:"code"`
}

type VerifyRequest struct {
	Code string `json:"code" validate:"required,numeric,min=4,max=8"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// Register issues a code for a phone number that has no account yet. The
// code is returned in the body until a real SMS sender is configured.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	code, err := h.otpService.Issue(r.Context(), req.Phone)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "issue OTP")
		return
	}

	respondWithJSON(w, http.StatusOK, RegisterResponse{Code: code})
}

func (h *AuthHandlers) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	pair, err := h.otpService.Verify(r.Context(), req.Code)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "verify OTP")
		return
	}

	respondWithJSON(w, http.StatusOK, pair)
}

func (h *AuthHandlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	pair, err := h.tokenService.Refresh(r.Context(), req.Refresh)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "refresh token")
		return
	}

	respondWithJSON(w, http.StatusOK, pair)
}

func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	if err := h.tokenService.Logout(r.Context(), req.Refresh); err != nil {
		respondWithServiceError(w, h.logger, err, "log out")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}
