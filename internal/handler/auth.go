package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/codescribe/internal/auth"
	"github.com/sakif/codescribe/internal/model"
	"github.com/sakif/codescribe/internal/service"
)

// AuthHandler serves registration, login, the current-user lookup, and the
// password-reset flow.
type AuthHandler struct {
	auths  *service.AuthService
	logger *slog.Logger
}

func NewAuthHandler(auths *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auths: auths, logger: logger}
}

// authResponse is the shape returned by signup and login.
type authResponse struct {
	Success bool             `json:"success"`
	Token   string           `json:"token"`
	User    model.PublicUser `json:"user"`
}

type userResponse struct {
	Success bool             `json:"success"`
	User    model.PublicUser `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// HandleSignup registers a new account.
//
// POST /api/auth/signup {"name","email","password"}
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	res, err := h.auths.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		Success: true,
		Token:   res.Token,
		User:    res.User.Public(),
	})
}

// HandleLogin authenticates by email and password.
//
// POST /api/auth/login {"email","password"}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	res, err := h.auths.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Success: true,
		Token:   res.Token,
		User:    res.User.Public(),
	})
}

// HandleMe returns the authenticated user's profile.
//
// GET /api/auth/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "valid authentication required"})
		return
	}

	user, err := h.auths.GetUserByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{Success: true, User: user.Public()})
}

// HandleForgotPassword issues and emails a reset code.
//
// POST /api/auth/forgot-password {"email"}
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	if err := h.auths.ForgotPassword(r.Context(), req.Email); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "OTP sent to your email"})
}

// HandleVerifyOTP checks a reset code without consuming it.
//
// POST /api/auth/verify-otp {"email","otp"}
func (h *AuthHandler) HandleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	if err := h.auths.VerifyResetCode(r.Context(), req.Email, req.OTP); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "OTP verified"})
}

// HandleResetPassword consumes a reset code and replaces the password.
//
// POST /api/auth/reset-password {"email","otp","newPassword"}
func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		OTP         string `json:"otp"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	if err := h.auths.ResetPassword(r.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Password reset successful"})
}
