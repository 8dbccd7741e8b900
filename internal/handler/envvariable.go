package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/codescribe/internal/auth"
	"github.com/sakif/codescribe/internal/service"
)

// EnvVariableHandler serves the authenticated env-variable routes.
type EnvVariableHandler struct {
	vars   *service.EnvVariableService
	logger *slog.Logger
}

func NewEnvVariableHandler(vars *service.EnvVariableService, logger *slog.Logger) *EnvVariableHandler {
	return &EnvVariableHandler{vars: vars, logger: logger}
}

// HandleList returns every variable owned by the authenticated user.
//
// GET /api/env-variables
func (h *EnvVariableHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "valid authentication required"})
		return
	}

	vars, err := h.vars.ListByOwner(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, vars)
}

// HandleCreate saves a new variable for the authenticated user.
//
// POST /api/env-variables {"name","value"}
func (h *EnvVariableHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "valid authentication required"})
		return
	}

	var req struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	v, err := h.vars.Create(r.Context(), userID, req.Name, req.Value)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, v)
}

// HandleUpdate overwrites a variable's value. Only the value is mutable.
//
// PUT /api/env-variables/{id} {"value"}
func (h *EnvVariableHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "valid authentication required"})
		return
	}

	var req struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	v, err := h.vars.UpdateValue(r.Context(), userID, r.PathValue("id"), req.Value)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, v)
}

// HandleDelete removes one variable with the given name owned by the
// authenticated user.
//
// DELETE /api/env-variables/{name}
func (h *EnvVariableHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "valid authentication required"})
		return
	}

	if err := h.vars.DeleteByName(r.Context(), userID, r.PathValue("name")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Environment variable deleted"})
}
