package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/codescribe/internal/service"
)

// DiagramHandler serves Mermaid diagram generation.
type DiagramHandler struct {
	docs   *service.DocumentationService
	logger *slog.Logger
}

func NewDiagramHandler(docs *service.DocumentationService, logger *slog.Logger) *DiagramHandler {
	return &DiagramHandler{docs: docs, logger: logger}
}

type diagramResponse struct {
	Success     bool   `json:"success"`
	MermaidCode string `json:"mermaidCode"`
	Analysis    string `json:"analysis"`
}

// HandleGenerate produces a diagram from a submitted file tree.
//
// POST /api/diagrams/generate {"files","diagramType"}
func (h *DiagramHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Files       json.RawMessage `json:"files"`
		DiagramType string          `json:"diagramType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	result, err := h.docs.GenerateDiagram(r.Context(), req.Files, req.DiagramType)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, diagramResponse{
		Success:     true,
		MermaidCode: result.MermaidCode,
		Analysis:    result.Analysis,
	})
}
