package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/codescribe/internal/gemini"
)

// AIHandler serves free-form text generation.
type AIHandler struct {
	ai     *gemini.Client
	logger *slog.Logger
}

func NewAIHandler(ai *gemini.Client, logger *slog.Logger) *AIHandler {
	return &AIHandler{ai: ai, logger: logger}
}

// HandleGenerate relays a single prompt to the generation API.
//
// POST /api/ai/generate {"prompt"}
func (h *AIHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}
	if req.Prompt == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "prompt is required"})
		return
	}

	text, err := h.ai.Generate(r.Context(), req.Prompt)
	if err != nil {
		h.logger.Error("prompt generation failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"response": text})
}
