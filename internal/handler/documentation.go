package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/codescribe/internal/github"
	"github.com/sakif/codescribe/internal/service"
)

// DocumentationHandler serves the repository-analysis routes: fetching
// repository listings and file contents from GitHub, and generating
// documentation from a submitted file tree.
type DocumentationHandler struct {
	docs   *service.DocumentationService
	gh     *github.Client
	logger *slog.Logger
}

func NewDocumentationHandler(docs *service.DocumentationService, gh *github.Client, logger *slog.Logger) *DocumentationHandler {
	return &DocumentationHandler{docs: docs, gh: gh, logger: logger}
}

// HandleFetchRepo returns the top-level listing of a repository. The
// provider's listing is relayed to the client unmodified.
//
// POST /api/documentation/fetch-repo {"repoUrl"}
func (h *DocumentationHandler) HandleFetchRepo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RepoURL string `json:"repoUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	owner, repo, err := github.ParseRepoURL(req.RepoURL)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid repository URL. Format should be: https://github.com/owner/repo",
		})
		return
	}

	entries, err := h.gh.ListContents(r.Context(), owner, repo, "")
	if err != nil {
		h.logger.Error("fetching repository listing failed",
			slog.String("owner", owner),
			slog.String("repo", repo),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

// HandleGenerate produces documentation for a submitted file tree and
// records the run.
//
// POST /api/documentation/generate {"files","repoUrl"}
func (h *DocumentationHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Files   json.RawMessage `json:"files"`
		RepoURL string          `json:"repoUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	result, err := h.docs.Generate(r.Context(), req.Files, req.RepoURL)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleFetchFile returns the decoded content of a single repository file.
//
// POST /api/documentation/fetch-file {"owner","repo","path"}
func (h *DocumentationHandler) HandleFetchFile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Owner string `json:"owner"`
		Repo  string `json:"repo"`
		Path  string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}
	if req.Owner == "" || req.Repo == "" || req.Path == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "owner, repo, and path are required"})
		return
	}

	content, err := h.gh.GetFileContent(r.Context(), req.Owner, req.Repo, req.Path)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"content": content})
}
