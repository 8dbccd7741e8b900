package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/sakif/codescribe/internal/apperror"
	"github.com/sakif/codescribe/internal/gemini"
	"github.com/sakif/codescribe/internal/model"
	"github.com/sakif/codescribe/internal/repository"
	"github.com/sakif/codescribe/internal/techstack"
)

// DocumentationService orchestrates documentation and diagram generation:
// detect the stack from the submitted file tree, call the generation API,
// and record successful documentation runs.
type DocumentationService struct {
	ai     *gemini.Client
	docs   repository.DocumentationRepository
	logger *slog.Logger
}

func NewDocumentationService(ai *gemini.Client, docs repository.DocumentationRepository, logger *slog.Logger) *DocumentationService {
	return &DocumentationService{
		ai:     ai,
		docs:   docs,
		logger: logger,
	}
}

// GenerationResult is the outcome of a documentation run.
type GenerationResult struct {
	Documentation string          `json:"documentation"`
	TechStack     model.TechStack `json:"techStack"`
}

// Generate produces documentation for a repository file tree and persists
// the run. The persisted record is write-once bookkeeping; a storage
// failure after a successful generation still fails the call.
func (s *DocumentationService) Generate(ctx context.Context, files json.RawMessage, repoURL string) (*GenerationResult, error) {
	if len(files) == 0 {
		return nil, apperror.ValidationFailed("files", "repository files are required")
	}

	stack, err := techstack.DetectFromJSON(files)
	if err != nil {
		return nil, apperror.ValidationFailed("files", "repository files must be a valid file tree")
	}

	docs, err := s.ai.GenerateDocumentation(ctx, files, stack)
	if err != nil {
		return nil, err
	}

	record := &model.Documentation{
		RepositoryURL: repoURL,
		GeneratedDocs: docs,
		TechStack:     stack,
	}
	if err := s.docs.CreateDocumentation(ctx, record); err != nil {
		s.logger.Error("failed to persist documentation",
			slog.String("repoURL", repoURL),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("persisting documentation: %w", err)
	}

	s.logger.Info("documentation generated",
		slog.String("id", record.ID),
		slog.String("repoURL", repoURL),
	)

	return &GenerationResult{
		Documentation: docs,
		TechStack:     stack,
	}, nil
}

// GenerateDiagram produces a Mermaid diagram for a repository file tree.
// Diagram runs are not persisted.
func (s *DocumentationService) GenerateDiagram(ctx context.Context, files json.RawMessage, diagramType string) (*gemini.DiagramResult, error) {
	if len(files) == 0 || diagramType == "" {
		return nil, apperror.ValidationFailed("diagramType", "repository files and diagram type are required")
	}

	result, err := s.ai.GenerateDiagram(ctx, files, diagramType)
	if err != nil {
		return nil, err
	}

	s.logger.Info("diagram generated", slog.String("type", diagramType))
	return result, nil
}
