package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/codescribe/internal/apperror"
	"github.com/sakif/codescribe/internal/model"
	"github.com/sakif/codescribe/internal/repository"
)

const (
	MaxSnippetTitleLength = 100
	MaxSnippetCodeLength  = 100000
)

// SnippetService handles business logic for code snippets. Every operation
// is scoped to the authenticated owner.
type SnippetService struct {
	repo   repository.SnippetRepository
	logger *slog.Logger
}

func NewSnippetService(repo repository.SnippetRepository, logger *slog.Logger) *SnippetService {
	return &SnippetService{
		repo:   repo,
		logger: logger,
	}
}

// Create validates and saves a new snippet owned by userID.
func (s *SnippetService) Create(ctx context.Context, userID, title, description, code string, tags []string) (*model.Snippet, error) {
	title = strings.TrimSpace(title)

	if title == "" {
		return nil, apperror.ValidationFailed("title", "snippet title is required")
	}
	if len(title) > MaxSnippetTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("snippet title must be %d characters or less", MaxSnippetTitleLength))
	}
	if code == "" {
		return nil, apperror.ValidationFailed("code", "snippet code is required")
	}
	if len(code) > MaxSnippetCodeLength {
		return nil, apperror.ValidationFailed("code",
			fmt.Sprintf("code must be %d characters or less", MaxSnippetCodeLength))
	}

	snippet := &model.Snippet{
		Title:       title,
		Description: strings.TrimSpace(description),
		Code:        code,
		Tags:        tags,
		UserID:      userID,
	}
	if err := s.repo.Create(ctx, snippet); err != nil {
		s.logger.Error("failed to create snippet",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating snippet: %w", err)
	}

	s.logger.Info("snippet created",
		slog.String("id", snippet.ID),
		slog.String("userID", userID),
	)

	return snippet, nil
}

// ListByOwner returns every snippet owned by userID, newest first.
func (s *SnippetService) ListByOwner(ctx context.Context, userID string) ([]model.Snippet, error) {
	snippets, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list snippets",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing snippets: %w", err)
	}
	return snippets, nil
}

// Delete removes a snippet owned by userID.
//
// The lookup runs first so absence and foreign ownership stay distinct:
// a missing snippet is apperror.ErrNotFound, a snippet owned by someone
// else is apperror.ErrForbidden and is left untouched.
func (s *SnippetService) Delete(ctx context.Context, userID, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "snippet ID is required")
	}

	snippet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if snippet.UserID != userID {
		return apperror.Forbidden("you do not own this snippet")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("snippet deleted",
		slog.String("id", id),
		slog.String("userID", userID),
	)
	return nil
}
