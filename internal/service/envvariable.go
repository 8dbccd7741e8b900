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

// EnvVariableService handles business logic for per-user environment
// variables. Duplicate names are permitted; DeleteByName removes one
// matching row per call.
type EnvVariableService struct {
	repo   repository.EnvVariableRepository
	logger *slog.Logger
}

func NewEnvVariableService(repo repository.EnvVariableRepository, logger *slog.Logger) *EnvVariableService {
	return &EnvVariableService{
		repo:   repo,
		logger: logger,
	}
}

// Create saves a new variable owned by userID. Name and value are both
// required; the name is trimmed, the value is stored verbatim.
func (s *EnvVariableService) Create(ctx context.Context, userID, name, value string) (*model.EnvVariable, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "variable name is required")
	}
	if value == "" {
		return nil, apperror.ValidationFailed("value", "variable value is required")
	}

	v := &model.EnvVariable{
		Name:   name,
		Value:  value,
		UserID: userID,
	}
	if err := s.repo.CreateEnvVariable(ctx, v); err != nil {
		s.logger.Error("failed to create env variable",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating env variable: %w", err)
	}

	s.logger.Info("env variable created",
		slog.String("id", v.ID),
		slog.String("userID", userID),
	)

	return v, nil
}

// ListByOwner returns every variable owned by userID.
func (s *EnvVariableService) ListByOwner(ctx context.Context, userID string) ([]model.EnvVariable, error) {
	vars, err := s.repo.ListEnvVariablesByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list env variables",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing env variables: %w", err)
	}
	return vars, nil
}

// UpdateValue overwrites the value of the variable with the given ID.
// Only the value is mutable; the update is scoped to the owner in the
// repository, so a foreign variable reads as not found.
func (s *EnvVariableService) UpdateValue(ctx context.Context, userID, id, value string) (*model.EnvVariable, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "variable ID is required")
	}
	if value == "" {
		return nil, apperror.ValidationFailed("value", "variable value is required")
	}

	v, err := s.repo.UpdateEnvVariableValue(ctx, userID, id, value)
	if err != nil {
		return nil, err
	}

	s.logger.Info("env variable updated",
		slog.String("id", id),
		slog.String("userID", userID),
	)

	return v, nil
}

// DeleteByName removes the oldest variable with the given name owned by
// userID. Returns apperror.ErrNotFound if nothing matched.
func (s *EnvVariableService) DeleteByName(ctx context.Context, userID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperror.ValidationFailed("name", "variable name is required")
	}

	if err := s.repo.DeleteEnvVariableByName(ctx, userID, name); err != nil {
		return err
	}

	s.logger.Info("env variable deleted",
		slog.String("name", name),
		slog.String("userID", userID),
	)
	return nil
}
