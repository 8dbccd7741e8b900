package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/sakif/codescribe/internal/apperror"
	"github.com/sakif/codescribe/internal/model"
)

type mockEnvVariableRepo struct {
	vars   map[string]*model.EnvVariable
	nextID int
}

func newMockEnvVariableRepo() *mockEnvVariableRepo {
	return &mockEnvVariableRepo{vars: make(map[string]*model.EnvVariable)}
}

func (m *mockEnvVariableRepo) CreateEnvVariable(_ context.Context, v *model.EnvVariable) error {
	m.nextID++
	v.ID = fmt.Sprintf("var-%d", m.nextID)
	stored := *v
	m.vars[v.ID] = &stored
	return nil
}

func (m *mockEnvVariableRepo) ListEnvVariablesByUser(_ context.Context, userID string) ([]model.EnvVariable, error) {
	result := []model.EnvVariable{}
	for _, v := range m.vars {
		if v.UserID == userID {
			result = append(result, *v)
		}
	}
	return result, nil
}

func (m *mockEnvVariableRepo) UpdateEnvVariableValue(_ context.Context, userID, id, value string) (*model.EnvVariable, error) {
	v, ok := m.vars[id]
	if !ok || v.UserID != userID {
		return nil, apperror.NotFound("env variable", id)
	}
	v.Value = value
	result := *v
	return &result, nil
}

func (m *mockEnvVariableRepo) DeleteEnvVariableByName(_ context.Context, userID, name string) error {
	// Lowest-numbered ID stands in for oldest-first ordering.
	oldest := ""
	for id, v := range m.vars {
		if v.UserID != userID || v.Name != name {
			continue
		}
		if oldest == "" || len(id) < len(oldest) || (len(id) == len(oldest) && id < oldest) {
			oldest = id
		}
	}
	if oldest == "" {
		return apperror.NotFound("env variable", name)
	}
	delete(m.vars, oldest)
	return nil
}

func newTestEnvVariableService(t *testing.T) (*EnvVariableService, *mockEnvVariableRepo) {
	t.Helper()
	repo := newMockEnvVariableRepo()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewEnvVariableService(repo, logger), repo
}

func TestEnvVariableCreate(t *testing.T) {
	svc, _ := newTestEnvVariableService(t)

	v, err := svc.Create(context.Background(), "user-a", "API_KEY", "secret")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if v.UserID != "user-a" || v.Name != "API_KEY" || v.Value != "secret" {
		t.Errorf("got %+v", v)
	}
}

func TestEnvVariableCreate_Validation(t *testing.T) {
	svc, _ := newTestEnvVariableService(t)

	if _, err := svc.Create(context.Background(), "user-a", "", "v"); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("missing name: expected ErrValidation, got %v", err)
	}
	if _, err := svc.Create(context.Background(), "user-a", "NAME", ""); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("missing value: expected ErrValidation, got %v", err)
	}
}

func TestEnvVariableCreate_DuplicateNamesAllowed(t *testing.T) {
	svc, _ := newTestEnvVariableService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "user-a", "API_KEY", "one"); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := svc.Create(ctx, "user-a", "API_KEY", "two"); err != nil {
		t.Fatalf("duplicate name rejected: %v", err)
	}

	vars, err := svc.ListByOwner(ctx, "user-a")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(vars) != 2 {
		t.Errorf("got %d variables, want 2", len(vars))
	}
}

func TestEnvVariableUpdateValue_OwnerScoped(t *testing.T) {
	svc, _ := newTestEnvVariableService(t)
	ctx := context.Background()

	v, err := svc.Create(ctx, "user-a", "API_KEY", "old")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.UpdateValue(ctx, "user-a", v.ID, "new")
	if err != nil {
		t.Fatalf("UpdateValue: %v", err)
	}
	if updated.Value != "new" || updated.Name != "API_KEY" {
		t.Errorf("got %+v", updated)
	}

	// A foreign owner with a known ID reads as not found.
	if _, err := svc.UpdateValue(ctx, "user-b", v.ID, "stolen"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("foreign update: expected ErrNotFound, got %v", err)
	}
}

func TestEnvVariableDeleteByName_RemovesOneMatchPerCall(t *testing.T) {
	svc, _ := newTestEnvVariableService(t)
	ctx := context.Background()

	for _, value := range []string{"one", "two"} {
		if _, err := svc.Create(ctx, "user-a", "API_KEY", value); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if _, err := svc.Create(ctx, "user-b", "API_KEY", "other"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.DeleteByName(ctx, "user-a", "API_KEY"); err != nil {
		t.Fatalf("DeleteByName: %v", err)
	}

	varsA, _ := svc.ListByOwner(ctx, "user-a")
	if len(varsA) != 1 {
		t.Fatalf("user-a has %d variables after first delete, want 1", len(varsA))
	}
	if varsA[0].Value != "two" {
		t.Errorf("first delete should remove the oldest variable, kept value %q", varsA[0].Value)
	}

	if err := svc.DeleteByName(ctx, "user-a", "API_KEY"); err != nil {
		t.Fatalf("second DeleteByName: %v", err)
	}

	varsA, _ = svc.ListByOwner(ctx, "user-a")
	if len(varsA) != 0 {
		t.Errorf("user-a still has %d variables", len(varsA))
	}
	varsB, _ := svc.ListByOwner(ctx, "user-b")
	if len(varsB) != 1 {
		t.Errorf("user-b's variable was deleted")
	}
}

func TestEnvVariableDeleteByName_NoMatch(t *testing.T) {
	svc, _ := newTestEnvVariableService(t)

	err := svc.DeleteByName(context.Background(), "user-a", "NOPE")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
