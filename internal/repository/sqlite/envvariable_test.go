package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/codescribe/internal/apperror"
	"github.com/sakif/codescribe/internal/model"
)

func createTestEnvVariable(t *testing.T, db *DB, userID, name, value string) *model.EnvVariable {
	t.Helper()
	v := &model.EnvVariable{Name: name, Value: value, UserID: userID}
	if err := db.CreateEnvVariable(context.Background(), v); err != nil {
		t.Fatalf("failed to create test env variable: %v", err)
	}
	return v
}

func TestCreateEnvVariable(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Alice", "alice@example.com")

	v := createTestEnvVariable(t, db, user.ID, "API_KEY", "secret")

	if v.ID == "" {
		t.Error("CreateEnvVariable() did not set ID")
	}
}

func TestListEnvVariablesByUser_ScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "Alice", "alice@example.com")
	bob := createTestUser(t, db, "Bob", "bob@example.com")

	createTestEnvVariable(t, db, alice.ID, "A", "1")
	createTestEnvVariable(t, db, bob.ID, "B", "2")

	got, err := db.ListEnvVariablesByUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListEnvVariablesByUser() error = %v", err)
	}
	if len(got) != 1 || got[0].Name != "A" {
		t.Errorf("ListEnvVariablesByUser() = %v, want only Alice's variable", got)
	}
}

func TestListEnvVariablesByUser_EmptyIsNotError(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Alice", "alice@example.com")

	got, err := db.ListEnvVariablesByUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListEnvVariablesByUser() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("ListEnvVariablesByUser() = %#v, want empty non-nil slice", got)
	}
}

func TestUpdateEnvVariableValue(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "Alice", "alice@example.com")
	v := createTestEnvVariable(t, db, user.ID, "API_KEY", "old")

	updated, err := db.UpdateEnvVariableValue(ctx, user.ID, v.ID, "new")
	if err != nil {
		t.Fatalf("UpdateEnvVariableValue() error = %v", err)
	}
	if updated.Value != "new" {
		t.Errorf("Value = %q, want %q", updated.Value, "new")
	}
	if updated.Name != "API_KEY" {
		t.Errorf("Name changed to %q; only the value is mutable", updated.Name)
	}
}

func TestUpdateEnvVariableValue_ForeignOwnerReadsAsNotFound(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "Alice", "alice@example.com")
	bob := createTestUser(t, db, "Bob", "bob@example.com")
	v := createTestEnvVariable(t, db, alice.ID, "API_KEY", "secret")

	_, err := db.UpdateEnvVariableValue(ctx, bob.ID, v.ID, "stolen")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("UpdateEnvVariableValue() as foreign owner = %v, want ErrNotFound", err)
	}

	// Alice's value must be untouched.
	vars, err := db.ListEnvVariablesByUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListEnvVariablesByUser() error = %v", err)
	}
	if vars[0].Value != "secret" {
		t.Errorf("foreign update mutated the record: value = %q", vars[0].Value)
	}
}

func TestDeleteEnvVariableByName(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "Alice", "alice@example.com")
	createTestEnvVariable(t, db, user.ID, "API_KEY", "1")

	if err := db.DeleteEnvVariableByName(ctx, user.ID, "API_KEY"); err != nil {
		t.Fatalf("DeleteEnvVariableByName() error = %v", err)
	}

	vars, _ := db.ListEnvVariablesByUser(ctx, user.ID)
	if len(vars) != 0 {
		t.Errorf("variable still present after delete: %v", vars)
	}
}

func TestDeleteEnvVariableByName_RemovesOneDuplicateAtATime(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "Alice", "alice@example.com")
	createTestEnvVariable(t, db, user.ID, "API_KEY", "1")
	createTestEnvVariable(t, db, user.ID, "API_KEY", "2")
	createTestEnvVariable(t, db, user.ID, "OTHER", "3")

	if err := db.DeleteEnvVariableByName(ctx, user.ID, "API_KEY"); err != nil {
		t.Fatalf("DeleteEnvVariableByName() error = %v", err)
	}

	vars, _ := db.ListEnvVariablesByUser(ctx, user.ID)
	if len(vars) != 2 {
		t.Fatalf("after first delete got %d variables, want 2", len(vars))
	}
	for _, v := range vars {
		if v.Name == "API_KEY" && v.Value != "2" {
			t.Errorf("first delete should remove the oldest API_KEY, found value %q", v.Value)
		}
	}

	if err := db.DeleteEnvVariableByName(ctx, user.ID, "API_KEY"); err != nil {
		t.Fatalf("second DeleteEnvVariableByName() error = %v", err)
	}

	vars, _ = db.ListEnvVariablesByUser(ctx, user.ID)
	if len(vars) != 1 || vars[0].Name != "OTHER" {
		t.Errorf("after second delete got %v, want only OTHER", vars)
	}
}

func TestDeleteEnvVariableByName_ForeignOwner(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "Alice", "alice@example.com")
	bob := createTestUser(t, db, "Bob", "bob@example.com")
	createTestEnvVariable(t, db, alice.ID, "API_KEY", "secret")

	err := db.DeleteEnvVariableByName(ctx, bob.ID, "API_KEY")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("DeleteEnvVariableByName() as foreign owner = %v, want ErrNotFound", err)
	}

	vars, _ := db.ListEnvVariablesByUser(ctx, alice.ID)
	if len(vars) != 1 {
		t.Error("foreign delete removed the owner's record")
	}
}
