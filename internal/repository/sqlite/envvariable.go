package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/codescribe/internal/apperror"
	"github.com/sakif/codescribe/internal/model"
	"github.com/sakif/codescribe/internal/repository"
)

// compile-time check that *DB implements repository.EnvVariableRepository
var _ repository.EnvVariableRepository = (*DB)(nil)

// CreateEnvVariable inserts a new environment variable for its owner.
func (db *DB) CreateEnvVariable(ctx context.Context, v *model.EnvVariable) error {
	now := time.Now()
	v.ID = xid.New().String()
	v.CreatedAt = now
	v.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO env_variables (id, name, value, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		v.ID, v.Name, v.Value, v.UserID, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating env variable: %w", err)
	}

	return nil
}

// ListEnvVariablesByUser returns every variable owned by userID.
func (db *DB) ListEnvVariablesByUser(ctx context.Context, userID string) ([]model.EnvVariable, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, value, user_id, created_at, updated_at
		 FROM env_variables
		 WHERE user_id = ?
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing env variables: %w", err)
	}
	defer rows.Close()

	vars := []model.EnvVariable{}
	for rows.Next() {
		var v model.EnvVariable
		if err := rows.Scan(
			&v.ID, &v.Name, &v.Value, &v.UserID, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning env variable row: %w", err)
		}
		vars = append(vars, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating env variables: %w", err)
	}

	return vars, nil
}

// UpdateEnvVariableValue overwrites the value of an owned variable. The
// WHERE clause carries the owner check, so a foreign ID simply matches
// nothing and reads as NotFound — the row's existence is never revealed.
func (db *DB) UpdateEnvVariableValue(ctx context.Context, userID, id, value string) (*model.EnvVariable, error) {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE env_variables SET value = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		value, time.Now(), id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: updating env variable %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, apperror.NotFound("environment variable", id)
	}

	var v model.EnvVariable
	err = db.conn.QueryRowContext(ctx,
		`SELECT id, name, value, user_id, created_at, updated_at
		 FROM env_variables
		 WHERE id = ?`,
		id,
	).Scan(&v.ID, &v.Name, &v.Value, &v.UserID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("environment variable", id)
		}
		return nil, fmt.Errorf("sqlite: reading back env variable %s: %w", id, err)
	}

	return &v, nil
}

// DeleteEnvVariableByName removes the oldest variable with the given name
// owned by userID. Duplicate names are allowed; each call removes exactly
// one row, so duplicates take repeated deletes.
func (db *DB) DeleteEnvVariableByName(ctx context.Context, userID, name string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM env_variables
		 WHERE id = (
			SELECT id FROM env_variables
			WHERE user_id = ? AND name = ?
			ORDER BY created_at, id
			LIMIT 1
		 )`,
		userID, name,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting env variable %s: %w", name, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("environment variable", name)
	}

	return nil
}
