package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/codescribe/internal/apperror"
	"github.com/sakif/codescribe/internal/model"
	"github.com/sakif/codescribe/internal/repository"
)

// compile-time check that *DB implements repository.SnippetRepository
var _ repository.SnippetRepository = (*DB)(nil)

// Create inserts a new snippet. ID and timestamps are filled in here; the
// caller's struct is updated in place. Tags are stored as a JSON array in
// a TEXT column — SQLite has no array type and the set is only ever read
// back whole.
func (db *DB) Create(ctx context.Context, snippet *model.Snippet) error {
	now := time.Now()
	snippet.ID = xid.New().String()
	snippet.CreatedAt = now
	snippet.UpdatedAt = now

	tags, err := encodeTags(snippet.Tags)
	if err != nil {
		return fmt.Errorf("sqlite: encoding snippet tags: %w", err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO snippets (id, title, description, code, tags, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		snippet.ID,
		snippet.Title,
		snippet.Description,
		snippet.Code,
		tags,
		snippet.UserID,
		snippet.CreatedAt,
		snippet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating snippet: %w", err)
	}

	return nil
}

// GetByID retrieves a snippet by ID, whoever owns it. The service layer
// compares the owner so it can answer 403 instead of 404 for foreign rows.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Snippet, error) {
	var s model.Snippet
	var tags string

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, title, description, code, tags, user_id, created_at, updated_at
		 FROM snippets
		 WHERE id = ?`,
		id,
	).Scan(
		&s.ID, &s.Title, &s.Description, &s.Code, &tags,
		&s.UserID, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("snippet", id)
		}
		return nil, fmt.Errorf("sqlite: getting snippet %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(tags), &s.Tags); err != nil {
		return nil, fmt.Errorf("sqlite: decoding snippet tags: %w", err)
	}

	return &s, nil
}

// ListByUser returns every snippet owned by userID, newest first.
func (db *DB) ListByUser(ctx context.Context, userID string) ([]model.Snippet, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, title, description, code, tags, user_id, created_at, updated_at
		 FROM snippets
		 WHERE user_id = ?
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing snippets: %w", err)
	}
	defer rows.Close()

	snippets := []model.Snippet{}
	for rows.Next() {
		var s model.Snippet
		var tags string
		if err := rows.Scan(
			&s.ID, &s.Title, &s.Description, &s.Code, &tags,
			&s.UserID, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet row: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &s.Tags); err != nil {
			return nil, fmt.Errorf("sqlite: decoding snippet tags: %w", err)
		}
		snippets = append(snippets, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snippets: %w", err)
	}

	return snippets, nil
}

// Delete removes a snippet by ID. RowsAffected distinguishes "deleted"
// from "was never there".
func (db *DB) Delete(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM snippets WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting snippet %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", id)
	}

	return nil
}

// encodeTags marshals tags to a JSON array, treating nil as empty so the
// column never stores "null".
func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
