package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/codescribe/internal/model"
	"github.com/sakif/codescribe/internal/repository"
)

// compile-time check that *DB implements repository.DocumentationRepository
var _ repository.DocumentationRepository = (*DB)(nil)

// CreateDocumentation records a generation run. The tech stack summary is
// stored as JSON; nothing ever reads it back through the API, it exists as
// an audit trail of what was generated for which repository.
func (db *DB) CreateDocumentation(ctx context.Context, doc *model.Documentation) error {
	doc.ID = xid.New().String()
	doc.CreatedAt = time.Now()

	stack, err := json.Marshal(doc.TechStack)
	if err != nil {
		return fmt.Errorf("sqlite: encoding tech stack: %w", err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO documentations (id, repository_url, generated_docs, tech_stack, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		doc.ID,
		doc.RepositoryURL,
		doc.GeneratedDocs,
		string(stack),
		doc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating documentation record: %w", err)
	}

	return nil
}
