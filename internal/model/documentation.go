package model

import "time"

// TechStack summarizes what the stack detector found in a repository
// listing: languages inferred from file extensions and frameworks inferred
// from a small set of marker files.
type TechStack struct {
	Languages  []string `json:"languages"`
	Frameworks []string `json:"frameworks"`
}

// Documentation is a write-once record of a generation run: which
// repository was analyzed, the generated long-form text, and the detected
// stack. It is persisted after a successful generation call and never read
// back by any route.
type Documentation struct {
	ID            string    `json:"id"            db:"id"`
	RepositoryURL string    `json:"repositoryUrl" db:"repository_url"`
	GeneratedDocs string    `json:"generatedDocs" db:"generated_docs"`
	TechStack     TechStack `json:"techStack"     db:"tech_stack"`
	CreatedAt     time.Time `json:"createdAt"     db:"created_at"`
}
