package store

import (
	"context"
	"fmt"
	"time"

	mdwerror "github.com/msto63/sexpad/foundation/core/error"
)

// Submission is one source text sent to the reader and its outcome
type Submission struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Canonical string    `json:"canonical,omitempty"`
	ExprCount int       `json:"expr_count"`
	CreatedAt time.Time `json:"created_at"`

	// Set when the source failed to parse
	ErrorKind    string `json:"error_kind,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	ErrorLine    int    `json:"error_line,omitempty"`
	ErrorColumn  int    `json:"error_column,omitempty"`
}

// Failed reports whether the submission ended in a parse error
func (s *Submission) Failed() bool {
	return s.ErrorKind != ""
}

// Stats summarises the stored history
type Stats struct {
	Total  int `json:"total"`
	Failed int `json:"failed"`
}

// Store defines the interface for submission history persistence
type Store interface {
	Save(ctx context.Context, sub *Submission) error
	Get(ctx context.Context, id string) (*Submission, error)

	// List returns submissions newest first
	List(ctx context.Context, limit, offset int) ([]*Submission, error)

	// Prune deletes submissions created before olderThan
	Prune(ctx context.Context, olderThan time.Time) (int64, error)

	Statistics(ctx context.Context) (*Stats, error)
	Ping(ctx context.Context) error
	Close() error
}

// Open creates a store for the given driver ("sqlite" or "memory")
func Open(driver, path string) (Store, error) {
	switch driver {
	case "sqlite":
		return NewSQLiteStore(SQLiteConfig{Path: path})
	case "memory", "":
		return NewMemoryStore(), nil
	default:
		return nil, mdwerror.New(fmt.Sprintf("unknown store driver %q", driver)).
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("store.Open")
	}
}

func notFound(id string) error {
	return mdwerror.New(fmt.Sprintf("submission %s not found", id)).
		WithCode(mdwerror.CodeNotFound).
		WithOperation("store.Get").
		WithDetail("id", id)
}

func validate(sub *Submission) error {
	if sub == nil || sub.ID == "" {
		return mdwerror.New("submission ID is required").
			WithCode(mdwerror.CodeRequiredField).
			WithOperation("store.Save").
			WithDetail("field", "id")
	}
	return nil
}
