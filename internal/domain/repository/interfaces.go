package repository

import (
	"context"
	"errors"
	"time"

	"EigenFlow/internal/domain/models"
)

// ErrNotFound is returned by a Source when the named file does not exist.
var ErrNotFound = errors.New("source: file not found")

// Source fetches the raw bytes of one named data file.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
	// Kind is "local" or "remote"; used as a metrics label.
	Kind() string
}

// SessionStore keeps per-visitor sessions in process memory.
type SessionStore interface {
	Get(ctx context.Context, id string) (*models.Session, bool)
	Create(ctx context.Context) (*models.Session, error)
	Delete(ctx context.Context, id string)
	Len() int
}

type Metrics interface {
	RecordLoad(source, status string)
	RecordCache(source string, hit bool)
	RecordValidation(outcome string)
	RecordLatency(op string, seconds float64)
	SetSessions(n int)
}

// Clock returns the current time. Injected so expiry logic is testable.
type Clock func() time.Time
