package out

import (
	"context"

	"pomocoin/internal/modules/timer/domain"
)

type SessionStore interface {
	Load(ctx context.Context) (domain.Session, error)
	Save(ctx context.Context, session domain.Session) error
}

// Notifier delivers a best-effort completion notice. Callers ignore errors.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}
