package coordinator

import (
	"context"
	"errors"
	"fmt"

	"focusdesk/internal/core/session"
)

// Persister stores a batch of sessions. It must accept an empty batch.
type Persister interface {
	Persist(ctx context.Context, sessions []session.FocusSession) error
}

// PersisterFunc adapts a function to Persister.
type PersisterFunc func(ctx context.Context, sessions []session.FocusSession) error

// Persist calls fn.
func (fn PersisterFunc) Persist(ctx context.Context, sessions []session.FocusSession) error {
	return fn(ctx, sessions)
}

// Persisters fans a batch out to every member and joins their errors.
type Persisters []Persister

// Persist hands the batch to each persister in order.
func (persisters Persisters) Persist(ctx context.Context, sessions []session.FocusSession) error {
	var errs []error
	for index, persister := range persisters {
		if persister == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, fmt.Errorf("persist sessions: %w", err))
			break
		}
		if err := persister.Persist(ctx, sessions); err != nil {
			errs = append(errs, fmt.Errorf("persister %d: %w", index, err))
		}
	}
	return errors.Join(errs...)
}
