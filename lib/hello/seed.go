package hello

import (
	"context"
	"fmt"
	"time"

	"github.com/ValentinKolb/dDoc/lib/store"
	"github.com/VictoriaMetrics/metrics"
)

// EnsureSeeded makes sure the hello message exists. If it is missing, a
// document with SeedText and a server-assigned timestamp is written.
// The returned bool reports whether the document was created.
// Errors are returned to the caller and are never retried here.
func EnsureSeeded(ctx context.Context, s store.IDocStore) (created bool, err error) {
	defer func() {
		result := "exists"
		switch {
		case err != nil:
			result = "error"
		case created:
			result = "created"
		}
		metrics.GetOrCreateCounter(fmt.Sprintf(`ddoc_seed_total{result=%q}`, result)).Inc()
	}()

	_, exists, err := s.Get(ctx, Collection, ID)
	if err != nil {
		return false, fmt.Errorf("failed to read hello message: %w", err)
	}
	if exists {
		return false, nil
	}

	if err := s.Set(ctx, Collection, ID, store.Fields{
		FieldText:      SeedText,
		FieldCreatedAt: store.ServerTimestamp,
	}); err != nil {
		return false, fmt.Errorf("failed to write hello message: %w", err)
	}
	log.Infof("initialized database with hello message")
	return true, nil
}

// DefaultDataset returns the dataset used to seed the in-memory store.
// The timestamp is the time the dataset was built.
func DefaultDataset() store.Dataset {
	return store.Dataset{
		Collection: {
			ID: {
				FieldText:      MockText,
				FieldCreatedAt: store.FormatTime(time.Now()),
			},
		},
	}
}
