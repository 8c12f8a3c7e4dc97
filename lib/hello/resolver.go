package hello

import (
	"context"
	"fmt"
	"time"

	"github.com/ValentinKolb/dDoc/lib/store"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
)

var (
	log = logger.GetLogger("hello")

	fetchTotal       = metrics.NewCounter(`ddoc_hello_fetch_total`)
	fetchErrorsTotal = metrics.NewCounter(`ddoc_hello_fetch_errors_total`)
	readRepairsTotal = metrics.NewCounter(`ddoc_hello_read_repairs_total`)
)

// Resolver answers the hello query using a document store.
// It only depends on the store.IDocStore interface and never needs to know
// which backend is active.
type Resolver struct {
	store store.IDocStore
	now   func() time.Time
}

// NewResolver creates a resolver that reads from (and repairs) s.
func NewResolver(s store.IDocStore) *Resolver {
	return &Resolver{store: s, now: time.Now}
}

// FetchHello returns the hello message. It never fails: every error is logged
// and turned into a Message with ErrorText and no timestamp.
//
// A missing document is repaired: a default message with a local timestamp is
// written to the store and returned as written, without reading it back.
// Two concurrent repairs on a cold store both write, the last write wins.
func (r *Resolver) FetchHello(ctx context.Context) (msg Message) {
	fetchTotal.Inc()
	defer func() {
		if p := recover(); p != nil {
			log.Errorf("panic while fetching hello message: %v", p)
			fetchErrorsTotal.Inc()
			msg = Message{Text: ErrorText}
		}
	}()

	msg, err := r.fetch(ctx)
	if err != nil {
		log.Errorf("error fetching hello message: %v", err)
		fetchErrorsTotal.Inc()
		return Message{Text: ErrorText}
	}
	return msg
}

func (r *Resolver) fetch(ctx context.Context) (Message, error) {
	fields, exists, err := r.store.Get(ctx, Collection, ID)
	if err != nil {
		return Message{}, err
	}

	if !exists {
		return r.repair(ctx)
	}

	msg := Message{Text: DefaultText}
	if text, ok := fields[FieldText].(string); ok && text != "" {
		msg.Text = text
	}
	if iso, ok := store.FormatTimestamp(fields[FieldCreatedAt]); ok {
		msg.CreatedAt = &iso
	}
	return msg, nil
}

// repair writes the default message and returns it
func (r *Resolver) repair(ctx context.Context) (Message, error) {
	createdAt := r.now().UTC()
	if err := r.store.Set(ctx, Collection, ID, store.Fields{
		FieldText:      DefaultText,
		FieldCreatedAt: createdAt,
	}); err != nil {
		return Message{}, fmt.Errorf("failed to write default hello message: %w", err)
	}

	readRepairsTotal.Inc()
	log.Infof("hello message was missing, wrote default message")

	iso := store.FormatTime(createdAt)
	return Message{Text: DefaultText, CreatedAt: &iso}, nil
}
