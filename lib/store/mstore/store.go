package mstore

import (
	"context"
	"maps"
	"time"

	"github.com/ValentinKolb/dDoc/lib/store"
	"github.com/puzpuzpuz/xsync/v3"
)

type docMap = *xsync.MapOf[string, store.Fields]

type storeImpl struct {
	data *xsync.MapOf[string, docMap]
	now  func() time.Time
}

// Option configures the memory store.
type Option func(*storeImpl)

// WithClock replaces the clock used to resolve store.ServerTimestamp.
func WithClock(now func() time.Time) Option {
	return func(s *storeImpl) {
		s.now = now
	}
}

// NewMemoryStore creates a new in-memory store populated with a deep copy of seed.
// The seed itself is never referenced by the store, so later changes to either
// side are not visible to the other one. A nil seed results in an empty store.
func NewMemoryStore(seed store.Dataset, opts ...Option) store.IDocStore {
	s := &storeImpl{
		data: xsync.NewMapOf[string, docMap](),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	for name, docs := range seed.Clone() {
		c := xsync.NewMapOf[string, store.Fields]()
		for id, fields := range docs {
			c.Store(id, fields)
		}
		s.data.Store(name, c)
	}
	return s
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Get(_ context.Context, collection, id string) (store.Fields, bool, error) {
	c, ok := s.data.Load(collection)
	if !ok {
		return nil, false, nil
	}
	fields, ok := c.Load(id)
	if !ok {
		return nil, false, nil
	}
	// the stored map is never handed out, otherwise callers could change it without Set
	return maps.Clone(fields), true, nil
}

func (s *storeImpl) Set(_ context.Context, collection, id string, fields store.Fields) error {
	c, _ := s.data.LoadOrCompute(collection, func() docMap {
		return xsync.NewMapOf[string, store.Fields]()
	})

	doc := make(store.Fields, len(fields))
	for k, v := range fields {
		if store.IsServerTimestamp(v) {
			v = s.now().UTC()
		}
		doc[k] = v
	}
	c.Store(id, doc)
	return nil
}
