package selector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ValentinKolb/dDoc/lib/store"
	"github.com/ValentinKolb/dDoc/lib/store/fstore"
	"github.com/ValentinKolb/dDoc/lib/store/mstore"
	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger("selector")

// Backend names the store implementation chosen by the selector.
type Backend string

const (
	BackendFirestore Backend = "firestore"
	BackendMemory    Backend = "memory"
)

// RemoteFactory creates the remote backend from the credentials.
type RemoteFactory func(ctx context.Context, creds fstore.Credentials) (store.IDocStore, error)

// SeedFunc is run in the background after the remote backend was selected.
type SeedFunc func(ctx context.Context, s store.IDocStore) (created bool, err error)

// Config holds everything the selector needs to pick a backend.
type Config struct {
	// Credentials select the remote backend if all three values are present.
	Credentials fstore.Credentials
	// Seed populates the in-memory backend.
	Seed store.Dataset
	// Remote creates the remote backend. Defaults to fstore.NewFirestoreStore.
	Remote RemoteFactory
	// OnRemote is run once in the background if the remote backend is selected (optional).
	OnRemote SeedFunc
	// SeedTimeout bounds OnRemote. Zero means no timeout.
	SeedTimeout time.Duration
}

// Handle is the active backend. It is created once and stays valid for the
// lifetime of the process.
type Handle struct {
	Store   store.IDocStore
	Backend Backend
	seeded  chan struct{}
}

// Seeded returns a channel that is closed once background seeding has finished
// (successfully or not). For handles that are not seeded it is closed already.
func (h *Handle) Seeded() <-chan struct{} {
	return h.seeded
}

// Selector picks the document store backend exactly once.
type Selector struct {
	config Config
	once   sync.Once
	handle *Handle
}

// New creates a selector for the given configuration. No backend is created
// until Init is called.
func New(config Config) *Selector {
	if config.Remote == nil {
		config.Remote = func(ctx context.Context, creds fstore.Credentials) (store.IDocStore, error) {
			fs, err := fstore.NewFirestoreStore(ctx, creds)
			if err != nil {
				return nil, err
			}
			return fs, nil
		}
	}
	return &Selector{config: config}
}

// Init selects the backend on the first call and returns the same handle on
// every later call. It never fails: if the remote backend can't be created
// the in-memory backend is used instead.
//
// Init is safe for concurrent use.
func (s *Selector) Init(ctx context.Context) *Handle {
	s.once.Do(func() {
		s.handle = s.selectBackend(ctx)
	})
	return s.handle
}

// selectBackend creates the backend and starts seeding for remote backends
func (s *Selector) selectBackend(ctx context.Context) *Handle {
	h := &Handle{seeded: make(chan struct{})}

	if s.config.Credentials.Complete() {
		remote, err := s.createRemote(ctx)
		if err == nil {
			log.Infof("using firestore backend (%s)", s.config.Credentials)
			h.Store = remote
			h.Backend = BackendFirestore
		} else {
			log.Warningf("error initializing firestore, using in-memory store: %v", err)
		}
	} else {
		log.Infof("no firebase credentials configured, using in-memory store")
	}

	if h.Store == nil {
		h.Store = mstore.NewMemoryStore(s.config.Seed)
		h.Backend = BackendMemory
	}

	if h.Backend == BackendFirestore && s.config.OnRemote != nil {
		go s.seed(context.WithoutCancel(ctx), h)
	} else {
		close(h.seeded)
	}
	return h
}

// createRemote calls the remote factory, panics are turned into errors
func (s *Selector) createRemote(ctx context.Context) (remote store.IDocStore, err error) {
	defer func() {
		if p := recover(); p != nil {
			remote, err = nil, fmt.Errorf("panic while creating remote store: %v", p)
		}
	}()
	remote, err = s.config.Remote(ctx, s.config.Credentials)
	if err == nil && remote == nil {
		err = fmt.Errorf("remote factory returned no store")
	}
	return remote, err
}

// seed runs the seed function, its failures are only logged
func (s *Selector) seed(ctx context.Context, h *Handle) {
	defer close(h.seeded)
	defer func() {
		if p := recover(); p != nil {
			log.Errorf("panic while initializing database: %v", p)
		}
	}()

	if s.config.SeedTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.SeedTimeout)
		defer cancel()
	}

	if _, err := s.config.OnRemote(ctx, h.Store); err != nil {
		log.Errorf("error initializing database: %v", err)
	}
}
