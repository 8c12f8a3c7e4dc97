package selector

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ValentinKolb/dDoc/lib/store"
	"github.com/ValentinKolb/dDoc/lib/store/fstore"
	"github.com/ValentinKolb/dDoc/lib/store/mstore"
)

var testCreds = fstore.Credentials{ProjectID: "demo", PrivateKey: "key", ClientEmail: "svc@demo"}

var testSeed = store.Dataset{"messages": {"hello": {"text": "seeded"}}}

// waitSeeded fails the test if background seeding does not finish in time
func waitSeeded(t *testing.T, h *Handle) {
	t.Helper()
	select {
	case <-h.Seeded():
	case <-time.After(5 * time.Second):
		t.Fatal("seeding did not finish")
	}
}

func TestNoCredentialsUsesMemory(t *testing.T) {
	var remoteCalls atomic.Int32
	s := New(Config{
		Credentials: fstore.Credentials{ProjectID: "demo"},
		Seed:        testSeed,
		Remote: func(context.Context, fstore.Credentials) (store.IDocStore, error) {
			remoteCalls.Add(1)
			return mstore.NewMemoryStore(nil), nil
		},
	})

	h := s.Init(context.Background())
	if h.Backend != BackendMemory {
		t.Fatalf("Expected memory backend, got %s", h.Backend)
	}
	if remoteCalls.Load() != 0 {
		t.Errorf("Remote factory must not be called without complete credentials")
	}
	waitSeeded(t, h)

	fields, exists, err := h.Store.Get(context.Background(), "messages", "hello")
	if err != nil || !exists || fields["text"] != "seeded" {
		t.Errorf("Expected memory store populated from the seed, got %v %v %v", fields, exists, err)
	}
}

func TestRemoteFailureFallsBackToMemory(t *testing.T) {
	tests := []struct {
		name   string
		remote RemoteFactory
	}{
		{"error", func(context.Context, fstore.Credentials) (store.IDocStore, error) {
			return nil, errors.New("permission denied")
		}},
		{"panic", func(context.Context, fstore.Credentials) (store.IDocStore, error) {
			panic("broken sdk")
		}},
		{"nil store", func(context.Context, fstore.Credentials) (store.IDocStore, error) {
			return nil, nil
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var seedCalls atomic.Int32
			s := New(Config{
				Credentials: testCreds,
				Seed:        testSeed,
				Remote:      tc.remote,
				OnRemote: func(context.Context, store.IDocStore) (bool, error) {
					seedCalls.Add(1)
					return false, nil
				},
			})

			h := s.Init(context.Background())
			if h.Backend != BackendMemory {
				t.Fatalf("Expected fallback to memory backend, got %s", h.Backend)
			}
			waitSeeded(t, h)
			if seedCalls.Load() != 0 {
				t.Errorf("Seeding must only run for the remote backend")
			}
		})
	}
}

func TestDefaultRemoteRejectsInvalidCredentials(t *testing.T) {
	// the key is not a PEM key, so the firestore store can't be created
	h := New(Config{Credentials: testCreds}).Init(context.Background())
	if h.Backend != BackendMemory {
		t.Errorf("Expected fallback to memory backend, got %s", h.Backend)
	}
}

func TestRemoteIsSeededInBackground(t *testing.T) {
	remote := mstore.NewMemoryStore(nil)
	s := New(Config{
		Credentials: testCreds,
		Remote: func(context.Context, fstore.Credentials) (store.IDocStore, error) {
			return remote, nil
		},
		OnRemote: func(ctx context.Context, s store.IDocStore) (bool, error) {
			return true, s.Set(ctx, "messages", "hello", store.Fields{"text": "from seed"})
		},
	})

	h := s.Init(context.Background())
	if h.Backend != BackendFirestore {
		t.Fatalf("Expected firestore backend, got %s", h.Backend)
	}
	if h.Store != remote {
		t.Fatalf("Expected the store created by the remote factory")
	}
	waitSeeded(t, h)

	fields, exists, _ := remote.Get(context.Background(), "messages", "hello")
	if !exists || fields["text"] != "from seed" {
		t.Errorf("Expected seeded document, got %v", fields)
	}
}

func TestSeedFailureIsSwallowed(t *testing.T) {
	for name, seed := range map[string]SeedFunc{
		"error": func(context.Context, store.IDocStore) (bool, error) { return false, errors.New("network down") },
		"panic": func(context.Context, store.IDocStore) (bool, error) { panic("seed exploded") },
	} {
		t.Run(name, func(t *testing.T) {
			s := New(Config{
				Credentials: testCreds,
				Remote: func(context.Context, fstore.Credentials) (store.IDocStore, error) {
					return mstore.NewMemoryStore(nil), nil
				},
				OnRemote: seed,
			})

			h := s.Init(context.Background())
			waitSeeded(t, h)
			if h.Backend != BackendFirestore {
				t.Errorf("Seeding failures must not change the backend, got %s", h.Backend)
			}
			if err := h.Store.Set(context.Background(), "c", "d", store.Fields{}); err != nil {
				t.Errorf("Store must stay usable after a seeding failure: %v", err)
			}
		})
	}
}

func TestSeedOutlivesInitContext(t *testing.T) {
	release := make(chan struct{})
	seedErr := make(chan error, 1)
	s := New(Config{
		Credentials: testCreds,
		Remote: func(context.Context, fstore.Credentials) (store.IDocStore, error) {
			return mstore.NewMemoryStore(nil), nil
		},
		OnRemote: func(ctx context.Context, _ store.IDocStore) (bool, error) {
			<-release
			seedErr <- ctx.Err()
			return false, nil
		},
		SeedTimeout: time.Minute,
	})

	ctx, cancel := context.WithCancel(context.Background())
	h := s.Init(ctx)
	cancel()
	close(release)
	waitSeeded(t, h)

	if err := <-seedErr; err != nil {
		t.Errorf("Cancelling the init context must not cancel seeding: %v", err)
	}
}

func TestInitIsIdempotent(t *testing.T) {
	var remoteCalls, seedCalls atomic.Int32
	s := New(Config{
		Credentials: testCreds,
		Remote: func(context.Context, fstore.Credentials) (store.IDocStore, error) {
			remoteCalls.Add(1)
			return mstore.NewMemoryStore(nil), nil
		},
		OnRemote: func(context.Context, store.IDocStore) (bool, error) {
			seedCalls.Add(1)
			return true, nil
		},
	})

	var wg sync.WaitGroup
	handles := make([]*Handle, 16)
	for i := range handles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handles[i] = s.Init(context.Background())
		}(i)
	}
	wg.Wait()

	for i, h := range handles {
		if h != handles[0] {
			t.Fatalf("Init call %d returned a different handle", i)
		}
	}
	waitSeeded(t, handles[0])
	if remoteCalls.Load() != 1 {
		t.Errorf("Expected exactly one backend creation, got %d", remoteCalls.Load())
	}
	if seedCalls.Load() != 1 {
		t.Errorf("Expected exactly one seeding run, got %d", seedCalls.Load())
	}
}
