package testing

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ValentinKolb/dDoc/lib/store"
	"github.com/google/uuid"
)

// StoreFactory is a function that creates a new, empty instance of an IDocStore implementation
type StoreFactory func(t *testing.T) store.IDocStore

// RunDocStoreTests runs the conformance test suite for an IDocStore implementation.
// Every sub test uses its own collection, so persistent backends may share state between runs.
func RunDocStoreTests(t *testing.T, name string, factory StoreFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("GetMissing", func(t *testing.T) {
			testGetMissing(t, factory(t))
		})

		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, factory(t))
		})

		t.Run("Overwrite", func(t *testing.T) {
			testOverwrite(t, factory(t))
		})

		t.Run("CollectionIsolation", func(t *testing.T) {
			testCollectionIsolation(t, factory(t))
		})

		t.Run("ServerTimestamp", func(t *testing.T) {
			testServerTimestamp(t, factory(t))
		})

		t.Run("NilField", func(t *testing.T) {
			testNilField(t, factory(t))
		})

		t.Run("GetReturnsCopy", func(t *testing.T) {
			testGetReturnsCopy(t, factory(t))
		})

		t.Run("ConcurrentAccess", func(t *testing.T) {
			testConcurrentAccess(t, factory(t))
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// uniqueCollection returns a collection name that is not used by any other test run
func uniqueCollection(t *testing.T) string {
	t.Helper()
	return "conformance-" + uuid.NewString()
}

func mustSet(t *testing.T, s store.IDocStore, collection, id string, fields store.Fields) {
	t.Helper()
	if err := s.Set(context.Background(), collection, id, fields); err != nil {
		t.Fatalf("Set(%s, %s) failed: %v", collection, id, err)
	}
}

func mustGet(t *testing.T, s store.IDocStore, collection, id string) (store.Fields, bool) {
	t.Helper()
	fields, exists, err := s.Get(context.Background(), collection, id)
	if err != nil {
		t.Fatalf("Get(%s, %s) failed: %v", collection, id, err)
	}
	return fields, exists
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testGetMissing(t *testing.T, s store.IDocStore) {
	collection := uniqueCollection(t)

	fields, exists := mustGet(t, s, collection, "never-written")
	if exists {
		t.Errorf("Expected never written document to return exists=false")
	}
	if fields != nil {
		t.Errorf("Expected nil fields for missing document, got %v", fields)
	}

	// a write to another id must not create this one
	mustSet(t, s, collection, "other", store.Fields{"text": "x"})
	if _, exists := mustGet(t, s, collection, "never-written"); exists {
		t.Errorf("Expected document to stay missing after writing a sibling")
	}
}

func testSetGet(t *testing.T, s store.IDocStore) {
	collection := uniqueCollection(t)

	mustSet(t, s, collection, "doc", store.Fields{"text": "hello", "lang": "en"})

	fields, exists := mustGet(t, s, collection, "doc")
	if !exists {
		t.Fatalf("Expected document to exist after Set")
	}
	if fields["text"] != "hello" || fields["lang"] != "en" {
		t.Errorf("Expected the written fields, got %v", fields)
	}
}

func testOverwrite(t *testing.T, s store.IDocStore) {
	collection := uniqueCollection(t)

	mustSet(t, s, collection, "doc", store.Fields{"text": "first", "extra": "value"})
	mustSet(t, s, collection, "doc", store.Fields{"text": "second"})

	fields, exists := mustGet(t, s, collection, "doc")
	if !exists {
		t.Fatalf("Expected document to exist after overwrite")
	}
	if fields["text"] != "second" {
		t.Errorf("Expected text=second, got %v", fields["text"])
	}
	if _, ok := fields["extra"]; ok {
		t.Errorf("Expected Set to replace the whole document, found stale field extra")
	}
}

func testCollectionIsolation(t *testing.T, s store.IDocStore) {
	a := uniqueCollection(t) + "-a"
	b := uniqueCollection(t) + "-b"

	mustSet(t, s, a, "doc", store.Fields{"text": "in a"})
	mustSet(t, s, b, "doc", store.Fields{"text": "in b"})

	fa, _ := mustGet(t, s, a, "doc")
	fb, _ := mustGet(t, s, b, "doc")
	if fa["text"] != "in a" {
		t.Errorf("Expected collection a to hold its own document, got %v", fa["text"])
	}
	if fb["text"] != "in b" {
		t.Errorf("Expected collection b to hold its own document, got %v", fb["text"])
	}
}

func testServerTimestamp(t *testing.T, s store.IDocStore) {
	collection := uniqueCollection(t)
	before := time.Now().Add(-time.Minute)

	mustSet(t, s, collection, "doc", store.Fields{"created_at": store.ServerTimestamp})

	fields, exists := mustGet(t, s, collection, "doc")
	if !exists {
		t.Fatalf("Expected document to exist after Set")
	}
	if store.IsServerTimestamp(fields["created_at"]) {
		t.Fatalf("Expected the sentinel to be replaced by the backend")
	}
	iso, ok := store.FormatTimestamp(fields["created_at"])
	if !ok {
		t.Fatalf("Expected a timestamp, got %T (%v)", fields["created_at"], fields["created_at"])
	}
	ts, err := time.Parse(store.ISOLayout, iso)
	if err != nil {
		t.Fatalf("Expected ISO timestamp, got %q: %v", iso, err)
	}
	if ts.Before(before) {
		t.Errorf("Expected server timestamp after %v, got %v", before, ts)
	}
}

func testNilField(t *testing.T, s store.IDocStore) {
	collection := uniqueCollection(t)

	mustSet(t, s, collection, "doc", store.Fields{"text": "hello", "created_at": nil})

	fields, exists := mustGet(t, s, collection, "doc")
	if !exists {
		t.Fatalf("Expected document to exist after Set")
	}
	v, ok := fields["created_at"]
	if !ok {
		t.Errorf("Expected nil field to be stored")
	}
	if v != nil {
		t.Errorf("Expected created_at=nil, got %v", v)
	}
}

func testGetReturnsCopy(t *testing.T, s store.IDocStore) {
	collection := uniqueCollection(t)

	mustSet(t, s, collection, "doc", store.Fields{"text": "original"})

	fields, _ := mustGet(t, s, collection, "doc")
	fields["text"] = "changed without set"

	fields, _ = mustGet(t, s, collection, "doc")
	if fields["text"] != "original" {
		t.Errorf("Get should return a copy, not a reference to the stored document")
	}
}

func testConcurrentAccess(t *testing.T, s store.IDocStore) {
	collection := uniqueCollection(t)

	const workers = 8
	const ops = 10

	var wg sync.WaitGroup
	errs := make(chan error, workers*ops*2)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			id := fmt.Sprintf("doc-%d", w)
			for i := 0; i < ops; i++ {
				if err := s.Set(context.Background(), collection, id, store.Fields{"n": fmt.Sprint(i)}); err != nil {
					errs <- err
				}
				if _, _, err := s.Get(context.Background(), collection, id); err != nil {
					errs <- err
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Concurrent operation failed: %v", err)
	}

	for w := 0; w < workers; w++ {
		fields, exists := mustGet(t, s, collection, fmt.Sprintf("doc-%d", w))
		if !exists {
			t.Errorf("Expected doc-%d to exist", w)
			continue
		}
		if fields["n"] != fmt.Sprint(ops-1) {
			t.Errorf("Expected last write to win for doc-%d, got %v", w, fields["n"])
		}
	}
}
