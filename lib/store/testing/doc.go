// Package testing provides a standardised conformance suite for document
// stores that satisfy the store.IDocStore interface.
//
// Example usage:
//
//	storetesting.RunDocStoreTests(t, "MemoryStore", func(t *testing.T) store.IDocStore {
//		return mstore.NewMemoryStore(nil)
//	})
package testing
