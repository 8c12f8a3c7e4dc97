// Package mstore implements a transient, in-memory document store based on the
// store.IDocStore interface. It is the backend used when no remote database
// credentials are configured. Data is not persisted between process restarts.
//
// Implementation Details:
//
//   - Seeding: The store is built from a store.Dataset template. The template is
//     deep-copied at construction, the store never aliases it.
//
//   - Storage: Collections are kept in an xsync.MapOf of xsync.MapOf, so
//     concurrent Get and Set calls are memory safe without a global lock.
//     Collections are created lazily by the first Set.
//
//   - Writes: Set stores a shallow copy of the supplied fields and replaces
//     store.ServerTimestamp with the local clock. It always succeeds.
//
//   - Reads: Get hands out a copy of the stored fields.
//
// Usage Example:
//
//	s := mstore.NewMemoryStore(store.Dataset{
//		"messages": {"hello": {"text": "Hello World!"}},
//	})
//	fields, exists, err := s.Get(ctx, "messages", "hello")
package mstore
