// Package store provides a small, uniform interface for document storage.
// Documents are addressed by a collection name and a document id and consist
// of a flat set of fields (strings, timestamps or nil).
//
// The package focuses on:
//   - A unified interface (IDocStore) with exactly two operations, Get and Set
//   - Timestamp normalization shared by every backend and consumer
//   - Seed datasets that can be deep-copied and loaded from YAML
//
// Key Components:
//
//   - IDocStore Interface: Get returns the fields of a document plus an
//     existence flag, a missing document is never an error. Set overwrites the
//     whole document, there are no partial-field merge semantics. Get has no
//     side effects.
//
//   - ServerTimestamp: A sentinel field value. Every backend replaces it with
//     the time at which it applies the write (the remote backend lets the
//     server assign the time, the in-memory backend uses the local clock).
//
//   - Timestamp Normalization: Backends may return timestamps as time.Time,
//     as provider objects exposing AsTime() or as ISO-8601 strings.
//     FormatTimestamp converts all three into the same ISO-8601 string
//     (see ISOLayout).
//
//   - Error System: The Error type carries a RetCode and wraps the underlying
//     cause, so errors.Is and errors.As keep working across the boundary.
//
// Implementations:
//
//	The package includes two implementations of the IDocStore interface:
//
//	- Memory Store (mstore): A transient backend that deep-copies a seed
//	  Dataset at construction and only ever mutates its own copy.
//	  Available in the "github.com/ValentinKolb/dDoc/lib/store/mstore" package.
//
//	- Firestore Store (fstore): A thin pass-through to Google Cloud Firestore.
//	  Available in the "github.com/ValentinKolb/dDoc/lib/store/fstore" package.
//
//	Which one is used is decided once per process by the selector package.
//
// Concurrency:
//
//	Implementations are safe for concurrent use, but the interface offers no
//	read-modify-write primitive. Two callers that both find a document missing
//	and both write it race, the last write wins.
package store
