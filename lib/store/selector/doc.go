// Package selector decides once per process which document store backend is
// used. If the three Firebase credential values are present it tries to
// create the Firestore backend, otherwise (or if that fails) it falls back to
// the in-memory backend seeded from a dataset.
//
// The decision is permanent: Init returns the same Handle on every call.
// When the Firestore backend is chosen, the configured seed function runs in
// a detached goroutine. Its failures are logged and never reach the caller.
package selector
