// Package fstore implements the store.IDocStore interface on top of Google
// Cloud Firestore. It is a thin pass-through: Get and Set delegate to the
// corresponding DocumentRef methods.
//
// The adapter is responsible for two translations:
//
//   - store.ServerTimestamp is written as firestore.ServerTimestamp, so the
//     server assigns the write time.
//   - Timestamps read from Firestore are normalized to UTC time.Time values
//     (see store.NormalizeFields). A timestamp that is still nil because the
//     server-assigned write is propagating is returned as nil.
//
// Credentials are the three values of a Firebase service account (project id,
// private key, client email). The private key is validated when the store is
// created, so broken credentials fail early instead of on the first request.
//
// When the FIRESTORE_EMULATOR_HOST environment variable is set, the Firestore
// client connects to the emulator instead of the production service.
package fstore
