// Package hello serves the well-known hello message document
// (collection "messages", id "hello") on top of any store.IDocStore.
package hello

const (
	// Collection and ID address the hello message document.
	Collection = "messages"
	ID         = "hello"

	// FieldText and FieldCreatedAt are the persisted fields of the document.
	FieldText      = "text"
	FieldCreatedAt = "created_at"

	// DefaultText is served when the document or its text field is missing.
	DefaultText = "Hello World!"
	// SeedText is written by EnsureSeeded.
	SeedText = "Hello World from Firestore!"
	// MockText is the text of the hello message in DefaultDataset.
	MockText = "Hello World from Firestore (Mock)!"
	// ErrorText is served when the document could not be read.
	ErrorText = "Error fetching message"
)

// Message is the response of the hello query.
// CreatedAt is an ISO-8601 timestamp or nil if unknown.
type Message struct {
	Text      string  `json:"text"`
	CreatedAt *string `json:"created_at"`
}
