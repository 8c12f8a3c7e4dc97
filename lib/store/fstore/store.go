package fstore

import (
	"context"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/ValentinKolb/dDoc/lib/store"
	"github.com/lni/dragonboat/v4/logger"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	log = logger.GetLogger("store")
)

// Store is the Firestore implementation of store.IDocStore.
// Each collection/id pair maps 1:1 onto a Firestore collection and document.
type Store struct {
	client *firestore.Client
}

var _ store.IDocStore = (*Store)(nil)

// NewFirestoreStore validates the credentials and creates a Firestore client for them.
// Additional client options (e.g. a custom endpoint) are appended after the credentials.
// Any failure is returned as a *store.Error, no client is left open in that case.
func NewFirestoreStore(ctx context.Context, creds Credentials, opts ...option.ClientOption) (*Store, error) {
	if err := creds.Validate(); err != nil {
		return nil, store.WrapError(store.RetCInvalidArgument, "invalid firebase credentials", err)
	}

	credJSON, err := creds.serviceAccountJSON()
	if err != nil {
		return nil, store.WrapError(store.RetCInternalError, "failed to encode service account", err)
	}

	clientOpts := append([]option.ClientOption{option.WithCredentialsJSON(credJSON)}, opts...)
	client, err := firestore.NewClient(ctx, creds.ProjectID, clientOpts...)
	if err != nil {
		return nil, store.WrapError(store.RetCUnavailable, "failed to create firestore client", err)
	}

	log.Infof("created firestore client for project %s (%s)", creds.ProjectID, creds.ClientEmail)
	return NewFromClient(client), nil
}

// NewFromClient wraps an existing Firestore client.
// The store takes ownership of the client, see Close.
func NewFromClient(client *firestore.Client) *Store {
	return &Store{client: client}
}

// Close closes the underlying Firestore client.
func (s *Store) Close() error {
	return s.client.Close()
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *Store) Get(ctx context.Context, collection, id string) (store.Fields, bool, error) {
	ref, err := s.doc(collection, id)
	if err != nil {
		return nil, false, err
	}

	snap, err := ref.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, store.WrapError(retCode(err), "failed to get "+ref.Path, err)
	}
	if !snap.Exists() {
		return nil, false, nil
	}
	return store.NormalizeFields(snap.Data()), true, nil
}

func (s *Store) Set(ctx context.Context, collection, id string, fields store.Fields) error {
	ref, err := s.doc(collection, id)
	if err != nil {
		return err
	}

	data := make(map[string]any, len(fields))
	for k, v := range fields {
		if store.IsServerTimestamp(v) {
			v = firestore.ServerTimestamp
		}
		data[k] = v
	}

	if _, err := ref.Set(ctx, data); err != nil {
		return store.WrapError(retCode(err), "failed to set "+ref.Path, err)
	}
	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// doc resolves the document reference, firestore returns nil refs for invalid paths
func (s *Store) doc(collection, id string) (*firestore.DocumentRef, error) {
	if collection == "" || id == "" || strings.Contains(collection, "/") || strings.Contains(id, "/") {
		return nil, store.NewError(store.RetCInvalidArgument, "invalid document path "+collection+"/"+id)
	}
	return s.client.Collection(collection).Doc(id), nil
}

// retCode maps gRPC status codes onto store return codes
func retCode(err error) store.RetCode {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return store.RetCUnavailable
	case codes.InvalidArgument:
		return store.RetCInvalidArgument
	default:
		return store.RetCInternalError
	}
}
