package hello_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ValentinKolb/dDoc/lib/store"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestHello(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Hello Suite")
}

// --------------------------------------------------------------------------
// Test doubles
// --------------------------------------------------------------------------

// stubStore returns a fixed document (or error) and records writes
type stubStore struct {
	fields  store.Fields
	exists  bool
	getErr  error
	setErr  error
	panics  bool
	written []store.Fields
}

func (s *stubStore) Get(_ context.Context, _, _ string) (store.Fields, bool, error) {
	if s.panics {
		panic("backend exploded")
	}
	if s.getErr != nil {
		return nil, false, s.getErr
	}
	return s.fields, s.exists, nil
}

func (s *stubStore) Set(_ context.Context, _, _ string, fields store.Fields) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.written = append(s.written, fields)
	return nil
}

// providerTimestamp mimics provider timestamp objects exposing AsTime
type providerTimestamp struct {
	t time.Time
}

func (p providerTimestamp) AsTime() time.Time { return p.t }

var errBackend = errors.New("backend unreachable")

// beISOTimestamp matches strings in the store.ISOLayout format
func beISOTimestamp() OmegaMatcher {
	return WithTransform(func(s string) error {
		_, err := time.Parse(store.ISOLayout, s)
		return err
	}, Succeed())
}
