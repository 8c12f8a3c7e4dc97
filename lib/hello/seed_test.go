package hello_test

import (
	"context"
	"time"

	"github.com/ValentinKolb/dDoc/lib/hello"
	"github.com/ValentinKolb/dDoc/lib/store"
	"github.com/ValentinKolb/dDoc/lib/store/mstore"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("EnsureSeeded", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("should create the document with a server timestamp when missing", func() {
		s := mstore.NewMemoryStore(nil)

		created, err := hello.EnsureSeeded(ctx, s)
		Expect(err).NotTo(HaveOccurred())
		Expect(created).To(BeTrue())

		fields, exists, err := s.Get(ctx, hello.Collection, hello.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(exists).To(BeTrue())
		Expect(fields).To(HaveKeyWithValue(hello.FieldText, "Hello World from Firestore!"))
		Expect(fields[hello.FieldCreatedAt]).To(BeAssignableToTypeOf(time.Time{}))
	})

	It("should send the server timestamp sentinel to the backend", func() {
		s := &stubStore{}

		_, err := hello.EnsureSeeded(ctx, s)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.written).To(HaveLen(1))
		Expect(store.IsServerTimestamp(s.written[0][hello.FieldCreatedAt])).To(BeTrue())
	})

	It("should leave an existing document untouched", func() {
		s := &stubStore{fields: store.Fields{"text": "already there"}, exists: true}

		created, err := hello.EnsureSeeded(ctx, s)
		Expect(err).NotTo(HaveOccurred())
		Expect(created).To(BeFalse())
		Expect(s.written).To(BeEmpty())
	})

	It("should report read failures", func() {
		created, err := hello.EnsureSeeded(ctx, &stubStore{getErr: errBackend})
		Expect(err).To(MatchError(errBackend))
		Expect(created).To(BeFalse())
	})

	It("should report write failures", func() {
		created, err := hello.EnsureSeeded(ctx, &stubStore{setErr: errBackend})
		Expect(err).To(MatchError(errBackend))
		Expect(created).To(BeFalse())
	})
})

var _ = Describe("DefaultDataset", func() {
	It("should contain the mock hello message", func() {
		d := hello.DefaultDataset()

		Expect(d).To(HaveKey(hello.Collection))
		doc := d[hello.Collection][hello.ID]
		Expect(doc).To(HaveKeyWithValue(hello.FieldText, "Hello World from Firestore (Mock)!"))
		Expect(doc[hello.FieldCreatedAt]).To(BeAssignableToTypeOf(""))
		Expect(doc[hello.FieldCreatedAt].(string)).To(beISOTimestamp())
	})
})
