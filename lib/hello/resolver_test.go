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

var _ = Describe("Resolver", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Context("with a cold in-memory store", func() {
		var s store.IDocStore

		BeforeEach(func() {
			s = mstore.NewMemoryStore(nil)
		})

		It("should return the default message with a timestamp", func() {
			msg := hello.NewResolver(s).FetchHello(ctx)

			Expect(msg.Text).To(Equal("Hello World!"))
			Expect(msg.CreatedAt).NotTo(BeNil())
			Expect(*msg.CreatedAt).To(beISOTimestamp())
		})

		It("should write the default message back to the store", func() {
			msg := hello.NewResolver(s).FetchHello(ctx)

			fields, exists, err := s.Get(ctx, hello.Collection, hello.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())
			Expect(fields).To(HaveKeyWithValue(hello.FieldText, hello.DefaultText))

			iso, ok := store.FormatTimestamp(fields[hello.FieldCreatedAt])
			Expect(ok).To(BeTrue())
			Expect(iso).To(Equal(*msg.CreatedAt))
		})

		It("should return structurally equal defaults on repeated calls", func() {
			r := hello.NewResolver(s)
			first := r.FetchHello(ctx)
			second := r.FetchHello(ctx)

			Expect(second.Text).To(Equal(first.Text))
			Expect(first.CreatedAt).NotTo(BeNil())
			Expect(second.CreatedAt).NotTo(BeNil())
			Expect(*second.CreatedAt).To(beISOTimestamp())

			_, exists, err := s.Get(ctx, hello.Collection, hello.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())
		})
	})

	Context("with an existing document", func() {
		target := "2024-05-01T10:00:00.123Z"
		native := time.Date(2024, 5, 1, 12, 0, 0, 123_000_000, time.FixedZone("CEST", 2*60*60))

		DescribeTable("should normalize created_at to the same ISO-8601 string",
			func(createdAt any) {
				s := mstore.NewMemoryStore(store.Dataset{
					hello.Collection: {hello.ID: {hello.FieldText: "stored", hello.FieldCreatedAt: createdAt}},
				})

				msg := hello.NewResolver(s).FetchHello(ctx)
				Expect(msg.Text).To(Equal("stored"))
				Expect(msg.CreatedAt).To(HaveValue(Equal(target)))
			},
			Entry("ISO string", target),
			Entry("provider object exposing AsTime", providerTimestamp{native}),
			Entry("native time", native),
		)

		DescribeTable("should fall back to a nil timestamp",
			func(fields store.Fields) {
				s := &stubStore{fields: fields, exists: true}

				msg := hello.NewResolver(s).FetchHello(ctx)
				Expect(msg.Text).To(Equal("stored"))
				Expect(msg.CreatedAt).To(BeNil())
				Expect(s.written).To(BeEmpty())
			},
			Entry("missing field", store.Fields{"text": "stored"}),
			Entry("nil field", store.Fields{"text": "stored", "created_at": nil}),
			Entry("empty string", store.Fields{"text": "stored", "created_at": ""}),
			Entry("unknown type", store.Fields{"text": "stored", "created_at": 1714557600}),
		)

		It("should substitute the default text when the text field is missing", func() {
			s := &stubStore{fields: store.Fields{"created_at": target}, exists: true}

			msg := hello.NewResolver(s).FetchHello(ctx)
			Expect(msg.Text).To(Equal("Hello World!"))
			Expect(msg.CreatedAt).To(HaveValue(Equal(target)))
		})

		It("should substitute the default text when the text field is not a string", func() {
			s := &stubStore{fields: store.Fields{"text": 42}, exists: true}

			Expect(hello.NewResolver(s).FetchHello(ctx).Text).To(Equal("Hello World!"))
		})
	})

	Context("when the store fails", func() {
		It("should return the error message if Get fails", func() {
			msg := hello.NewResolver(&stubStore{getErr: errBackend}).FetchHello(ctx)

			Expect(msg).To(Equal(hello.Message{Text: "Error fetching message", CreatedAt: nil}))
		})

		It("should return the error message if the repair write fails", func() {
			msg := hello.NewResolver(&stubStore{setErr: errBackend}).FetchHello(ctx)

			Expect(msg).To(Equal(hello.Message{Text: "Error fetching message", CreatedAt: nil}))
		})

		It("should not propagate panics of the store", func() {
			r := hello.NewResolver(&stubStore{panics: true})

			var msg hello.Message
			Expect(func() { msg = r.FetchHello(ctx) }).NotTo(Panic())
			Expect(msg.Text).To(Equal("Error fetching message"))
			Expect(msg.CreatedAt).To(BeNil())
		})
	})
})
