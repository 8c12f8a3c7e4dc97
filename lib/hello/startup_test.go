package hello_test

import (
	"context"
	"errors"

	"github.com/ValentinKolb/dDoc/lib/hello"
	"github.com/ValentinKolb/dDoc/lib/store"
	"github.com/ValentinKolb/dDoc/lib/store/fstore"
	"github.com/ValentinKolb/dDoc/lib/store/selector"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Resolver on a selected store", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("should repair the message when no credentials and no seed are configured", func() {
		h := selector.New(selector.Config{}).Init(ctx)
		Expect(h.Backend).To(Equal(selector.BackendMemory))

		msg := hello.NewResolver(h.Store).FetchHello(ctx)
		Expect(msg.Text).To(Equal(hello.DefaultText))
		Expect(msg.CreatedAt).NotTo(BeNil())
		Expect(*msg.CreatedAt).To(beISOTimestamp())

		fields, exists, err := h.Store.Get(ctx, hello.Collection, hello.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(exists).To(BeTrue())
		Expect(fields).To(HaveKeyWithValue(hello.FieldText, hello.DefaultText))
	})

	It("should serve the seeded message after falling back from a broken remote", func() {
		h := selector.New(selector.Config{
			Credentials: fstore.Credentials{ProjectID: "demo", PrivateKey: "key", ClientEmail: "svc@demo"},
			Seed:        hello.DefaultDataset(),
			Remote: func(context.Context, fstore.Credentials) (store.IDocStore, error) {
				return nil, errors.New("invalid private key")
			},
			OnRemote: hello.EnsureSeeded,
		}).Init(ctx)
		Expect(h.Backend).To(Equal(selector.BackendMemory))
		Eventually(h.Seeded()).Should(BeClosed())

		msg := hello.NewResolver(h.Store).FetchHello(ctx)
		Expect(msg.Text).To(Equal(hello.MockText))
		Expect(msg.CreatedAt).NotTo(BeNil())
		Expect(*msg.CreatedAt).To(beISOTimestamp())
	})
})
