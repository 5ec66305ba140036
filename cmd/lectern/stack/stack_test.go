package stack_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/parchmentlabs/lectern/cmd/lectern/stack"
	"github.com/parchmentlabs/lectern/pkg/config"
	"github.com/parchmentlabs/lectern/pkg/logger"
)

// memConfig is a config wired entirely to local providers so no
// network or disk is touched.
func memConfig() *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.VectorStore.Provider = "memory"
	return cfg
}

var _ = Describe("NewRetrieval", func() {
	It("builds the read path from configuration", func() {
		retrieval, err := stack.NewRetrieval(stack.Options{
			Config: memConfig(),
			Logger: logger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())
		defer retrieval.Close()

		Expect(retrieval.Embedder).NotTo(BeNil())
		Expect(retrieval.Driver).NotTo(BeNil())
		Expect(retrieval.Retriever).NotTo(BeNil())
		Expect(retrieval.Gate).NotTo(BeNil())
	})

	It("rejects an unknown embedding provider", func() {
		cfg := memConfig()
		cfg.Embedding.Provider = "bogus"

		_, err := stack.NewRetrieval(stack.Options{Config: cfg, Logger: logger.Nop()})
		Expect(err).To(HaveOccurred())
	})

	It("rejects an unknown vector store provider", func() {
		cfg := memConfig()
		cfg.VectorStore.Provider = "bogus"

		_, err := stack.NewRetrieval(stack.Options{Config: cfg, Logger: logger.Nop()})
		Expect(err).To(HaveOccurred())
	})

	It("rejects an invalid gate metric", func() {
		cfg := memConfig()
		cfg.Gate.Metric = "bogus"

		_, err := stack.NewRetrieval(stack.Options{Config: cfg, Logger: logger.Nop()})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("NewChat", func() {
	It("builds the full stack and hands out sessions", func() {
		cfg := memConfig()

		chatStack, err := stack.NewChat(stack.Options{Config: cfg, Logger: logger.Nop()})
		Expect(err).NotTo(HaveOccurred())
		defer chatStack.Close()

		Expect(chatStack.Completer).NotTo(BeNil())
		Expect(chatStack.Publisher).NotTo(BeNil())

		session, err := chatStack.NewSession("s-1", cfg, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		Expect(session.ID()).To(Equal("s-1"))
	})

	It("rejects an unknown events provider", func() {
		cfg := memConfig()
		cfg.Events.Provider = "bogus"

		_, err := stack.NewChat(stack.Options{Config: cfg, Logger: logger.Nop()})
		Expect(err).To(HaveOccurred())
	})
})
