package llmutils_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	llmutils "github.com/parchmentlabs/lectern/pkg/llm/utils"
)

var _ = Describe("NewCompleter", func() {
	It("builds an ollama completer", func() {
		c, err := llmutils.NewCompleter(&llmutils.NewCompleterOpts{
			ProviderType: "ollama",
			TargetURL:    "http://localhost:11434",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(c).NotTo(BeNil())
	})

	It("rejects an unknown provider", func() {
		_, err := llmutils.NewCompleter(&llmutils.NewCompleterOpts{
			ProviderType: "anthropic",
		})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("unsupported llm provider"))
	})
})
