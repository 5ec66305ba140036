package servecmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	servecmder "github.com/parchmentlabs/lectern/cmd/lectern/serve"
)

var _ = Describe("NewServeCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := servecmder.NewServeCmd()
		Expect(cmd.Use).To(Equal("serve"))
	})

	It("has --listen flag with the default address", func() {
		cmd := servecmder.NewServeCmd()
		flag := cmd.Flags().Lookup("listen")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("l"))
		Expect(flag.DefValue).To(Equal(":8084"))
	})

	It("has a --no-mcp flag", func() {
		cmd := servecmder.NewServeCmd()
		Expect(cmd.Flags().Lookup("no-mcp")).NotTo(BeNil())
	})

	It("has provider flags for the full stack", func() {
		cmd := servecmder.NewServeCmd()
		for _, name := range []string{
			"llm-provider", "llm-target", "model", "temperature",
			"embedding-provider", "embedding-target", "embedding-model", "embedding-dimensions",
			"vector-store-provider", "vector-store-target", "collection",
			"gate-metric", "gate-threshold", "persona", "top-k",
		} {
			Expect(cmd.Flags().Lookup(name)).NotTo(BeNil(), "missing flag %s", name)
		}
	})
})
