package searchcmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	searchcmder "github.com/parchmentlabs/lectern/cmd/lectern/search"
)

var _ = Describe("NewSearchCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := searchcmder.NewSearchCmd()
		Expect(cmd.Use).To(Equal("search <query>"))
	})

	It("requires exactly one query argument", func() {
		cmd := searchcmder.NewSearchCmd()
		Expect(cmd.Args(cmd, []string{})).To(HaveOccurred())
		Expect(cmd.Args(cmd, []string{"a", "b"})).To(HaveOccurred())
		Expect(cmd.Args(cmd, []string{"a"})).To(Succeed())
	})

	It("has --top flag with shorthand", func() {
		cmd := searchcmder.NewSearchCmd()
		flag := cmd.Flags().Lookup("top")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("k"))
		Expect(flag.DefValue).To(Equal("5"))
	})

	It("has a --json flag", func() {
		cmd := searchcmder.NewSearchCmd()
		Expect(cmd.Flags().Lookup("json")).NotTo(BeNil())
	})
})
