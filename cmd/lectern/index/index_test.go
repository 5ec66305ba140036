package indexcmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	indexcmder "github.com/parchmentlabs/lectern/cmd/lectern/index"
)

var _ = Describe("NewIndexCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := indexcmder.NewIndexCmd()
		Expect(cmd.Use).To(Equal("index <path>..."))
	})

	It("requires at least one path", func() {
		cmd := indexcmder.NewIndexCmd()
		err := cmd.Args(cmd, []string{})
		Expect(err).To(HaveOccurred())
	})

	It("has chunking flags with word defaults", func() {
		cmd := indexcmder.NewIndexCmd()

		size := cmd.Flags().Lookup("chunk-size")
		Expect(size).NotTo(BeNil())
		Expect(size.DefValue).To(Equal("300"))

		overlap := cmd.Flags().Lookup("overlap")
		Expect(overlap).NotTo(BeNil())
		Expect(overlap.DefValue).To(Equal("50"))
	})

	It("has a --watch flag", func() {
		cmd := indexcmder.NewIndexCmd()
		flag := cmd.Flags().Lookup("watch")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("w"))
	})
})
