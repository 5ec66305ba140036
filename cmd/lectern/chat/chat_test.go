package chatcmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	chatcmder "github.com/parchmentlabs/lectern/cmd/lectern/chat"
)

var _ = Describe("NewChatCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := chatcmder.NewChatCmd()
		Expect(cmd.Use).To(Equal("chat"))
	})

	It("has --model flag with shorthand", func() {
		cmd := chatcmder.NewChatCmd()
		flag := cmd.Flags().Lookup("model")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("m"))
	})

	It("has --gate-threshold flag with the default threshold", func() {
		cmd := chatcmder.NewChatCmd()
		flag := cmd.Flags().Lookup("gate-threshold")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(Equal("0.45"))
	})

	It("has --top-k flag with shorthand", func() {
		cmd := chatcmder.NewChatCmd()
		flag := cmd.Flags().Lookup("top-k")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("k"))
		Expect(flag.DefValue).To(Equal("4"))
	})

	It("has a --plain flag", func() {
		cmd := chatcmder.NewChatCmd()
		Expect(cmd.Flags().Lookup("plain")).NotTo(BeNil())
	})

	It("rejects positional arguments", func() {
		cmd := chatcmder.NewChatCmd()
		err := cmd.Args(cmd, []string{"extra"})
		Expect(err).To(HaveOccurred())
	})
})
