package prompt_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/parchmentlabs/lectern/pkg/chunk"
	"github.com/parchmentlabs/lectern/pkg/llm"
	"github.com/parchmentlabs/lectern/pkg/prompt"
	"github.com/parchmentlabs/lectern/pkg/retrieve"
	"github.com/parchmentlabs/lectern/pkg/transcript"
)

var _ = Describe("Assembler", func() {
	var assembler *prompt.Assembler

	BeforeEach(func() {
		assembler = prompt.NewAssembler("You are a test persona.")
	})

	It("orders messages as system, history, then the new user input", func() {
		history := []transcript.Turn{
			transcript.NewTurn(transcript.RoleUser, "first question"),
			transcript.NewTurn(transcript.RoleAssistant, "first answer"),
		}

		messages := assembler.Assemble(nil, history, "second question")

		Expect(messages).To(HaveLen(4))
		Expect(messages[0].Role).To(Equal(llm.RoleSystem))
		Expect(messages[1].Role).To(Equal(llm.RoleUser))
		Expect(messages[1].Content).To(Equal("first question"))
		Expect(messages[2].Role).To(Equal(llm.RoleAssistant))
		Expect(messages[2].Content).To(Equal("first answer"))
		Expect(messages[3].Role).To(Equal(llm.RoleUser))
		Expect(messages[3].Content).To(Equal("second question"))
	})

	It("renders retrieved chunks into the system message with their sources", func() {
		matches := []retrieve.Match{
			{Chunk: chunk.Chunk{ID: "a.md#0", Text: "Returns take 30 days.", SourceRef: "a.md"}, Distance: 0.1},
			{Chunk: chunk.Chunk{ID: "b.md#2", Text: "Refunds go to the original card.", SourceRef: "b.md"}, Distance: 0.2},
		}

		messages := assembler.Assemble(matches, nil, "how do returns work?")

		system := messages[0].Content
		Expect(system).To(ContainSubstring("You are a test persona."))
		Expect(system).To(ContainSubstring("[a.md]"))
		Expect(system).To(ContainSubstring("Returns take 30 days."))
		Expect(system).To(ContainSubstring("[b.md]"))
		Expect(system).To(ContainSubstring("Refunds go to the original card."))
	})

	It("keeps the persona and an empty context section when nothing was retrieved", func() {
		messages := assembler.Assemble(nil, nil, "anything")

		Expect(messages).To(HaveLen(2))
		Expect(messages[0].Content).To(ContainSubstring("You are a test persona."))
		Expect(messages[0].Content).To(ContainSubstring("Context:"))
	})

	It("does not mutate history", func() {
		history := []transcript.Turn{
			transcript.NewTurn(transcript.RoleUser, "question"),
		}

		_ = assembler.Assemble(nil, history, "another")
		Expect(history[0].Content).To(Equal("question"))
	})
})
