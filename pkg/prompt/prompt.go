// Package prompt assembles role-tagged message lists from a persona,
// retrieved context, and conversation history. Assembly is a pure
// transformation; whether the context was good enough to answer from is
// the relevance gate's call, not this package's.
package prompt

import (
	"fmt"
	"strings"

	"github.com/parchmentlabs/lectern/pkg/llm"
	"github.com/parchmentlabs/lectern/pkg/retrieve"
	"github.com/parchmentlabs/lectern/pkg/transcript"
)

// Assembler renders prompts for one configured persona.
type Assembler struct {
	persona string
}

// NewAssembler creates an assembler with the given system persona.
func NewAssembler(persona string) *Assembler {
	return &Assembler{persona: persona}
}

// Assemble produces the ordered message list for one completion: a
// system message carrying the persona and retrieved context, the prior
// transcript in original order, then the new user input last. An empty
// match list yields an empty context section, never an error.
func (a *Assembler) Assemble(matches []retrieve.Match, history []transcript.Turn, userInput string) []llm.Message {
	messages := make([]llm.Message, 0, len(history)+2)

	messages = append(messages, llm.Message{
		Role:    llm.RoleSystem,
		Content: a.systemMessage(matches),
	})

	for _, turn := range history {
		messages = append(messages, llm.Message{
			Role:    string(turn.Role),
			Content: turn.Content,
		})
	}

	messages = append(messages, llm.Message{
		Role:    llm.RoleUser,
		Content: userInput,
	})

	return messages
}

// systemMessage renders the persona with a context section built from
// the retrieved chunks, each tagged with its source.
func (a *Assembler) systemMessage(matches []retrieve.Match) string {
	var b strings.Builder
	b.WriteString(a.persona)
	b.WriteString("\n\nContext:\n")

	for i, match := range matches {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "[%s]\n%s\n", match.SourceRef, match.Text)
	}

	return b.String()
}
