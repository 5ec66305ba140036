// Package llmutils is the llm utility package
package llmutils

import (
	"fmt"
	"os"

	"github.com/parchmentlabs/lectern/pkg/llm"
	"github.com/parchmentlabs/lectern/pkg/llm/provider/ollama"
	"github.com/parchmentlabs/lectern/pkg/llm/provider/openai"
)

type NewCompleterOpts struct {
	ProviderType string
	TargetURL    string
}

func NewCompleter(o *NewCompleterOpts) (llm.Completer, error) {
	switch o.ProviderType {
	case "ollama":
		return ollama.NewCompleter(ollama.Config{
			BaseURL: o.TargetURL,
		})
	case "openai":
		return openai.NewCompleter(openai.Config{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: o.TargetURL,
		})
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", o.ProviderType)
	}
}
