// Package chatcmder provides the chat command for interactive
// retrieval-gated chat against the local index.
package chatcmder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/parchmentlabs/lectern/cmd/lectern/stack"
	"github.com/parchmentlabs/lectern/pkg/cliui"
	"github.com/parchmentlabs/lectern/pkg/config"
	"github.com/parchmentlabs/lectern/pkg/logger"
	"github.com/parchmentlabs/lectern/pkg/vector"
)

var (
	userPrompt      = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")
	assistantPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("assistant> ")
)

type chatCommander struct {
	configDir string
	debug     bool
	plain     bool

	model        string
	temperature  float64
	topK         int
	persona      string
	llmProv      string
	llmTarget    string
	gateMetric   string
	gateThresh   float64
	embedProv    string
	embedTarget  string
	embedModel   string
	embedDims    uint
	vectorProv   string
	vectorTarget string
	collection   string

	cfg *config.Config
}

const chatLongDesc string = `Start an interactive chat session against the local index.

Every question runs one full cycle: the question is embedded, the closest
indexed chunks are retrieved, and the relevance gate decides whether the
model may answer. Off-topic questions get a refusal instead of a guess.
The full transcript, refusals included, is kept for follow-up questions.

Requires an index built with "lectern index".

Examples:
  lectern chat
  lectern chat --model llama3.2 --top-k 8
  lectern chat --gate-threshold 0.3`

const chatShortDesc string = "Interactive chat against the index"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, chatFlagKeys)
			cmder.cfg = config.ConfigFromViper(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagModel, &cmder.model)
	config.AddFloatFlag(cmd, config.Flags, config.FlagTemperature, &cmder.temperature)
	config.AddIntFlag(cmd, config.Flags, config.FlagTopK, &cmder.topK)
	config.AddStringFlag(cmd, config.Flags, config.FlagPersona, &cmder.persona)
	config.AddStringFlag(cmd, config.Flags, config.FlagLLMProvider, &cmder.llmProv)
	config.AddStringFlag(cmd, config.Flags, config.FlagLLMTarget, &cmder.llmTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagGateMetric, &cmder.gateMetric)
	config.AddFloatFlag(cmd, config.Flags, config.FlagGateThreshold, &cmder.gateThresh)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingProv, &cmder.embedProv)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingTgt, &cmder.embedTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingModel, &cmder.embedModel)
	config.AddUintFlag(cmd, config.Flags, config.FlagEmbeddingDims, &cmder.embedDims)
	config.AddStringFlag(cmd, config.Flags, config.FlagVectorProv, &cmder.vectorProv)
	config.AddStringFlag(cmd, config.Flags, config.FlagVectorTgt, &cmder.vectorTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagCollection, &cmder.collection)
	cmd.Flags().BoolVar(&cmder.plain, "plain", false, "Disable markdown rendering of answers")

	return cmd
}

var chatFlagKeys = []string{
	config.FlagModel,
	config.FlagTemperature,
	config.FlagTopK,
	config.FlagPersona,
	config.FlagLLMProvider,
	config.FlagLLMTarget,
	config.FlagGateMetric,
	config.FlagGateThreshold,
	config.FlagEmbeddingProv,
	config.FlagEmbeddingTgt,
	config.FlagEmbeddingModel,
	config.FlagEmbeddingDims,
	config.FlagVectorProv,
	config.FlagVectorTgt,
	config.FlagCollection,
}

func (c *chatCommander) run() error {
	log := logger.New(logger.WithDebug(c.debug), logger.WithPretty(true), logger.WithWriter(os.Stderr))

	chatStack, err := stack.NewChat(stack.Options{
		Config:               c.cfg,
		ConfigDir:            c.configDir,
		RequireExistingIndex: true,
		Logger:               log,
	})
	if err != nil {
		if errors.Is(err, vector.ErrNotLoaded) {
			return fmt.Errorf("no index found; run \"lectern index <path>\" first")
		}
		return err
	}
	defer chatStack.Close()

	session, err := chatStack.NewSession("", c.cfg, log)
	if err != nil {
		return err
	}

	count, err := chatStack.Driver.Count(context.Background())
	if err != nil && !errors.Is(err, vector.ErrNotLoaded) {
		return err
	}

	fmt.Println()
	fmt.Printf("  %s %s %s\n",
		cliui.KeyStyle.Render("Model:"),
		cliui.NameStyle.Render(c.cfg.LLM.Model),
		cliui.DimStyle.Render(fmt.Sprintf("(%d chunks indexed)", count)),
	)
	fmt.Printf("  %s %s\n\n",
		cliui.KeyStyle.Render("Gate:"),
		cliui.ValueStyle.Render(fmt.Sprintf("%s threshold %.2f", c.cfg.Gate.Metric, c.cfg.Gate.Threshold)),
	)
	fmt.Printf("  %s\n\n", cliui.DimStyle.Render("Type your question and press Enter. /exit or Ctrl+D to quit."))

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(userPrompt)
		if !scanner.Scan() {
			// EOF or error
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/exit" {
			break
		}

		turn, err := session.Respond(context.Background(), input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s %v\n", cliui.FailMark, err)
			continue
		}

		fmt.Print(assistantPrompt)
		fmt.Println(c.renderAnswer(turn.Content))
		fmt.Println()
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Println()
	return nil
}

func (c *chatCommander) renderAnswer(content string) string {
	if c.plain {
		return content
	}

	rendered, err := cliui.RenderMarkdown(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}
