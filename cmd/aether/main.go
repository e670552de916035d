// Command aether reproduces the gateway's client examples: one-shot
// completions against Azure OpenAI or Gemini, routed through the
// Aether gateway when gateway credentials are configured, and a small
// chat UI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aetherlabs/aethergo"
	"github.com/aetherlabs/aethergo/config"
	"github.com/aetherlabs/aethergo/routing"
	"github.com/aetherlabs/aethergo/server"
)

const (
	defaultPrompt     = "Hi! Tell me about yourself."
	azureSystemPrompt = "You are a helpful assistant."
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if routing.IsCredentialError(err) {
			fmt.Fprintln(os.Stderr, "configuration problem:", err)
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

type rootOptions struct {
	envFile string
}

func (o *rootOptions) loadOpts() []config.LoadOption {
	if o.envFile == "" {
		return nil
	}
	return []config.LoadOption{config.WithEnvFile(o.envFile)}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "aether",
		Short:         "Route LLM calls through the Aether gateway or straight to the vendor",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "dotenv file to load before resolving settings")

	cmd.AddCommand(
		newAzureCmd(opts),
		newGeminiCmd(opts),
		newServeCmd(opts),
	)
	return cmd
}

func newAzureCmd(opts *rootOptions) *cobra.Command {
	var prompt string

	cmd := &cobra.Command{
		Use:   "azure",
		Short: "Send one prompt via the Azure OpenAI SDK conventions",
		RunE: func(cmd *cobra.Command, args []string) error {
			llm, err := aethergo.New(aethergo.ProviderAzureOpenAI, opts.loadOpts()...)
			if err != nil {
				return err
			}
			llm.Provider().SetOption("system_prompt", azureSystemPrompt)

			answer, err := llm.Chat(cmd.Context(), prompt)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", defaultPrompt, "prompt to send")
	return cmd
}

func newGeminiCmd(opts *rootOptions) *cobra.Command {
	var prompt string

	cmd := &cobra.Command{
		Use:   "gemini",
		Short: "Send one prompt via the Gemini SDK conventions",
		RunE: func(cmd *cobra.Command, args []string) error {
			llm, err := aethergo.New(aethergo.ProviderGemini, opts.loadOpts()...)
			if err != nil {
				return err
			}
			llm.Provider().SetOption("temperature", 1.0)

			answer, err := llm.Chat(cmd.Context(), prompt)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", defaultPrompt, "prompt to send")
	return cmd
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(opts.loadOpts()...)
			if err != nil {
				return err
			}
			return server.New(settings).Run(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8501", "listen address")
	return cmd
}
