package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/timeliner/internal/cli"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "timeliner",
		Short: "Extract chronological timelines from documents with an LLM",
		Long: `timeliner prompts a language model over a document's chunks, normalizes
and deduplicates the extracted events, and renders them as an interactive
HTML timeline.

Environment variables:
  LLM_PROVIDER        Model provider: openai or anthropic (default: openai)
  OPENAI_API_KEY      Required for the openai provider
  ANTHROPIC_API_KEY   Required for the anthropic provider`,
		Version: version,
	}

	rootCmd.AddCommand(cli.BuildCmd())
	rootCmd.AddCommand(cli.ServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
