// Package main is the entry point for the voicechat server CLI.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "voicechat",
		Short: "Voice conversation server: speech in, spoken reply out",
		Long: `voicechat accepts an uploaded audio clip, transcribes it, asks a
language model for a reply using the rolling conversation history, and
synthesizes the reply back to speech.

Start the server:        voicechat serve
Inspect archived turns:  voicechat turns --db turns.db`,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newTurnsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
