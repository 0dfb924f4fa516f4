package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"persona-video/cmd/persona/cmd/ask"
	"persona-video/cmd/persona/cmd/serve"
	"persona-video/cmd/persona/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "persona",
	Short: "Ask a historical figure a question and get a talking-portrait video back",
	Long: `Ask a historical figure a question and get a talking-portrait video back.
- A recorded question is transcribed
- The persona answers in a bounded number of words
- The answer is voiced and rendered as a talking portrait video`,
	TraverseChildren: true,
	SilenceUsage:     true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(ask.Cmd)
	rootCmd.AddCommand(version.Cmd)
}
