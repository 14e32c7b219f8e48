package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:           "yaad",
	Short:         "Bilingual Hindi/English voice assistant daemon",
	Long:          "yaad listens for transcribed voice commands, keeps tasks and item locations, and speaks reminders back in Hindi.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(sayCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(rmTaskCmd)
	rootCmd.AddCommand(itemsCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(rmItemCmd)
	rootCmd.AddCommand(muteCmd)
	rootCmd.AddCommand(configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
