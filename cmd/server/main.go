package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "helpdesk",
	Short: "Helpdesk ticketing API",
	Long: `Helpdesk ticketing API. Usage:

	helpdesk            start the server
	helpdesk serve      start the server
	helpdesk migrate    create or update the SQL schema
`,
	SilenceUsage: true,
	RunE:         runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
