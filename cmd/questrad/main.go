package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/questra-ai/questra/internal/cli/admin"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "questrad",
		Short: "Questra daemon and CLI",
		Long:  "Questra daemon for running the questionnaire API server and managing the escalation directory",
	}

	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.EmployeeCmd())
	rootCmd.AddCommand(admin.PromoteCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
