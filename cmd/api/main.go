package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/cardbox/core/cmd/api/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cardbox",
		Short: "Cardbox API Server",
		Long:  `Cardbox is a card organizer backend: typed note, task, link, event and password cards arranged in nested folders.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewVaultCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
