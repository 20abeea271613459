package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "workbench",
	Short: "Workbench is a local tool server for AI agents",
	Long:  `Workbench exposes project tooling (process, file, env, network, email and database tools) to AI agents over the Model Context Protocol.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Workspace directory the tools operate in")
}
