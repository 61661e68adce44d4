/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "reelstack",
	Short: "Backend API server for the reelstack movie review app",
	Long: `reelstack is the backend for a movie review application: user accounts,
a movie catalog, and 1-5 star reviews over a PostgreSQL store.

Run "reelstack server" to start the API, "reelstack migrate up" to apply
schema migrations, and "reelstack seed" to load the demo dataset.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
