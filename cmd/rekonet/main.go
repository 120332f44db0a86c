// Package main is the rekonet command line tool: offline scoring, job link
// building and role catalog seeding.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rekonet",
	Short: "Rekonet readiness tools",
	Long:  "Scores assessments and builds live job links from local files, and seeds the role catalog into Postgres, Elasticsearch and Redis.",
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
