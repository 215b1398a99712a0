package main

import (
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{ //nolint:exhaustruct
		Use:   "kinexis",
		Short: "kinexis caching pipeline CLI",
		Long: "kinexis runs and operates the cache-aside/write-behind/refresh-ahead " +
			"caching pipeline over a Redis-compatible stream server.",
	}

	rootCmd.AddCommand(cmdServe())
	rootCmd.AddCommand(cmdMigrate())
	rootCmd.AddCommand(cmdDLQ())

	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
