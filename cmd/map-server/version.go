package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the map-server version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("map-server %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
