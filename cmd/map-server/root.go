package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "map-server",
	Short: "POI map backend with tile-provider fallback",
	Long: `map-server powers an interactive POI map: it proxies slippy-map tiles
from an ordered catalog of providers, walks the catalog automatically when a
provider fails, and reverts to the always-available baseline once every
candidate has been tried.

Configuration is read from environment variables (optionally via a .env
file); serve flags override the environment.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
