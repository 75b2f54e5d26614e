package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Shop1t storefront: cart, wishlist and compare lists over a remote catalog",
	Long: `storefront serves a JSON API for browsing a remote product catalog and
keeping a per-session cart, wishlist and compare list.

Configuration comes from the environment (HTTP_PORT, STORAGE_BACKEND, ...)
and, optionally, a config file passed with --config.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file (yaml, json or toml)")

	rootCmd.AddCommand(serveCmd, categoriesCmd, searchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
