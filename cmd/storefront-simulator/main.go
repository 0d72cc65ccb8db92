// Package main is the storefront simulator command line.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fairyhunter13/storefront-simulator/internal/config"
	"github.com/fairyhunter13/storefront-simulator/internal/obs"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "storefront-simulator",
	Short: "Storefront demo service with a simulated operations dashboard",
	Long: `Runs a single-session storefront: a product catalog, a cart with delayed
adds, checkout into an order history, transient notifications, a simulated
service-health dashboard and AI product insights.

Configuration is read from the environment (a .env file is honoured) or from
the YAML file named by CONFIG_PATH. With no subcommand it serves the API.`,
	SilenceUsage: true,
	RunE:         runServe,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// a missing .env is normal outside local development
		_ = godotenv.Load()
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		obs.InitLogger(cfg.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, simulateCmd, insightCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
