// @title 우리의 날들 API
// @version 1.0
// @description Couple lifecycle, anniversaries, shared calendar, diaries, place categories and dashboard.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ourdays",
	Short: "우리의 날들 API server",
	Long: `ourdays serves the couple API: the couple lifecycle, anniversaries,
the shared calendar, messages and the home dashboard.

Configuration is read from the environment (and .env outside production).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
