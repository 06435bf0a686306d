package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"shareaudit/infrastructure/config"
	"shareaudit/logging"
)

var appConfig *config.AppConfig

func main() {
	root := &cobra.Command{
		Use:   "shareaudit",
		Short: "Audit shared-link access across a tenant's document-sharing sites",
		Long: `shareaudit crawls every site collection in the tenant, enumerates document
libraries and their shared links, and assembles a deduplicated report of who
can access what and how. The crawl is read-only; no changes are made to the
tenant.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			loadEnvironment()
			appConfig = config.LoadAppConfigFromEnv()
			logging.SetDefault(logging.NewLogger(appConfig.Logging))
		},
	}

	root.AddCommand(newAuditCommand())
	root.AddCommand(newServeCommand())
	root.AddCommand(newCredsCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func loadEnvironment() {
	// Optional .env for local development; real deployments use the
	// process environment.
	_ = godotenv.Load()
}
