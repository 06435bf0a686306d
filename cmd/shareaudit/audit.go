package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"shareaudit/application"
	"shareaudit/auth"
	"shareaudit/database"
	"shareaudit/domain/crawl"
	"shareaudit/infrastructure/export"
	"shareaudit/infrastructure/graph"
	"shareaudit/infrastructure/store"
	"shareaudit/logging"
)

func newAuditCommand() *cobra.Command {
	var (
		outputPath string
		noPersist  bool
		noProgress bool
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Run a full crawl and export the access report",
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputPath == "" {
				outputPath = appConfig.OutputPath
			}
			return runAudit(cmd.Context(), outputPath, noPersist, noProgress)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output HTML file (default from OUTPUT_FILE env)")
	cmd.Flags().BoolVar(&noPersist, "no-persist", false, "skip saving the run to the local database")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable the progress bar")
	return cmd
}

func runAudit(parent context.Context, outputPath string, noPersist, noProgress bool) error {
	logger := logging.Default().WithComponent("cli")

	if err := appConfig.Crawl.Validate(nil); err != nil {
		return fmt.Errorf("invalid crawl parameters: %w", err)
	}

	creds, err := resolveCredentials()
	if err != nil {
		return err
	}
	supplier, err := auth.NewSupplier(creds)
	if err != nil {
		return err
	}

	executor := graph.NewExecutor(appConfig.GraphBaseURL, supplier, appConfig.Crawl)
	client := graph.NewClient(executor, appConfig.Crawl)

	aggregator := application.NewAggregator(
		application.NewSiteDiscoverer(client),
		application.NewLibraryScanner(client),
		application.NewPermissionCollector(client, appConfig.Crawl),
	)

	var progress *barReporter
	if !noProgress {
		progress = newBarReporter()
		aggregator.SetProgressReporter(progress)
	}

	// A user interrupt cancels in-flight fetches; the aggregator still
	// returns the partial report it accumulated.
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	run := crawl.Run{
		ID:        uuid.NewString(),
		Status:    crawl.StatusRunning,
		StartedAt: time.Now().UTC(),
	}
	rep := aggregator.Run(ctx, run.ID)
	run.Complete(application.RunStatus(rep), time.Now().UTC())
	if rep.HasRunFatalError() {
		run.Error = rep.Errors[0].Message
	}

	if progress != nil {
		progress.Close()
	}

	if !noPersist {
		db, err := database.New(appConfig.Database, logging.Default())
		if err != nil {
			logger.Error("run not persisted", "error", err.Error())
		} else {
			defer db.Close()
			if err := store.NewRunStore(db).SaveRun(ctx, run, rep); err != nil {
				logger.Error("run not persisted", "error", err.Error())
			}
		}
	}

	exporter, err := export.NewHTMLExporter()
	if err != nil {
		return err
	}
	if err := exporter.ExportFile(rep, outputPath); err != nil {
		return err
	}

	fmt.Printf("Run %s %s\n", run.ID, run.Status)
	fmt.Printf("  sites: %d  libraries: %d  links: %d  permissions: %d\n",
		rep.Summary.Sites, rep.Summary.Libraries, rep.Summary.Links, rep.Summary.Permissions)
	if len(rep.Errors) > 0 {
		fmt.Printf("  %d scope(s) could not be analyzed; see the report's error appendix\n", len(rep.Errors))
	}
	fmt.Printf("Report written to %s\n", outputPath)

	if run.Status == crawl.StatusFailed {
		return fmt.Errorf("crawl failed: %s", run.Error)
	}
	return nil
}

// resolveCredentials prefers explicit environment configuration and falls
// back to the encrypted credential store.
func resolveCredentials() (auth.Credentials, error) {
	creds := auth.Credentials{
		TenantID:     os.Getenv("GRAPH_TENANT_ID"),
		ClientID:     os.Getenv("GRAPH_CLIENT_ID"),
		ClientSecret: os.Getenv("GRAPH_CLIENT_SECRET"),
	}
	if creds.Validate() == nil {
		return creds, nil
	}

	path, err := credentialPath()
	if err != nil {
		return auth.Credentials{}, err
	}
	credStore := auth.NewCredentialStore(path)
	if !credStore.Exists() {
		return auth.Credentials{}, fmt.Errorf(
			"no credentials: set GRAPH_TENANT_ID/GRAPH_CLIENT_ID/GRAPH_CLIENT_SECRET or run 'shareaudit creds set'")
	}
	passphrase, err := resolvePassphrase()
	if err != nil {
		return auth.Credentials{}, err
	}
	return credStore.Load(passphrase)
}
