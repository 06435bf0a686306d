package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"shareaudit/database"
	"shareaudit/infrastructure/export"
	"shareaudit/infrastructure/store"
	"shareaudit/interfaces/web"
	"shareaudit/logging"
)

func newServeCommand() *cobra.Command {
	var (
		addr        string
		httpLogPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored reports over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = appConfig.HTTPAddr
			}
			return runServe(addr, httpLogPath)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from HTTP_ADDR env)")
	cmd.Flags().StringVar(&httpLogPath, "http-log", "", "append HTTP request logs to this file")
	return cmd
}

func runServe(addr, httpLogPath string) error {
	logger := logging.Default().WithComponent("server")

	db, err := database.New(appConfig.Database, logging.Default())
	if err != nil {
		return err
	}
	defer db.Close()

	exporter, err := export.NewHTMLExporter()
	if err != nil {
		return err
	}

	srv := web.NewServer(store.NewRunStore(db), exporter)
	httpServer := &http.Server{Addr: addr, Handler: srv.Router(httpLogPath)}

	// Graceful shutdown on interrupt.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err.Error())
		}
	}()

	logger.Info("server starting", "address", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	logger.Info("server stopped")
	return nil
}
