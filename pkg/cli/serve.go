package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/oa-lab/zaiseki/pkg/cli/config"
	httpctrl "github.com/oa-lab/zaiseki/pkg/controller/http"
	"github.com/oa-lab/zaiseki/pkg/service/worker"
	"github.com/oa-lab/zaiseki/pkg/usecase"
	"github.com/oa-lab/zaiseki/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var refreshInterval time.Duration
	var repoCfg config.Repository
	var slackCfg config.Slack

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("ZAISEKI_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "directory-refresh-interval",
			Usage:       "Interval for the background user directory refresh",
			Value:       worker.DefaultRefreshInterval,
			Sources:     cli.EnvVars("ZAISEKI_DIRECTORY_REFRESH_INTERVAL"),
			Destination: &refreshInterval,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the webhook server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if slackCfg.SigningSecret() == "" {
				return goerr.New("slack-signing-secret is required for serve")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			slackSvc, err := slackCfg.ConfigureService()
			if err != nil {
				return err
			}

			statusTable, err := slackCfg.ConfigureStatusTable()
			if err != nil {
				return err
			}

			uc := usecase.New(repo, slackSvc, statusTable)

			directoryWorker := worker.NewDirectoryRefreshWorker(repo, slackSvc, refreshInterval)
			if err := directoryWorker.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start directory refresh worker")
			}
			defer directoryWorker.Stop()

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, slackCfg.SigningSecret()),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("HTTP server starting", "addr", addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- goerr.Wrap(err, "HTTP server failed")
				}
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("shutting down", "signal", sig.String())
			case <-ctx.Done():
				logging.Default().Info("shutting down", "reason", "context cancelled")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown HTTP server")
			}

			return nil
		},
	}
}
