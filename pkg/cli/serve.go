package cli

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/cli/config"
	httpctrl "github.com/Gthierry-dev/applyonce-sub001/pkg/controller/http"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/service/storage"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/service/worker"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/usecase"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/utils/logging"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"
)

// memoryFilesPath is where objects of the memory storage backend are served
const memoryFilesPath = "/files"

func cmdServe(version string) *cli.Command {
	var addr string
	var baseURL string
	var seedPath string
	var countInterval time.Duration
	var applyPerMinute float64
	var applyBurst int
	var repoCfg config.Repository
	var authCfg config.Auth
	var slackCfg config.Slack
	var storageCfg config.Storage
	var sentryCfg config.Sentry

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("APPLYONCE_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Public base URL of this server (e.g., https://api.example.com)",
			Value:       "http://localhost:8080",
			Sources:     cli.EnvVars("APPLYONCE_BASE_URL"),
			Destination: &baseURL,
		},
		&cli.StringFlag{
			Name:        "seed",
			Usage:       "Seed file (TOML) applied at startup",
			Sources:     cli.EnvVars("APPLYONCE_SEED_FILE"),
			Destination: &seedPath,
		},
		&cli.DurationFlag{
			Name:        "count-interval",
			Usage:       "Interval of category opportunity count reconciliation",
			Value:       15 * time.Minute,
			Sources:     cli.EnvVars("APPLYONCE_COUNT_INTERVAL"),
			Destination: &countInterval,
		},
		&cli.FloatFlag{
			Name:        "apply-rate",
			Usage:       "Application submissions allowed per user per minute",
			Value:       float64(httpctrl.DefaultApplyRate) * 60,
			Category:    "Rate limit",
			Sources:     cli.EnvVars("APPLYONCE_APPLY_RATE"),
			Destination: &applyPerMinute,
		},
		&cli.IntFlag{
			Name:        "apply-burst",
			Usage:       "Burst of application submissions allowed per user",
			Value:       httpctrl.DefaultApplyBurst,
			Category:    "Rate limit",
			Sources:     cli.EnvVars("APPLYONCE_APPLY_BURST"),
			Destination: &applyBurst,
		},
	}

	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, authCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			flush, err := sentryCfg.Configure(version)
			if err != nil {
				return err
			}
			defer flush()

			logging.Default().Info("Configuration loaded",
				"repository", repoCfg,
				"auth", authCfg,
				"slack", slackCfg,
				"storage", storageCfg,
				"sentry", sentryCfg,
			)

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			authUC, err := authCfg.Configure(ctx, repo)
			if err != nil {
				return goerr.Wrap(err, "failed to configure authentication")
			}
			if !authCfg.IsConfigured() {
				logging.Default().Warn("No JWT secret or JWKS configured, only public routes are usable")
			}

			ucOpts := []usecase.Option{usecase.WithAuth(authUC)}

			slackSvc, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure slack")
			}
			if slackSvc != nil {
				ucOpts = append(ucOpts, usecase.WithSlack(slackSvc, slackCfg.ChannelID()))

				// Resolving the name checks that the bot can see the channel
				name, err := slackSvc.GetChannelName(ctx, slackCfg.ChannelID())
				if err != nil {
					logging.Default().Warn("Failed to resolve Slack channel, notifications may fail",
						"channel", slackCfg.ChannelID(), "error", err)
				} else {
					logging.Default().Info("Slack notifications enabled",
						"channel", slackCfg.ChannelID(), "channel_name", name)
				}
			}

			store, err := storageCfg.Configure(ctx, baseURL)
			if err != nil {
				return goerr.Wrap(err, "failed to configure storage")
			}
			if closer, ok := store.(io.Closer); ok {
				defer safe.Close(ctx, closer)
			}
			if store != nil {
				ucOpts = append(ucOpts, usecase.WithStorage(store))
			} else {
				logging.Default().Info("Storage backend not configured, uploads are disabled")
			}

			uc := usecase.New(repo, ucOpts...)

			if seedPath != "" {
				seed, err := config.LoadSeed(seedPath)
				if err != nil {
					return err
				}
				result, err := applySeed(ctx, uc, seed)
				if err != nil {
					return goerr.Wrap(err, "failed to apply seed", goerr.V("path", seedPath))
				}
				logging.Default().Info("Seed applied", "path", seedPath, "result", result)
			}

			countWorker := worker.NewCategoryCountWorker(repo, countInterval)
			if err := countWorker.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start category count worker")
			}

			httpOpts := []httpctrl.Options{
				httpctrl.WithApplyRateLimit(rate.Limit(applyPerMinute/60), applyBurst),
			}
			if mem, ok := store.(*storage.Memory); ok {
				httpOpts = append(httpOpts, httpctrl.WithMemoryFiles(mem, memoryFilesPath))
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, httpOpts...),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr, "base_url", baseURL)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				countWorker.Stop()
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				countWorker.Stop()

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
