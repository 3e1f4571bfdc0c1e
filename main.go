package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mseongj/spaceflight-news/config"
	"github.com/mseongj/spaceflight-news/logger"
	"github.com/mseongj/spaceflight-news/routes"
	"github.com/mseongj/spaceflight-news/spaceflight"
	"github.com/mseongj/spaceflight-news/views"
)

var version = "dev"

func main() {
	if err := rootCMD().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCMD() *cobra.Command {
	serve := serveCMD()

	root := &cobra.Command{
		Use:          "spaceflight-news",
		Short:        "Spaceflight news article browser",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	// 하위 명령 없이 실행하면 serve와 같습니다
	config.RegisterFlags(root.Flags())
	root.PersistentFlags().String("env-file", ".env", "dotenv file to load before reading the environment")

	root.AddCommand(serve, versionCMD())
	return root
}

func serveCMD() *cobra.Command {
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			envFile, err := cmd.Flags().GetString("env-file")
			if err != nil {
				return err
			}
			cfg, err := config.Load(envFile, cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	config.RegisterFlags(serve.Flags())
	return serve
}

func versionCMD() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.InitLogger(cfg.LogLevel)

	renderer, err := views.NewRenderer()
	if err != nil {
		return err
	}

	client := spaceflight.NewClient(cfg.UpstreamBaseURL,
		spaceflight.WithTimeout(cfg.UpstreamTimeout),
		spaceflight.WithRateLimit(cfg.UpstreamRPS),
	)

	router := routes.SetupRoutes(client, renderer, cfg.CORSAllowedOrigin, "./public/")

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server is running",
			slog.String("addr", cfg.Addr),
			slog.String("upstream", cfg.UpstreamBaseURL))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
