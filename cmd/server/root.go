package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hongminglow/recharge-web/internal/config"
	"github.com/hongminglow/recharge-web/internal/server"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	envFile    string
	port       string
	backendURL string
)

func execute() error {
	root := &cobra.Command{
		Use:           "recharge-web",
		Short:         "Mobile recharge front-end",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	root.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	root.Flags().StringVar(&backendURL, "backend-url", "", "recharge API base URL (overrides BACKEND_URL)")

	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		log.Printf("recharge-web: %v", err)
		return err
	}
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func serve(ctx context.Context) error {
	loadLocalEnv(envFile)

	cfg, err := config.Parse()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if port != "" {
		cfg.Port = port
	}
	if backendURL != "" {
		cfg.BackendURL = backendURL
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := openDraftStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init draft store: %w", err)
	}
	defer store.Close()

	srv, err := server.New(cfg, store)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("recharge front-end listening on %s (backend %s, drafts in %s)", cfg.HTTPAddress(), cfg.BackendURL, cfg.DraftStore)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-sigCh:
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
	return nil
}

func loadLocalEnv(path string) {
	if err := godotenv.Load(path); err != nil {
		log.Printf("no %s file found; relying on existing environment", path)
	}
}
