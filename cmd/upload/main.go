package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	appconfig "github.com/fedutinova/logsuggest/internal/config"
	"github.com/fedutinova/logsuggest/internal/termui"
	"github.com/fedutinova/logsuggest/internal/uploadclient"
	"github.com/fedutinova/logsuggest/internal/webui"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var debug bool
	root := &cobra.Command{
		Use:           "upload",
		Short:         "Upload application logs to the log suggestion service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if debug {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	root.AddCommand(serveCmd(), analyzeCmd())
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser upload page",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.LoadClient()
			if err != nil {
				return err
			}

			ui := webui.New(uploadclient.New(cfg.BackendURL, cfg.Timeout))
			srv := &http.Server{
				Addr:              cfg.UIAddr,
				Handler:           ui.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				slog.Warn("upload page listening", "addr", cfg.UIAddr, "backend", cfg.BackendURL)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			ch := make(chan os.Signal, 1)
			signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
			select {
			case err := <-errCh:
				return err
			case <-ch:
			}

			shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shCtx)
		},
	}
}

func analyzeCmd() *cobra.Command {
	var style string
	var width int
	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze a log file and print the suggestion",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printer, err := termui.New(cmd.OutOrStdout(), style, width)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				printer.Warn(uploadclient.Message(uploadclient.ErrNoFile))
				return uploadclient.ErrNoFile
			}

			cfg, err := appconfig.LoadClient()
			if err != nil {
				return err
			}

			content, err := os.ReadFile(args[0])
			if err != nil {
				printer.Error(fmt.Sprintf("Could not read %s.", args[0]))
				return err
			}

			client := uploadclient.New(cfg.BackendURL, cfg.Timeout)
			suggestion, err := client.Analyze(cmd.Context(), uploadclient.Upload{
				Filename: filepath.Base(args[0]),
				Content:  content,
			})
			if err != nil {
				printer.Error(uploadclient.Message(err))
				return err
			}

			printer.Suggestion(suggestion)
			return nil
		},
	}
	cmd.Flags().StringVar(&style, "style", "dark", "glamour style (dark, light, notty, ...)")
	cmd.Flags().IntVar(&width, "width", 100, "word wrap width")
	return cmd
}
