// Showcase — a single-page demo of immediate-mode web widgets.
// Author: vesaa | License: MIT
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/vesaa/showcase/internal/app"
	"github.com/vesaa/showcase/internal/config"
	"github.com/vesaa/showcase/internal/server"
	"github.com/vesaa/showcase/internal/store"
	"github.com/vesaa/showcase/internal/widgets"
)

const version = "v0.1.0"

func printBanner(mode string) {
	fmt.Printf("\n  ► Showcase %s  |  Mode: %s\n\n", version, mode)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "showcase",
		Short: "Showcase — a demo page of text, number, slider, chart and download widgets",
		Long: `Showcase serves a single web page that exercises a small widget toolkit:
inputs with a conditional greeting, a sidebar, an image, a sine line chart
and a CSV download. Every interaction re-runs the page against your session.`,
		SilenceUsage: true,
	}

	// ── serve subcommand ──────────────────────────────────────────────────────
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			// CLI flag overrides config only when given explicitly.
			if cmd.Flags().Changed("dev-mode") {
				cfg.DevelopmentMode, _ = cmd.Flags().GetBool("dev-mode")
			}
			return serve(cfg)
		},
	}
	serveCmd.Flags().Bool("dev-mode", false, "Enable development mode (gin debug + request logging)")

	// ── render subcommand ─────────────────────────────────────────────────────
	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Run the page once with empty state and print the HTML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			srv, err := server.New(cfg, nil)
			if err != nil {
				return err
			}
			p := srv.Run(widgets.Values{})
			return p.Render(cmd.OutOrStdout(), srv.Template())
		},
	}

	// ── export-csv subcommand ─────────────────────────────────────────────────
	exportCmd := &cobra.Command{
		Use:   "export-csv [path]",
		Short: "Write the example CSV offered by the download button",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content := app.DefaultContent()
			path := content.CSVName
			if len(args) == 1 {
				path = args[0]
			}
			if err := os.WriteFile(path, []byte(content.CSV), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  ✓ wrote %s\n", path)
			return nil
		},
	}

	// ── version subcommand ────────────────────────────────────────────────────
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print Showcase version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Showcase %s\n", version)
		},
	}

	root.AddCommand(serveCmd, renderCmd, exportCmd, versionCmd)
	return root
}

func serve(cfg *config.Config) error {
	mode := "RELEASE"
	if cfg.DevelopmentMode {
		mode = "DEVELOPMENT"
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	printBanner(mode)

	st, err := store.Open(cfg.DBDriver, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}
	defer st.Close()

	srv, err := server.New(cfg, st)
	if err != nil {
		return fmt.Errorf("building server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go srv.PruneLoop(ctx, time.Hour)

	httpSrv := &http.Server{Addr: cfg.Addr(), Handler: srv.Engine()}
	fmt.Printf("  ✓ Page → http://%s\n\n", cfg.Addr())

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		fmt.Println("\n  → Shutting down gracefully…")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}
