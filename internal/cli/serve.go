package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/studyprep/internal/chat"
	"github.com/ppiankov/studyprep/internal/server"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve study sessions over HTTP and WebSocket",
	Long: `Serve exposes the chat over a JSON API and a WebSocket stream.

Endpoints:
  POST   /api/sessions
  GET    /api/sessions/{id}/messages
  POST   /api/sessions/{id}/messages
  DELETE /api/sessions/{id}/messages
  GET    /api/sessions/{id}/export
  POST   /api/sessions/{id}/reports
  GET    /api/catalog/topics
  GET    /ws/chat

Example:
  studyprep serve --addr :8080
  studyprep serve --allow-all-origins --seed-messages`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, map[string]string{
			"addr":              "server.addr",
			"allow-all-origins": "server.allow_all_origins",
			"reports-file":      "server.reports_file",
			"seed-messages":     "chat.seed_messages",
			"threshold":         "chat.verify_threshold",
			"catalog":           "chat.catalog_file",
			"plain":             "output.plain_text",
		})
	},
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().Bool("allow-all-origins", false, "allow any CORS origin (development)")
	serveCmd.Flags().String("reports-file", "", "append error reports to this JSON lines file")
	serveCmd.Flags().Bool("seed-messages", false, "start new sessions with the demo exchange")
	addEngineFlags(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := newApp(cfg, engineOptions(instant, randomSeed)...)
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	var sink chat.ReportSink
	if cfg.Server.ReportsFile != "" {
		sink = chat.NewFileReportSink(cfg.Server.ReportsFile)
	}

	srv := server.New(server.ConfigFromModel(cfg), a.engine, sink, a.logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	fmt.Fprintf(os.Stderr, "studyprep %s serving on %s\n", Version, cfg.Server.Addr)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	fmt.Fprintf(os.Stderr, "Shutting down...\n")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
