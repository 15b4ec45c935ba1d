package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/studyprep/internal/chat"
	"github.com/ppiankov/studyprep/internal/model"
	"github.com/ppiankov/studyprep/internal/render"
)

var (
	exportPath  string
	reportsFile string
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive study session",
	Long: `Chat reads questions from standard input and answers them in one session.

Commands inside the session:
  /clear                     clear the conversation
  /export <file.json|.md>    save the transcript
  /report <type> <details>   report a wrong answer (factual, calculation,
                             explanation, citation, other)
  /quit                      leave

Example:
  studyprep chat
  studyprep chat --seed-messages --export session.md`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, map[string]string{
			"threshold":     "chat.verify_threshold",
			"catalog":       "chat.catalog_file",
			"plain":         "output.plain_text",
			"seed-messages": "chat.seed_messages",
			"reports-file":  "server.reports_file",
		})
	},
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringVar(&exportPath, "export", "", "write the transcript on exit (.json or .md)")
	chatCmd.Flags().Bool("seed-messages", false, "start with the demo exchange")
	chatCmd.Flags().StringVar(&reportsFile, "reports-file", "", "append error reports to this JSON lines file")
	addEngineFlags(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := newApp(cfg, engineOptions(instant, randomSeed)...)
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var sink chat.ReportSink = &chat.MemoryReportSink{}
	if cfg.Server.ReportsFile != "" {
		sink = chat.NewFileReportSink(cfg.Server.ReportsFile)
	}

	term := render.NewTerminal(cmd.OutOrStdout(), os.Stderr, cfg.Output.PlainText)
	r := &repl{
		app:      a,
		sess:     chat.NewSession(""),
		term:     term,
		renderer: render.NewRenderer(cfg.Output.IncludeFooter),
		reports:  sink,
		out:      cmd.OutOrStdout(),
	}

	if cfg.Chat.SeedMessages {
		chat.Seed(r.sess)
		for _, msg := range r.sess.Messages() {
			term.RenderMessage(msg)
		}
	}

	if err := r.run(ctx, cmd.InOrStdin()); err != nil {
		return err
	}

	if exportPath != "" {
		if err := r.export(exportPath); err != nil {
			return err
		}
	}
	return nil
}

// repl drives one interactive session
type repl struct {
	app      *app
	sess     *chat.Session
	term     *render.Terminal
	renderer *render.Renderer
	reports  chat.ReportSink
	out      io.Writer
}

func (r *repl) run(ctx context.Context, in io.Reader) error {
	fmt.Fprintf(r.out, "studyprep %s. Ask a question, or /quit to leave.\n\n", Version)

	hooks := chat.Hooks{Renderer: r.term, Busy: r.term}
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			quit, err := r.command(ctx, line)
			if err != nil {
				fmt.Fprintf(os.Stderr, "✗ %v\n", err)
			}
			if quit {
				return nil
			}
			continue
		}

		if _, err := r.app.engine.Submit(ctx, r.sess, line, hooks); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		}
	}
	return scanner.Err()
}

// command handles a slash command and reports whether the session should end
func (r *repl) command(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return true, nil

	case "/clear":
		if err := r.sess.ClearIfIdle(); err != nil {
			return false, err
		}
		fmt.Fprintln(r.out, "Conversation cleared.")
		return false, nil

	case "/export":
		if len(fields) < 2 {
			return false, fmt.Errorf("usage: /export <file.json|file.md>")
		}
		return false, r.export(fields[1])

	case "/report":
		if len(fields) < 2 {
			return false, fmt.Errorf("usage: /report <type> <details>")
		}
		report, err := chat.BuildErrorReport(r.sess, fields[1], strings.Join(fields[2:], " "), "")
		if err != nil {
			return false, err
		}
		if err := r.reports.Submit(ctx, report); err != nil {
			return false, fmt.Errorf("submit report: %w", err)
		}
		fmt.Fprintln(r.out, "Thank you for your report. This helps improve the system.")
		return false, nil

	default:
		return false, fmt.Errorf("unknown command: %s", fields[0])
	}
}

// export writes the transcript as JSON or Markdown by file extension
func (r *repl) export(path string) error {
	transcript := chat.Export(r.sess)
	if err := writeTranscript(r.renderer, transcript, path); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "✓ Transcript saved to %s\n", path)
	return nil
}

func writeTranscript(renderer *render.Renderer, t model.Transcript, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return renderer.RenderMarkdown(t, path)
	default:
		return renderer.RenderJSON(t, path)
	}
}
