package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/studyprep/internal/chat"
	"github.com/ppiankov/studyprep/internal/render"
)

var (
	askJSON    bool
	instant    bool
	randomSeed int64
	askTimeout time.Duration
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a single question",
	Long: `Ask classifies one question, prints the tutor's answer and, for some
subjects, a verifier's follow-up.

Example:
  studyprep ask "What is a derivative?"
  studyprep ask "Explain DNA replication" --instant --json
  studyprep ask "What is force?" --random-seed 42`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, map[string]string{
			"threshold": "chat.verify_threshold",
			"catalog":   "chat.catalog_file",
			"plain":     "output.plain_text",
		})
	},
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the appended messages as JSON")
	askCmd.Flags().DurationVar(&askTimeout, "timeout", 2*time.Minute, "overall timeout")
	addEngineFlags(askCmd)
}

// addEngineFlags registers the flags shared by commands that run the engine
func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&instant, "instant", false, "skip the thinking pauses")
	cmd.Flags().Int64Var(&randomSeed, "random-seed", 0, "seed verification draws for reproducible output (0 = random)")
	cmd.Flags().Float64("threshold", 0.3, "verification threshold in [0,1]; a draw must exceed it (1 never verifies)")
	cmd.Flags().String("catalog", "", "YAML catalog file or http(s) URL (default: built-in)")
	cmd.Flags().Bool("plain", true, "strip markup from answers")
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := newApp(cfg, engineOptions(instant, randomSeed)...)
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Topic: %s\n", a.selector.Classify(question))
	}

	sess := chat.NewSession("")
	hooks := chat.Hooks{}
	if !askJSON {
		term := render.NewTerminal(cmd.OutOrStdout(), os.Stderr, cfg.Output.PlainText)
		hooks = chat.Hooks{Renderer: term, Busy: term}
	}

	messages, err := a.engine.Submit(ctx, sess, question, hooks)
	if err != nil {
		return fmt.Errorf("ask: %w", err)
	}

	if askJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(messages)
	}
	return nil
}
