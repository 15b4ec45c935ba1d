package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/studyprep/internal/catalog"
	"github.com/ppiankov/studyprep/internal/render"
	"github.com/ppiankov/studyprep/internal/selector"
)

// catalogCmd represents the catalog command
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the answer catalog",
}

var catalogDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the built-in catalog as YAML",
	Long: `Dump prints the built-in catalog. Edit the output and point
chat.catalog_file (or --catalog) at it to customize answers.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := catalog.Dump()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var catalogClassifyCmd = &cobra.Command{
	Use:   "classify <question>",
	Short: "Show the topic and answer chosen for a question",
	Args:  cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, map[string]string{"catalog": "chat.catalog_file"})
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		cat, err := openCatalog(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		sel := selector.New(cat, cfg.Chat.VerifyThreshold)

		question := strings.Join(args, " ")
		topic := sel.Classify(question)
		entry := sel.SelectResponse(topic, question)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Topic:       %s\n", topic)
		fmt.Fprintf(out, "Verifiable:  %v\n", cat.IsVerifiable(topic))
		if entry.Citation != "" {
			fmt.Fprintf(out, "Citation:    %s\n", entry.Citation)
		}
		fmt.Fprintf(out, "\n%s\n", render.PlainText(entry.Response))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogDumpCmd)
	catalogCmd.AddCommand(catalogClassifyCmd)

	catalogClassifyCmd.Flags().String("catalog", "", "YAML catalog file or http(s) URL (default: built-in)")
}
