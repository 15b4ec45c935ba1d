package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/studyprep/internal/model"
)

// Renderer writes session transcripts to disk
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a transcript renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the transcript as indented JSON
func (r *Renderer) RenderJSON(t model.Transcript, path string) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal transcript: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes the transcript as a Markdown study sheet
func (r *Renderer) RenderMarkdown(t model.Transcript, path string) error {
	return writeFile(path, []byte(r.Markdown(t)))
}

// Markdown formats the transcript
func (r *Renderer) Markdown(t model.Transcript) string {
	var b strings.Builder

	b.WriteString("# Study session\n\n")
	fmt.Fprintf(&b, "- Session: `%s`\n", t.SessionID)
	fmt.Fprintf(&b, "- Exported: %s\n", t.ExportedAt.UTC().Format(time.RFC3339))
	if t.Topic != "" {
		fmt.Fprintf(&b, "- Topic: %s\n", t.Topic)
	}
	b.WriteString("\n")

	for _, msg := range t.Messages {
		if msg.Role == model.RoleUser {
			fmt.Fprintf(&b, "### Question\n\n%s\n\n", quote(msg.Text))
			continue
		}

		if msg.Verified {
			fmt.Fprintf(&b, "**%s**\n\n", msg.VerifierName)
		} else {
			b.WriteString("**Tutor**\n\n")
		}
		fmt.Fprintf(&b, "%s\n\n", PlainText(msg.Text))
		if msg.Citation != "" {
			fmt.Fprintf(&b, "*Source: %s*\n\n", msg.Citation)
		}
		if msg.Disclaimer != "" {
			fmt.Fprintf(&b, "> %s\n\n", msg.Disclaimer)
		}
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		b.WriteString("_Generated by studyprep. Answers are study aids; check them against your course material._\n")
	}

	return b.String()
}

func quote(text string) string {
	lines := strings.Split(PlainText(text), "\n")
	for i, l := range lines {
		lines[i] = "> " + l
	}
	return strings.Join(lines, "\n")
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
