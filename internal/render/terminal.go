package render

import (
	"fmt"
	"io"
	"sync"

	"github.com/ppiankov/studyprep/internal/model"
)

// Terminal prints chat messages for an interactive session. It implements
// chat.Renderer and chat.BusyIndicator.
type Terminal struct {
	mu     sync.Mutex
	out    io.Writer
	status io.Writer
	plain  bool
}

// NewTerminal writes messages to out and the busy indicator to status.
// With plain set, HTML fragments are converted to text.
func NewTerminal(out, status io.Writer, plain bool) *Terminal {
	return &Terminal{out: out, status: status, plain: plain}
}

// RenderMessage prints one message with its badges
func (t *Terminal) RenderMessage(msg model.ChatMessage) {
	t.mu.Lock()
	defer t.mu.Unlock()

	text := msg.Text
	if t.plain {
		text = PlainText(text)
	}

	if msg.Role == model.RoleUser {
		fmt.Fprintf(t.out, "you> %s\n", text)
		return
	}

	if msg.Verified {
		fmt.Fprintf(t.out, "✓ %s\n", msg.VerifierName)
	}
	fmt.Fprintf(t.out, "%s\n", text)
	if msg.Citation != "" {
		fmt.Fprintf(t.out, "  Source: %s\n", msg.Citation)
	}
	if msg.Disclaimer != "" {
		fmt.Fprintf(t.out, "  ⚠ %s\n", msg.Disclaimer)
	}
	fmt.Fprintln(t.out)
}

// SetBusy shows or clears the typing indicator
func (t *Terminal) SetBusy(busy bool) {
	if t.status == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if busy {
		fmt.Fprint(t.status, "tutor is typing...\r")
	} else {
		fmt.Fprint(t.status, "                  \r")
	}
}
