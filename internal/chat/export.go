package chat

import (
	"time"

	"github.com/ppiankov/studyprep/internal/model"
)

// Export snapshots a session into a transcript
func Export(sess *Session) model.Transcript {
	return model.Transcript{
		SessionID:  sess.ID(),
		ExportedAt: time.Now().UTC(),
		Topic:      sess.CurrentTopic(),
		Messages:   sess.Messages(),
	}
}
