package chat

import "github.com/ppiankov/studyprep/internal/model"

// Seed appends the static exchange the demo widget opens with
func Seed(sess *Session) {
	sess.Append(model.ChatMessage{
		Role: model.RoleUser,
		Text: "Can you explain the fundamental theorem of calculus?",
	})
	sess.Append(model.ChatMessage{
		Role:       model.RoleAssistant,
		Text:       "The Fundamental Theorem of Calculus connects differentiation and integration...",
		Disclaimer: model.DefaultDisclaimer,
		Topic:      model.TopicCalculus,
	})
	sess.Append(model.ChatMessage{
		Role:         model.RoleAssistant,
		Text:         "The previous explanation is correct...",
		Verified:     true,
		VerifierName: "Verified by MIT Mathematics Graduate",
		Topic:        model.TopicCalculus,
	})
	sess.observeTopic(model.TopicCalculus)
}
