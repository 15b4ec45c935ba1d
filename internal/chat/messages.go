package chat

import (
	"github.com/ppiankov/studyprep/internal/model"
)

// FallbackText is the single reply emitted when generation fails
const FallbackText = "I apologize, but I'm having trouble processing your request right now. Please try again."

func userMessage(text string) model.ChatMessage {
	return model.ChatMessage{
		Role: model.RoleUser,
		Text: text,
	}
}

// assistantMessage builds an unverified reply. It carries a disclaimer unless
// the reply explicitly suppresses it.
func assistantMessage(reply Reply, topic model.Topic) model.ChatMessage {
	msg := model.ChatMessage{
		Role:     model.RoleAssistant,
		Text:     reply.Text,
		Citation: reply.Citation,
		Topic:    topic,
	}
	if !reply.NoDisclaimer {
		msg.Disclaimer = reply.Disclaimer
		if msg.Disclaimer == "" {
			msg.Disclaimer = model.DefaultDisclaimer
		}
	}
	return msg
}

// verifiedMessage never carries a disclaimer and always names its verifier
func verifiedMessage(v model.Verification) model.ChatMessage {
	return model.ChatMessage{
		Role:         model.RoleAssistant,
		Text:         v.Text,
		Verified:     true,
		VerifierName: v.Verifier,
		Topic:        v.Topic,
	}
}

func fallbackMessage() model.ChatMessage {
	return model.ChatMessage{
		Role:       model.RoleAssistant,
		Text:       FallbackText,
		Disclaimer: model.DefaultDisclaimer,
	}
}
