// Package notify holds the outbound notification gateways: email, chat
// and the in-process banner center.
package notify

import "context"

// EmailGateway submits one email to a set of recipients.
type EmailGateway interface {
	Send(ctx context.Context, recipients []string, subject, htmlBody string) error
}

// ChatGateway posts messages into per-recipient conversations.
type ChatGateway interface {
	// ResolveOrCreateConversation returns the conversation ID for a
	// recipient identity, creating the conversation when none exists.
	ResolveOrCreateConversation(ctx context.Context, recipient string) (string, error)
	PostMessage(ctx context.Context, conversationID, body string) error
}
