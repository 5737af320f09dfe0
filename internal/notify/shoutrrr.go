package notify

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/k3a/html2text"
	"github.com/nicholas-fedor/shoutrrr"
	"github.com/nicholas-fedor/shoutrrr/pkg/types"

	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/logger"
)

// ShoutrrrEmailGateway sends email through a shoutrrr SMTP service URL.
// The configured URL carries host, credentials and sender; recipients are
// appended per send.
type ShoutrrrEmailGateway struct {
	baseURL string
	log     logger.Logger
}

// NewShoutrrrEmailGateway creates an email gateway from a shoutrrr smtp://
// URL without a toaddresses parameter.
func NewShoutrrrEmailGateway(baseURL string, log logger.Logger) *ShoutrrrEmailGateway {
	return &ShoutrrrEmailGateway{baseURL: baseURL, log: log}
}

// Send implements EmailGateway. The whole recipient set goes out in a single
// submission; HTML bodies are passed through with UseHTML enabled.
func (g *ShoutrrrEmailGateway) Send(ctx context.Context, recipients []string, subject, htmlBody string) error {
	if g.baseURL == "" {
		return fmt.Errorf("email gateway not configured")
	}
	serviceURL, err := withQueryParam(g.baseURL, "toaddresses", strings.Join(recipients, ","))
	if err != nil {
		return fmt.Errorf("invalid email service URL: %w", err)
	}
	serviceURL, err = withQueryParam(serviceURL, "usehtml", "yes")
	if err != nil {
		return fmt.Errorf("invalid email service URL: %w", err)
	}

	sender, err := shoutrrr.CreateSender(serviceURL)
	if err != nil {
		return fmt.Errorf("failed to create email sender: %w", err)
	}

	params := types.Params{"subject": subject}
	for _, sendErr := range sender.Send(htmlBody, &params) {
		if sendErr != nil {
			return fmt.Errorf("email send failed: %w", sendErr)
		}
	}
	g.log.Debug("email submitted",
		logger.Int("recipients", len(recipients)),
		logger.String("subject", subject))
	return nil
}

// ShoutrrrChatGateway posts chat messages through a shoutrrr service URL.
// Conversations map to the recipient identity: the URL template's
// {recipient} placeholder is filled when a conversation is resolved.
type ShoutrrrChatGateway struct {
	urlTemplate string
	log         logger.Logger
}

// NewShoutrrrChatGateway creates a chat gateway from a shoutrrr URL template
// containing a {recipient} placeholder (e.g. a teams:// or msteams URL).
func NewShoutrrrChatGateway(urlTemplate string, log logger.Logger) *ShoutrrrChatGateway {
	return &ShoutrrrChatGateway{urlTemplate: urlTemplate, log: log}
}

// ResolveOrCreateConversation implements ChatGateway. The conversation ID is
// the fully resolved service URL for the recipient.
func (g *ShoutrrrChatGateway) ResolveOrCreateConversation(ctx context.Context, recipient string) (string, error) {
	if g.urlTemplate == "" {
		return "", fmt.Errorf("chat gateway not configured")
	}
	if recipient == "" {
		return "", fmt.Errorf("empty chat recipient")
	}
	return strings.ReplaceAll(g.urlTemplate, "{recipient}", url.QueryEscape(recipient)), nil
}

// PostMessage implements ChatGateway. HTML markup is flattened to plain text
// before posting since chat targets render their own formatting.
func (g *ShoutrrrChatGateway) PostMessage(ctx context.Context, conversationID, body string) error {
	sender, err := shoutrrr.CreateSender(conversationID)
	if err != nil {
		return fmt.Errorf("failed to create chat sender: %w", err)
	}
	text := html2text.HTML2Text(body)
	for _, sendErr := range sender.Send(text, nil) {
		if sendErr != nil {
			return fmt.Errorf("chat post failed: %w", sendErr)
		}
	}
	return nil
}

func withQueryParam(rawURL, key, value string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
