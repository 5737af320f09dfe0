package alerting

import (
	"context"
	"strings"

	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/entities"
	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/logger"
	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/metrics"
	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/notify"
)

// ChannelToggles are the global per-channel switches. A disabled toggle
// suppresses that channel for every rule regardless of per-action settings.
type ChannelToggles struct {
	Email  bool
	Teams  bool
	Banner bool
}

// DispatchDefaults supply templates when a rule's action leaves them blank.
type DispatchDefaults struct {
	EmailSubject string
	Template     string
}

// Dispatcher fans a triggered rule out to its enabled channels. Each
// channel's failure is caught, logged and counted; partial delivery is
// expected and accepted, there is no all-or-nothing guarantee.
type Dispatcher struct {
	email   notify.EmailGateway
	chat    notify.ChatGateway
	banners *notify.BannerCenter
	log     logger.Logger
}

// NewDispatcher creates a Dispatcher. Nil gateways disable their channel.
func NewDispatcher(email notify.EmailGateway, chat notify.ChatGateway, banners *notify.BannerCenter, log logger.Logger) *Dispatcher {
	return &Dispatcher{email: email, chat: chat, banners: banners, log: log}
}

// Dispatch sends the rule's notifications and returns the channel names
// actually notified. A channel counts as notified when the send was
// attempted; fire-and-forget transports cannot confirm delivery.
func (d *Dispatcher) Dispatch(ctx context.Context, rule *entities.AlertRule, tokens Tokens, toggles ChannelToggles, defaults DispatchDefaults) []string {
	var notified []string
	for i := range rule.Actions {
		action := &rule.Actions[i]
		if !action.Enabled {
			continue
		}
		switch action.Channel {
		case ChannelEmail:
			if toggles.Email && d.dispatchEmail(ctx, rule, action, tokens, defaults) {
				notified = append(notified, ChannelEmail)
			}
		case ChannelTeams:
			if toggles.Teams && d.dispatchTeams(ctx, rule, action, tokens, defaults) {
				notified = append(notified, ChannelTeams)
			}
		case ChannelBanner:
			if toggles.Banner && d.dispatchBanner(rule, action, tokens, defaults) {
				notified = append(notified, ChannelBanner)
			}
		default:
			d.log.Warn("unknown notification channel",
				logger.String("channel", action.Channel),
				logger.Uint64("rule_id", uint64(rule.ID)))
		}
	}
	return notified
}

func (d *Dispatcher) dispatchEmail(ctx context.Context, rule *entities.AlertRule, action *entities.AlertAction, tokens Tokens, defaults DispatchDefaults) bool {
	if d.email == nil {
		return false
	}
	recipients := splitRecipients(action.Recipients)
	if len(recipients) == 0 {
		return false
	}

	subject := firstNonEmpty(action.Subject, defaults.EmailSubject, DefaultEmailSubject)
	body := firstNonEmpty(action.Body, defaults.Template, DefaultEmailTemplate)

	if err := d.email.Send(ctx, recipients, Render(subject, tokens), Render(body, tokens)); err != nil {
		metrics.DispatchErrors.WithLabelValues(ChannelEmail).Inc()
		d.log.Error("email dispatch failed",
			logger.Uint64("rule_id", uint64(rule.ID)),
			logger.Error(err))
		return false
	}
	metrics.NotificationsSent.WithLabelValues(ChannelEmail).Inc()
	return true
}

func (d *Dispatcher) dispatchTeams(ctx context.Context, rule *entities.AlertRule, action *entities.AlertAction, tokens Tokens, defaults DispatchDefaults) bool {
	if d.chat == nil {
		return false
	}
	recipients := splitRecipients(action.Recipients)
	if len(recipients) == 0 {
		return false
	}

	body := Render(firstNonEmpty(action.Body, defaults.Template, DefaultChatTemplate), tokens)

	delivered := false
	for _, recipient := range recipients {
		// Each recipient resolves and posts independently so one bad
		// identity cannot block the rest.
		conversationID, err := d.chat.ResolveOrCreateConversation(ctx, recipient)
		if err != nil {
			metrics.DispatchErrors.WithLabelValues(ChannelTeams).Inc()
			d.log.Error("failed to resolve chat conversation",
				logger.Uint64("rule_id", uint64(rule.ID)),
				logger.String("recipient", recipient),
				logger.Error(err))
			continue
		}
		if err := d.chat.PostMessage(ctx, conversationID, body); err != nil {
			metrics.DispatchErrors.WithLabelValues(ChannelTeams).Inc()
			d.log.Error("chat post failed",
				logger.Uint64("rule_id", uint64(rule.ID)),
				logger.String("recipient", recipient),
				logger.Error(err))
			continue
		}
		delivered = true
	}
	if delivered {
		metrics.NotificationsSent.WithLabelValues(ChannelTeams).Inc()
	}
	return delivered
}

func (d *Dispatcher) dispatchBanner(rule *entities.AlertRule, action *entities.AlertAction, tokens Tokens, defaults DispatchDefaults) bool {
	if d.banners == nil {
		return false
	}
	message := Render(firstNonEmpty(action.Message, defaults.Template, DefaultChatTemplate), tokens)
	d.banners.Push(rule.ID, message, rule.Severity, action.AutoDismissSec*1000)
	metrics.NotificationsSent.WithLabelValues(ChannelBanner).Inc()
	return true
}

// splitRecipients splits on comma, trims whitespace and drops empties.
func splitRecipients(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
