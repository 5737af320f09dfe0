package alerting

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/entities"
	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/logger"
	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/notify"
)

func testLogger() logger.Logger {
	return logger.NewSlogLogger(io.Discard, logger.LogLevelError, nil)
}

type emailCall struct {
	recipients []string
	subject    string
	body       string
}

type mockEmailGateway struct {
	mu    sync.Mutex
	calls []emailCall
	err   error
}

func (m *mockEmailGateway) Send(_ context.Context, recipients []string, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, emailCall{recipients: recipients, subject: subject, body: htmlBody})
	return m.err
}

type chatPost struct {
	conversationID string
	body           string
}

type mockChatGateway struct {
	mu         sync.Mutex
	resolveErr map[string]error
	postErr    map[string]error
	posts      []chatPost
}

func (m *mockChatGateway) ResolveOrCreateConversation(_ context.Context, recipient string) (string, error) {
	if err := m.resolveErr[recipient]; err != nil {
		return "", err
	}
	return "conv-" + recipient, nil
}

func (m *mockChatGateway) PostMessage(_ context.Context, conversationID, body string) error {
	if err := m.postErr[conversationID]; err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts = append(m.posts, chatPost{conversationID: conversationID, body: body})
	return nil
}

func allToggles() ChannelToggles {
	return ChannelToggles{Email: true, Teams: true, Banner: true}
}

func dispatchRule(actions ...entities.AlertAction) *entities.AlertRule {
	return &entities.AlertRule{
		ID:       7,
		Name:     "Overdue Tasks",
		Severity: SeverityCritical,
		Actions:  actions,
	}
}

func TestDispatch_EmailRecipientCleaning(t *testing.T) {
	t.Parallel()

	email := &mockEmailGateway{}
	d := NewDispatcher(email, nil, nil, testLogger())
	rule := dispatchRule(entities.AlertAction{
		Channel:    ChannelEmail,
		Enabled:    true,
		Recipients: " ops@example.com , , ",
		Subject:    "s",
		Body:       "b",
	})

	notified := d.Dispatch(context.Background(), rule, Tokens{}, allToggles(), DispatchDefaults{})

	assert.Equal(t, []string{ChannelEmail}, notified)
	require.Len(t, email.calls, 1)
	assert.Equal(t, []string{"ops@example.com"}, email.calls[0].recipients)
}

func TestDispatch_EmailNoRecipientsSkipped(t *testing.T) {
	t.Parallel()

	email := &mockEmailGateway{}
	d := NewDispatcher(email, nil, nil, testLogger())
	rule := dispatchRule(entities.AlertAction{
		Channel:    ChannelEmail,
		Enabled:    true,
		Recipients: " , ,",
	})

	notified := d.Dispatch(context.Background(), rule, Tokens{}, allToggles(), DispatchDefaults{})

	assert.Empty(t, notified)
	assert.Empty(t, email.calls)
}

func TestDispatch_EmailFailureOmittedFromNotified(t *testing.T) {
	t.Parallel()

	email := &mockEmailGateway{err: errors.New("smtp down")}
	d := NewDispatcher(email, nil, nil, testLogger())
	rule := dispatchRule(entities.AlertAction{
		Channel:    ChannelEmail,
		Enabled:    true,
		Recipients: "ops@example.com",
	})

	notified := d.Dispatch(context.Background(), rule, Tokens{}, allToggles(), DispatchDefaults{})

	assert.Empty(t, notified, "failed channel must not be reported as notified")
	assert.Len(t, email.calls, 1, "the send itself was still attempted")
}

func TestDispatch_TeamsPerRecipientIsolation(t *testing.T) {
	t.Parallel()

	chat := &mockChatGateway{resolveErr: map[string]error{"alice": errors.New("no such user")}}
	d := NewDispatcher(nil, chat, nil, testLogger())
	rule := dispatchRule(entities.AlertAction{
		Channel:    ChannelTeams,
		Enabled:    true,
		Recipients: "alice,bob",
	})

	notified := d.Dispatch(context.Background(), rule, Tokens{}, allToggles(), DispatchDefaults{})

	assert.Equal(t, []string{ChannelTeams}, notified, "one delivery is enough to count the channel")
	require.Len(t, chat.posts, 1)
	assert.Equal(t, "conv-bob", chat.posts[0].conversationID)
}

func TestDispatch_TeamsAllRecipientsFail(t *testing.T) {
	t.Parallel()

	chat := &mockChatGateway{resolveErr: map[string]error{
		"alice": errors.New("no such user"),
		"bob":   errors.New("no such user"),
	}}
	d := NewDispatcher(nil, chat, nil, testLogger())
	rule := dispatchRule(entities.AlertAction{
		Channel:    ChannelTeams,
		Enabled:    true,
		Recipients: "alice,bob",
	})

	notified := d.Dispatch(context.Background(), rule, Tokens{}, allToggles(), DispatchDefaults{})
	assert.Empty(t, notified)
	assert.Empty(t, chat.posts)
}

func TestDispatch_BannerPushWithAutoDismiss(t *testing.T) {
	t.Parallel()

	banners := notify.NewBannerCenter()
	d := NewDispatcher(nil, nil, banners, testLogger())
	rule := dispatchRule(entities.AlertAction{
		Channel:        ChannelBanner,
		Enabled:        true,
		Message:        "{ruleName} fired",
		AutoDismissSec: 5,
	})

	notified := d.Dispatch(context.Background(), rule, Tokens{TokenRuleName: "Overdue Tasks"}, allToggles(), DispatchDefaults{})

	assert.Equal(t, []string{ChannelBanner}, notified)
	list := banners.List()
	require.Len(t, list, 1)
	assert.Equal(t, "Overdue Tasks fired", list[0].Message)
	assert.Equal(t, SeverityCritical, list[0].Severity)
	assert.Equal(t, 5000, list[0].AutoDismissMs)
}

func TestDispatch_DisabledToggleSuppressesChannel(t *testing.T) {
	t.Parallel()

	email := &mockEmailGateway{}
	d := NewDispatcher(email, nil, nil, testLogger())
	rule := dispatchRule(entities.AlertAction{
		Channel:    ChannelEmail,
		Enabled:    true,
		Recipients: "ops@example.com",
	})

	notified := d.Dispatch(context.Background(), rule, Tokens{}, ChannelToggles{Email: false}, DispatchDefaults{})
	assert.Empty(t, notified)
	assert.Empty(t, email.calls)
}

func TestDispatch_DisabledActionSkipped(t *testing.T) {
	t.Parallel()

	email := &mockEmailGateway{}
	d := NewDispatcher(email, nil, nil, testLogger())
	rule := dispatchRule(entities.AlertAction{
		Channel:    ChannelEmail,
		Enabled:    false,
		Recipients: "ops@example.com",
	})

	notified := d.Dispatch(context.Background(), rule, Tokens{}, allToggles(), DispatchDefaults{})
	assert.Empty(t, notified)
	assert.Empty(t, email.calls)
}

func TestDispatch_AllChannelsFailReturnsEmpty(t *testing.T) {
	t.Parallel()

	email := &mockEmailGateway{err: errors.New("smtp down")}
	chat := &mockChatGateway{resolveErr: map[string]error{"alice": errors.New("offline")}}
	d := NewDispatcher(email, chat, nil, testLogger())
	rule := dispatchRule(
		entities.AlertAction{Channel: ChannelEmail, Enabled: true, Recipients: "ops@example.com"},
		entities.AlertAction{Channel: ChannelTeams, Enabled: true, Recipients: "alice"},
		entities.AlertAction{Channel: ChannelBanner, Enabled: true},
	)

	notified := d.Dispatch(context.Background(), rule, Tokens{}, allToggles(), DispatchDefaults{})
	assert.Empty(t, notified)
}

func TestDispatch_TemplateFallbackChain(t *testing.T) {
	t.Parallel()

	email := &mockEmailGateway{}
	d := NewDispatcher(email, nil, nil, testLogger())
	rule := dispatchRule(entities.AlertAction{
		Channel:    ChannelEmail,
		Enabled:    true,
		Recipients: "ops@example.com",
	})
	tokens := Tokens{TokenRuleName: "Overdue Tasks", TokenSeverity: SeverityCritical}

	d.Dispatch(context.Background(), rule, tokens, allToggles(), DispatchDefaults{})
	require.Len(t, email.calls, 1)
	assert.Equal(t, "[critical] Overdue Tasks", email.calls[0].subject,
		"blank action and config subjects fall back to the built-in default")
	assert.Contains(t, email.calls[0].body, "<h2>Overdue Tasks</h2>")

	// A config-level default outranks the built-in one.
	email.calls = nil
	d.Dispatch(context.Background(), rule, tokens, allToggles(), DispatchDefaults{
		EmailSubject: "alert: {ruleName}",
	})
	require.Len(t, email.calls, 1)
	assert.Equal(t, "alert: Overdue Tasks", email.calls[0].subject)
}

func TestDispatch_UnknownChannelIgnored(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(nil, nil, nil, testLogger())
	rule := dispatchRule(entities.AlertAction{Channel: "pager", Enabled: true})

	notified := d.Dispatch(context.Background(), rule, Tokens{}, allToggles(), DispatchDefaults{})
	assert.Empty(t, notified)
}
