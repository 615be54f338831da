package bot

import (
	"errors"
	"strings"
	"testing"

	tele "gopkg.in/telebot.v3"
)

type fakeSender struct {
	to   tele.Recipient
	text string
}

func (f *fakeSender) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	f.to = to
	f.text, _ = what.(string)
	return &tele.Message{}, nil
}

func TestNewNotifierSkipsWithoutToken(t *testing.T) {
	if n := NewNotifier("", 42); n != nil {
		t.Fatal("expected nil notifier without token")
	}
	if n := NewNotifier("token", 0); n != nil {
		t.Fatal("expected nil notifier without chat id")
	}
}

func TestNilNotifierIsSafe(t *testing.T) {
	var n *Notifier
	n.NotifyFailure("fetch", errors.New("boom"))
}

func TestNotifyFailureSendsAlert(t *testing.T) {
	origNew := newTelegramBot
	t.Cleanup(func() { newTelegramBot = origNew })

	fake := &fakeSender{}
	newTelegramBot = func(token string) (sender, error) {
		return fake, nil
	}

	n := NewNotifier("token", 42)
	if n == nil {
		t.Fatal("expected notifier")
	}

	n.NotifyFailure("publish", errors.New("rate limited"))
	if fake.to != tele.ChatID(42) {
		t.Fatalf("expected chat id 42, got %v", fake.to)
	}
	if !strings.Contains(fake.text, "publish") || !strings.Contains(fake.text, "rate limited") {
		t.Fatalf("unexpected alert text: %q", fake.text)
	}
}

func TestNewNotifierDisablesOnBotError(t *testing.T) {
	origNew := newTelegramBot
	t.Cleanup(func() { newTelegramBot = origNew })

	newTelegramBot = func(token string) (sender, error) {
		return nil, errors.New("unauthorized")
	}
	if n := NewNotifier("bad-token", 42); n != nil {
		t.Fatal("expected nil notifier on bot error")
	}
}
