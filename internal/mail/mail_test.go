package mail

import (
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/store"
)

func TestNotifyNotConfigured(t *testing.T) {
	n := NewSMTPNotifier(config.SMTP{Host: "smtp.example.com", Port: "587"})
	assert.ErrorIs(t, n.Notify(store.ContactMessage{}), ErrNotConfigured)
}

func TestNotifySends(t *testing.T) {
	cfg := config.SMTP{Host: "smtp.example.com", Port: "587", User: "me@example.com", Pass: "pw"}
	n := NewSMTPNotifier(cfg)

	var gotAddr string
	var gotTo []string
	var gotMsg []byte
	n.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, msg
		assert.Equal(t, "me@example.com", from)
		return nil
	}

	require.NoError(t, n.Notify(store.ContactMessage{Name: "Ada", Email: "ada@example.com", Message: "hi"}))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"me@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Portfolio Contact: Ada\r\n")
	assert.Contains(t, string(gotMsg), "Reply-To: ada@example.com\r\n")
}

func TestNotifyWrapsSendError(t *testing.T) {
	n := NewSMTPNotifier(config.SMTP{User: "u", Pass: "p", Host: "h", Port: "25"})
	boom := errors.New("connection refused")
	n.send = func(string, smtp.Auth, string, []string, []byte) error { return boom }
	assert.ErrorIs(t, n.Notify(store.ContactMessage{}), boom)
}

func TestComposeStripsHeaderInjection(t *testing.T) {
	msg := string(Compose(config.SMTP{ToEmail: "me@example.com", User: "me@example.com"}, store.ContactMessage{
		Name:  "Eve\r\nBcc: victim@example.com",
		Email: "eve@example.com",
	}))
	assert.NotContains(t, msg, "\r\nBcc:")
}
