package mail

import (
	"bytes"
	"context"
	"testing"

	"family-planner/internal/domain/notification"
	"family-planner/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLogTransportWritesMessage(t *testing.T) {
	var buf bytes.Buffer
	transport := NewLogTransport(logger.New(&buf, zapcore.InfoLevel, "json"))

	err := transport.Send(context.Background(), notification.Message{To: "a@example.com", Subject: "Hello"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "a@example.com")
	assert.Contains(t, buf.String(), "Hello")
}

func TestNewSelectsTransport(t *testing.T) {
	transport, err := New("", SMTPConfig{}, logger.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &LogTransport{}, transport)

	_, err = New("smtp", SMTPConfig{}, logger.NewNop())
	assert.Error(t, err)

	transport, err = New("SMTP", SMTPConfig{Host: "smtp.example.com", Port: 587, From: "noreply@example.com"}, logger.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &SMTPTransport{}, transport)

	_, err = New("pigeon", SMTPConfig{}, logger.NewNop())
	assert.Error(t, err)
}

func TestNewMessageHeaders(t *testing.T) {
	m := newMessage("noreply@example.com", notification.Message{To: "a@example.com", Subject: "Join us", Text: "hi", HTML: "<p>hi</p>"})
	assert.Equal(t, []string{"noreply@example.com"}, m.GetHeader("From"))
	assert.Equal(t, []string{"a@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Join us"}, m.GetHeader("Subject"))
}
