package email

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendInviteEmailWithoutSMTPLogsOnly(t *testing.T) {
	var buf bytes.Buffer
	svc := NewEmailService(SMTPConfig{BaseURL: "http://localhost:3000/"}, zerolog.New(&buf))

	require.NoError(t, svc.SendInviteEmail("bob@example.com", "bob", "ada", "Rocket"))
	assert.Contains(t, buf.String(), "invite email not sent")
	assert.Contains(t, buf.String(), "http://localhost:3000/invites")
}

func TestSendApplicationEmailWithoutSMTPLogsOnly(t *testing.T) {
	var buf bytes.Buffer
	svc := NewEmailService(SMTPConfig{}, zerolog.New(&buf))

	require.NoError(t, svc.SendApplicationEmail("ada@example.com", "ada", "bob", "Rocket"))
	assert.Contains(t, buf.String(), "application email not sent")
}
