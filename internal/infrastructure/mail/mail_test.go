package mail

import (
	"context"
	"errors"
	"testing"

	"storefront-api/internal/ports"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

func TestSelectSender_PrefersResend(t *testing.T) {
	m := SelectSender(Settings{
		ResendAPIKey: "re_123",
		SMTPHost:     "smtp.example.com", SMTPPort: 587, SMTPUser: "u", SMTPPass: "p",
	}, zerolog.Nop())

	require.NotNil(t, m)
	assert.Equal(t, "resend", m.Name())
}

func TestSelectSender_FallsBackToSMTP(t *testing.T) {
	m := SelectSender(Settings{SMTPHost: "smtp.example.com", SMTPPort: 587, SMTPUser: "u", SMTPPass: "p"}, zerolog.Nop())

	require.NotNil(t, m)
	assert.Equal(t, "smtp", m.Name())
}

func TestSelectSender_IncompleteSMTPMeansNone(t *testing.T) {
	m := SelectSender(Settings{SMTPHost: "smtp.example.com", SMTPPort: 587, SMTPUser: "u"}, zerolog.Nop())
	assert.Nil(t, m)
}

func TestNewSMTPSender_GmailTuning(t *testing.T) {
	s := NewSMTPSender("Gmail", 25, "me@gmail.com", "app-pass", "")

	d, ok := s.dialer.(*gomail.Dialer)
	require.True(t, ok)
	assert.Equal(t, "smtp.gmail.com", d.Host)
	assert.Equal(t, 587, d.Port)
	assert.False(t, d.SSL)
	require.NotNil(t, d.TLSConfig)
	assert.Equal(t, "smtp.gmail.com", d.TLSConfig.ServerName)
	assert.Equal(t, "me@gmail.com", s.from)

	ssl := NewSMTPSender("smtp.gmail.com", 465, "me@gmail.com", "app-pass", "Shop <shop@x.com>")
	assert.True(t, ssl.dialer.(*gomail.Dialer).SSL)
}

type recordingDialer struct {
	msgs []*gomail.Message
	err  error
}

func (r *recordingDialer) DialAndSend(m ...*gomail.Message) error {
	r.msgs = append(r.msgs, m...)
	return r.err
}

func TestSMTPSender_Send(t *testing.T) {
	rec := &recordingDialer{}
	s := &SMTPSender{dialer: rec, from: "shop@x.com", host: "smtp.x.com"}

	err := s.Send(context.Background(), &ports.Email{To: []string{"a@b.c"}, Subject: "Hi", HTML: "<p>x</p>", ReplyTo: "r@b.c"})
	require.NoError(t, err)
	require.Len(t, rec.msgs, 1)
	assert.Equal(t, []string{"a@b.c"}, rec.msgs[0].GetHeader("To"))
	assert.Equal(t, []string{"r@b.c"}, rec.msgs[0].GetHeader("Reply-To"))

	rec.err = errors.New("535 auth failed")
	err = s.Send(context.Background(), &ports.Email{To: []string{"a@b.c"}})
	assert.ErrorContains(t, err, "535")
}
