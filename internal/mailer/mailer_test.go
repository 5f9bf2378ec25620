package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactEmail_SiteOwner(t *testing.T) {
	msg, err := ContactEmail("noreply@blog.test", "owner@blog.test", "", "SEOBLOG", "https://blog.test",
		ContactDetails{Name: "Ann", Email: "ann@x.test", Message: "<b>hello</b> there, long enough"})
	require.NoError(t, err)

	assert.Equal(t, []string{"owner@blog.test"}, msg.To)
	assert.Empty(t, msg.Cc)
	assert.Equal(t, "Contact form - SEOBLOG", msg.Subject)
	assert.Equal(t, "ann@x.test", msg.ReplyTo)
	assert.Contains(t, msg.HTML, "&lt;b&gt;hello&lt;/b&gt;")
	assert.NotContains(t, msg.HTML, "<b>hello</b>")
}

func TestContactEmail_BlogAuthor(t *testing.T) {
	msg, err := ContactEmail("noreply@blog.test", "owner@blog.test", "author@blog.test", "SEOBLOG", "https://blog.test",
		ContactDetails{Name: "Ann", Email: "ann@x.test", Message: "I liked your post a lot"})
	require.NoError(t, err)

	assert.Equal(t, []string{"author@blog.test"}, msg.To)
	assert.Equal(t, []string{"owner@blog.test"}, msg.Cc)
	assert.Equal(t, []string{"author@blog.test", "owner@blog.test"}, msg.Recipients())
	assert.Equal(t, "Someone messaged you from SEOBLOG", msg.Subject)
}

func TestActivationEmail(t *testing.T) {
	msg, err := ActivationEmail("noreply@blog.test", "new@x.test", "https://blog.test", "https://blog.test/auth/account/activate/abc")
	require.NoError(t, err)
	assert.Equal(t, "Account activation link", msg.Subject)
	assert.Contains(t, msg.Text, "/auth/account/activate/abc")
	assert.Contains(t, msg.HTML, `href="https://blog.test/auth/account/activate/abc"`)
}

func TestEncode(t *testing.T) {
	raw, err := Encode(Message{
		From:    "a@x.test",
		To:      []string{"b@x.test"},
		Cc:      []string{"c@x.test"},
		ReplyTo: "d@x.test",
		Subject: "Hi",
		Text:    "plain",
		HTML:    "<p>rich</p>",
	})
	require.NoError(t, err)

	body := string(raw)
	assert.Contains(t, body, "From: <a@x.test>")
	assert.Contains(t, body, "To: <b@x.test>")
	assert.Contains(t, body, "Cc: <c@x.test>")
	assert.Contains(t, body, "Reply-To: <d@x.test>")
	assert.Contains(t, body, "Subject: Hi")
	assert.Contains(t, body, "multipart/alternative")
	assert.Contains(t, body, "plain")
	assert.Contains(t, body, "<p>rich</p>")
}

func TestEncodeRejectsBadAddresses(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want string
	}{
		{name: "no recipients", msg: Message{From: "a@x.test"}, want: "no recipients"},
		{name: "empty recipient", msg: Message{From: "a@x.test", To: []string{""}}, want: "invalid recipient"},
		{name: "bad sender", msg: Message{From: "not an address", To: []string{"b@x.test"}}, want: "invalid sender"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(tt.msg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewSMTPMailer(t *testing.T) {
	_, err := NewSMTPMailer(SMTPConfig{Port: 587})
	assert.Error(t, err)

	m, err := NewSMTPMailer(SMTPConfig{Host: "smtp.x.test", Port: 587, Username: "u", Password: "p"})
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	_, ok := r.Last()
	assert.False(t, ok)

	require.NoError(t, r.Send(context.Background(), Message{Subject: "one"}))
	require.NoError(t, r.Send(context.Background(), Message{Subject: "two"}))

	last, ok := r.Last()
	assert.True(t, ok)
	assert.Equal(t, "two", last.Subject)
	assert.Len(t, r.Messages(), 2)

	r.Reset()
	assert.Empty(t, r.Messages())
}
