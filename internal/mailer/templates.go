package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

var (
	activationTmpl = template.Must(template.New("activation").Parse(
		`<p>Please use the following link to activate your account:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<hr />
<p>This email may contain sensitive information</p>
<p>{{.Site}}</p>`))

	resetTmpl = template.Must(template.New("reset").Parse(
		`<p>Please use the following link to reset your password:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<hr />
<p>This email may contain sensitive information</p>
<p>{{.Site}}</p>`))

	contactTmpl = template.Must(template.New("contact").Parse(
		`<h4>{{.Intro}}</h4>
<h4>Sender name: {{.Name}}</h4>
<h4>Sender email: {{.Email}}</h4>
<h4>Sender message: {{.Message}}</h4>
<hr />
<p>This email may contain sensitive information</p>
<p>{{.Site}}</p>`))
)

func render(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ActivationEmail builds the account activation message.
func ActivationEmail(from, to, site, link string) (Message, error) {
	html, err := render(activationTmpl, map[string]string{"Link": link, "Site": site})
	if err != nil {
		return Message{}, err
	}
	return Message{
		From:    from,
		To:      []string{to},
		Subject: "Account activation link",
		Text:    fmt.Sprintf("Please use the following link to activate your account:\n%s", link),
		HTML:    html,
	}, nil
}

func ResetPasswordEmail(from, to, site, link string) (Message, error) {
	html, err := render(resetTmpl, map[string]string{"Link": link, "Site": site})
	if err != nil {
		return Message{}, err
	}
	return Message{
		From:    from,
		To:      []string{to},
		Subject: "Password reset link",
		Text:    fmt.Sprintf("Please use the following link to reset your password:\n%s", link),
		HTML:    html,
	}, nil
}

type ContactDetails struct {
	Name    string
	Email   string
	Message string
}

// ContactEmail relays a contact form to the site owner, or to a blog
// author with the owner in copy when authorEmail is set.
func ContactEmail(from, owner, authorEmail, appName, site string, d ContactDetails) (Message, error) {
	intro := "Email received from contact form"
	subject := "Contact form - " + appName
	to := []string{owner}
	var cc []string
	if authorEmail != "" {
		intro = "Message received from:"
		subject = "Someone messaged you from " + appName
		to = []string{authorEmail}
		if owner != "" {
			cc = []string{owner}
		}
	}
	html, err := render(contactTmpl, map[string]string{
		"Intro": intro, "Name": d.Name, "Email": d.Email, "Message": d.Message, "Site": site,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{
		From:    from,
		To:      to,
		Cc:      cc,
		ReplyTo: d.Email,
		Subject: subject,
		Text: fmt.Sprintf("%s\nSender name: %s\nSender email: %s\nSender message: %s",
			intro, d.Name, d.Email, d.Message),
		HTML: html,
	}, nil
}
