package contact

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/smtp"
	"net/url"
	"strings"
	"time"

	"github.com/pratyushrajshrestha/portfolio/internal/store"
)

// SMTPForwarder e-mails each message to the site owner.
type SMTPForwarder struct {
	Host string
	Port string
	User string
	Pass string
	To   string

	// send is smtp.SendMail; tests replace it.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPForwarder(host, port, user, pass, to string) *SMTPForwarder {
	return &SMTPForwarder{Host: host, Port: port, User: user, Pass: pass, To: to, send: smtp.SendMail}
}

// Configured reports whether credentials are present.
func (f *SMTPForwarder) Configured() bool {
	return f.User != "" && f.Pass != "" && f.To != ""
}

func (f *SMTPForwarder) Forward(_ context.Context, m store.Message) error {
	if !f.Configured() {
		return fmt.Errorf("smtp: %w", ErrNotConfigured)
	}
	auth := smtp.PlainAuth("", f.User, f.Pass, f.Host)
	addr := net.JoinHostPort(f.Host, f.Port)
	if err := f.send(addr, auth, f.User, []string{f.To}, composeMail(f.User, f.To, m)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// composeMail builds the RFC 822 message. Header values are stripped of
// line breaks so a submitter cannot inject headers.
func composeMail(from, to string, m store.Message) []byte {
	clean := strings.NewReplacer("\r", " ", "\n", " ")
	subject := fmt.Sprintf("Portfolio Contact: %s", clean.Replace(m.Subject))
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Subject: %s
Message:
%s

---
Sent from your portfolio contact form
`, clean.Replace(m.Name), clean.Replace(m.Email), clean.Replace(m.Subject), m.Body)

	return []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + from + "\r\n" +
		"Reply-To: " + clean.Replace(m.Email) + "\r\n" +
		"\r\n" +
		body + "\r\n")
}

// EndpointForwarder posts messages to a hosted form endpoint (formspree and
// the like). Any 2xx response counts as delivered.
type EndpointForwarder struct {
	URL    string
	Client *http.Client
}

func NewEndpointForwarder(endpoint string) *EndpointForwarder {
	return &EndpointForwarder{URL: endpoint, Client: &http.Client{Timeout: 10 * time.Second}}
}

func (f *EndpointForwarder) Forward(ctx context.Context, m store.Message) error {
	if f.URL == "" {
		return fmt.Errorf("endpoint: %w", ErrNotConfigured)
	}
	form := url.Values{
		"name":    {m.Name},
		"email":   {m.Email},
		"subject": {m.Subject},
		"message": {m.Body},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("endpoint request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("endpoint post: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("endpoint post: unexpected status %s", resp.Status)
	}
	return nil
}

// Select picks the forwarder for the given settings: SMTP when credentials
// exist, else the form endpoint, else Discard.
func Select(smtpFwd *SMTPForwarder, endpoint string) Forwarder {
	switch {
	case smtpFwd != nil && smtpFwd.Configured():
		return smtpFwd
	case endpoint != "":
		return NewEndpointForwarder(endpoint)
	default:
		return Discard{}
	}
}
