package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"
)

// SMTPConfig holds the mail relay settings.
type SMTPConfig struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM"`
}

// SMTPSink sends invitations through an SMTP relay.
type SMTPSink struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSink(cfg SMTPConfig) (*SMTPSink, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("notify: smtp host is required")
	}
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	if from == "" {
		return nil, fmt.Errorf("notify: smtp from address is required")
	}

	return &SMTPSink{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   from,
	}, nil
}

func (s *SMTPSink) SendInvite(ctx context.Context, inv Invite) error {
	msg, err := buildInviteMessage(s.from, inv)
	if err != nil {
		return err
	}

	// gomail has no context support; run the send and abandon it on timeout.
	errc := make(chan error, 1)
	go func() { errc <- s.dialer.DialAndSend(msg) }()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("notify: smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// expiry renders an invite deadline in UTC.
func expiry(t time.Time) string {
	return t.UTC().Format("Mon 2 Jan 2006 15:04 MST")
}

var inviteBody = template.Must(template.New("invite").Funcs(template.FuncMap{"expiry": expiry}).Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto; padding: 20px;">
	<h2>You're invited to {{.ProjectName}}</h2>
	<p>{{.Inviter}} invited you to collaborate on <strong>{{.ProjectName}}</strong>.</p>
	<p><a href="{{.JoinLink}}">Join the project</a></p>
	<p>The link works once and expires on {{expiry .ExpiresAt}}. Sign in with this email address to accept.</p>
</div>`))

func buildInviteMessage(from string, inv Invite) (*gomail.Message, error) {
	var body bytes.Buffer
	if err := inviteBody.Execute(&body, inv); err != nil {
		return nil, fmt.Errorf("notify: render invite: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", inv.Recipient)
	m.SetHeader("Subject", fmt.Sprintf("%s invited you to %s", inv.Inviter, inv.ProjectName))
	m.SetBody("text/plain", fmt.Sprintf("%s invited you to %s.\n\nJoin: %s\nThe link works once and expires on %s.\n",
		inv.Inviter, inv.ProjectName, inv.JoinLink, expiry(inv.ExpiresAt)))
	m.AddAlternative("text/html", body.String())
	return m, nil
}
