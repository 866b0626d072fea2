// Package mail provides the SMTP client used for transactional email.
package mail

import (
	"crypto/tls"
	"fmt"
	"net/mail"
	"net/url"

	"github.com/dajohi/goemail"
)

// Mailer sends transactional email. Send failures must propagate to the
// caller; a user can exist while the client is told the email never left.
type Mailer interface {
	// IsEnabled determines whether the smtp server is configured.
	IsEnabled() bool

	// Send sends an HTML email to a single recipient.
	Send(to, subject, body string) error
}

// client is an SMTP client that sends from a preset address.
//
// client implements the Mailer interface.
type client struct {
	smtp        *goemail.SMTP
	mailName    string // From name
	mailAddress string // From email address
	disabled    bool
}

// IsEnabled returns whether the mail server is enabled.
func (c *client) IsEnabled() bool {
	return !c.disabled
}

// Send sends an HTML email to the recipient address.
func (c *client) Send(to, subject, body string) error {
	if c.disabled {
		return nil
	}

	msg := goemail.NewHTMLMessage(c.mailAddress, subject, body)
	msg.SetName(c.mailName)
	msg.AddTo(to)

	return c.smtp.Send(msg)
}

// New returns a Mailer backed by the given SMTP server. Email is considered
// disabled if any of the required credentials are missing.
func New(host, user, password, emailAddress string, skipVerify bool) (Mailer, error) {
	if host == "" || user == "" || password == "" {
		return &client{disabled: true}, nil
	}

	u, err := url.Parse(fmt.Sprintf("smtps://%v:%v@%v", user, password, host))
	if err != nil {
		return nil, err
	}

	a, err := mail.ParseAddress(emailAddress)
	if err != nil {
		return nil, err
	}

	tlsConfig := &tls.Config{}
	if skipVerify {
		tlsConfig.InsecureSkipVerify = true
	}

	smtp, err := goemail.NewSMTP(u.String(), tlsConfig)
	if err != nil {
		return nil, err
	}

	return &client{
		smtp:        smtp,
		mailName:    a.Name,
		mailAddress: a.Address,
	}, nil
}
