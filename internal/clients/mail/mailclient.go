package mail

import (
	"fmt"
	"net"
	"net/smtp"

	"github.com/pkg/errors"

	"max.ks1230/spendwise/internal/model/customerr"
)

type config interface {
	Host() string
	Port() string
	Username() string
	Password() string
	From() string
	Configured() bool
}

// Client sends activation codes over plain SMTP. Mail is best-effort:
// callers treat any failure as a cue to surface the code directly.
type Client struct {
	addr string
	auth smtp.Auth
	from string

	configured bool
}

func New(config config) *Client {
	c := &Client{
		addr:       net.JoinHostPort(config.Host(), config.Port()),
		from:       config.From(),
		configured: config.Configured(),
	}
	if config.Username() != "" {
		c.auth = smtp.PlainAuth("", config.Username(), config.Password(), config.Host())
	}
	return c
}

func (c *Client) SendActivationCode(to, code string) error {
	if !c.configured {
		return customerr.ErrMailNotConfigured
	}

	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Your Spendwise activation code\r\n\r\n"+
			"Welcome to Spendwise!\r\n\r\nYour activation code is: %s\r\n\r\n"+
			"The code expires in 48 hours.\r\n",
		c.from, to, code)

	err := smtp.SendMail(c.addr, c.auth, c.from, []string{to}, []byte(msg))
	return errors.Wrap(err, "send activation mail")
}
