package mailer

import "gopkg.in/gomail.v2"

// Mailer sends the listing-published notice to the broker over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func New(host string, port int, from, password string) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, from, password),
		from:   from,
	}
}

func (m *Mailer) SendListingPublished(toEmail, address string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "Your listing is live")
	msg.SetBody("text/plain", "Your listing at '"+address+"' has been published and is now visible to visitors.")
	return m.dialer.DialAndSend(msg)
}
