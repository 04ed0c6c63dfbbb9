package email

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mailersend/mailersend-go"
)

// MailerSendProvider implements Provider using the MailerSend API
type MailerSendProvider struct {
	client *mailersend.Mailersend
	from   mailersend.From
}

func NewMailerSendProvider(apiKey, fromEmail, fromName string) *MailerSendProvider {
	return &MailerSendProvider{
		client: mailersend.NewMailersend(apiKey),
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}
}

func (p *MailerSendProvider) Send(ctx context.Context, msg Message) error {
	recipients := []mailersend.Recipient{
		{
			Name:  msg.RecipientName,
			Email: msg.To,
		},
	}

	message := p.client.Email.NewMessage()
	message.SetFrom(p.from)
	message.SetRecipients(recipients)
	message.SetSubject(msg.Subject)
	message.SetHTML(msg.HTML)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := p.client.Email.Send(ctx, message)
	if err != nil {
		log.Printf("[Mail] Error sending to %s: %v", msg.To, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("[Mail] Sent to %s. Message ID: %s", msg.To, res.Header.Get("X-Message-Id"))
	return nil
}
