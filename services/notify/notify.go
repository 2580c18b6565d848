// Package notify sends transactional email. Sends are fire-and-forget; failures
// are logged and never reach the request that triggered them.
package notify

import (
	"coursehub/config"
	"coursehub/logger"
	"fmt"
	"net/http"
	"sync"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

var (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// Message is a single rendered email.
type Message struct {
	To      string
	Name    string
	Subject string
	HTML    string
}

// Sender delivers a message synchronously.
type Sender interface {
	Send(msg Message) error
}

type sendgridSender struct {
	key        string
	from       *sgmail.Email
	subjPrefix string
}

func (s sendgridSender) Send(msg Message) error {
	p := sgmail.NewPersonalization()
	p.Subject = s.subjPrefix + msg.Subject
	p.AddTos(sgmail.NewEmail(msg.Name, msg.To))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/html", msg.HTML))

	req := sendgrid.GetRequest(s.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := sendgrid.API(req)
	if err != nil {
		return err
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

type consoleSender struct{}

func (consoleSender) Send(msg Message) error {
	logger.Info("EMAIL", "to=%s subject=%q\n%s", msg.To, msg.Subject, msg.HTML)
	return nil
}

// Recorder keeps messages in memory. Tests use it in place of a real sender.
type Recorder struct {
	mu       sync.Mutex
	Messages []Message
}

func (r *Recorder) Send(msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, msg)
	return nil
}

// Sent returns a copy of the recorded messages.
func (r *Recorder) Sent() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.Messages...)
}

// Mailer renders the application's emails and hands them to a Sender.
type Mailer struct {
	sender     Sender
	appName    string
	adminEmail string
	async      bool
}

// New picks SendGrid when an API key is configured and the console otherwise.
func New(conf *config.Config) *Mailer {
	var sender Sender = consoleSender{}
	if conf.SendgridAPIKey != "" {
		sender = sendgridSender{
			key:        conf.SendgridAPIKey,
			from:       sgmail.NewEmail(conf.AppName, conf.EmailSender),
			subjPrefix: "[" + conf.AppName + "] ",
		}
	}
	return &Mailer{sender: sender, appName: conf.AppName, adminEmail: conf.AdminEmail, async: true}
}

// NewSync delivers on the calling goroutine.
func NewSync(sender Sender, appName, adminEmail string) *Mailer {
	return &Mailer{sender: sender, appName: appName, adminEmail: adminEmail}
}

func (m *Mailer) deliver(msg Message) {
	send := func() {
		if err := m.sender.Send(msg); err != nil {
			logger.Error("EMAIL", err, "sending %q to %s", msg.Subject, msg.To)
		}
	}
	if m.async {
		go send()
		return
	}
	send()
}
