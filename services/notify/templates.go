package notify

import (
	"fmt"
	"html"
	"strings"
	"time"
)

func (m *Mailer) layout(title, body string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1F3A5F; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; }
			.content { padding: 40px 30px; color: #1F3A5F; line-height: 1.6; }
			.info-box { background: #EEF3FA; padding: 15px; border-radius: 4px; border-left: 4px solid #4C8BD6; margin: 20px 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>%s</h1></div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">&copy; %d %s</div>
		</div>
	</body>
	</html>
	`, html.EscapeString(strings.ToUpper(m.appName)), title, body, time.Now().Year(), html.EscapeString(m.appName))
}

// PurchaseApproved tells the learner their transfer was confirmed.
func (m *Mailer) PurchaseApproved(email, name, courseTitle string) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your payment for <strong>%s</strong> has been confirmed.</p>
		<div class="info-box">All lessons are now unlocked in your dashboard.</div>
	`, html.EscapeString(name), html.EscapeString(courseTitle))

	m.deliver(Message{To: email, Name: name, Subject: "Access granted: " + courseTitle, HTML: m.layout("Payment Confirmed", body)})
}

// CertificateIssued congratulates the learner on passing the exam.
func (m *Mailer) CertificateIssued(email, name, courseTitle, number string, percentage int) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations on passing the certificate exam for <strong>%s</strong> with %d%%.</p>
		<div class="info-box">Certificate number: <strong>%s</strong></div>
		<p>You can download your certificate from your dashboard at any time.</p>
	`, html.EscapeString(name), html.EscapeString(courseTitle), percentage, html.EscapeString(number))

	m.deliver(Message{To: email, Name: name, Subject: "Your certificate for " + courseTitle, HTML: m.layout("Certificate Issued", body)})
}

// PendingDigest summarises purchases waiting for manual confirmation.
func (m *Mailer) PendingDigest(count, amount int64) {
	if m.adminEmail == "" || count == 0 {
		return
	}
	body := fmt.Sprintf(`
		<p>There are <strong>%d</strong> bank transfers awaiting confirmation.</p>
		<div class="info-box">Pending total: <strong>%d</strong></div>
	`, count, amount)

	m.deliver(Message{To: m.adminEmail, Subject: fmt.Sprintf("%d pending payments", count), HTML: m.layout("Pending Payments", body)})
}
