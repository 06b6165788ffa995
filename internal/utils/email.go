package utils

import (
	"bytes"
	"fmt"
	"log"
	"os"

	"farmbasket_back_end/internal/models"

	"github.com/wneessen/go-mail"
)

// SendConfirmationEmail sends the weekly-request summary, optionally with the
// printable PDF attached.
func SendConfirmationEmail(to, subject, htmlBody string, pdfAttachment []byte) error {
	msg := mail.NewMsg()

	if err := msg.From(os.Getenv("SMTP_FROM")); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if pdfAttachment != nil {
		msg.AttachReader("farmbasket_request.pdf", bytes.NewReader(pdfAttachment))
	}

	client, err := mail.NewClient(os.Getenv("SMTP_HOST"),
		mail.WithPort(587),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Sending confirmation email to", to)
	return client.DialAndSend(msg)
}

// GenerateRequestConfirmationHTML builds the summary table for a submitted
// weekly request.
func GenerateRequestConfirmationHTML(req models.Request) string {
	itemsHTML := ""
	for _, item := range req.Items {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td>%s</td>
				<td>%d %s</td>
				<td>%s</td>
				<td>₹%.2f</td>
			</tr>`, item.Name, item.Quantity, item.Unit, item.DeliveryDay, item.Price*float64(item.Quantity))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: sans-serif;">
	<h2>🌾 Your FarmBasket weekly request is in!</h2>
	<p>Request <b>%s</b>, delivery day <b>%s</b>.</p>
	<table border="1" cellpadding="6" cellspacing="0">
		<tr><th>Produce</th><th>Quantity</th><th>Day</th><th>Amount</th></tr>
		%s
	</table>
	<p><b>Total: ₹%.2f</b> (pay on delivery)</p>
	<p>The farmers are on it. You will hear from us once it is approved.</p>
</body>
</html>`, req.ID, req.DeliveryDay, itemsHTML, req.TotalAmount)
}
