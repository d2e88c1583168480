package services

import (
	"log"

	"github.com/matcornic/hermes/v2"
	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendVerificationEmail(email, name, verificationURL string) error
	SendPasswordResetEmail(email, name, resetURL string) error
}

type emailService struct {
	dialer  *gomail.Dialer
	from    string
	builder hermes.Hermes
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail, productName, productLink string) EmailService {
	return &emailService{
		dialer: gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword),
		from:   fromEmail,
		builder: hermes.Hermes{
			Product: hermes.Product{
				Name: productName,
				Link: productLink,
			},
		},
	}
}

func (s *emailService) SendVerificationEmail(email, name, verificationURL string) error {
	body := hermes.Body{
		Name:   name,
		Intros: []string{"Welcome to CodeDrill! We're very excited to have you on board."},
		Actions: []hermes.Action{{
			Instructions: "To get started with CodeDrill, please click here:",
			Button: hermes.Button{
				Color: "#22BC66",
				Text:  "Verify your email",
				Link:  verificationURL,
			},
		}},
		Outros: []string{"Need help, or have questions? Just reply to this email, we'd love to help."},
	}
	return s.send(email, "Email Verification Mail", body)
}

func (s *emailService) SendPasswordResetEmail(email, name, resetURL string) error {
	body := hermes.Body{
		Name:   name,
		Intros: []string{"Forgot your password? No worries we are here for you."},
		Actions: []hermes.Action{{
			Instructions: "To reset your password for CodeDrill, please click here:",
			Button: hermes.Button{
				Color: "#22BC66",
				Text:  "Reset Password",
				Link:  resetURL,
			},
		}},
		Outros: []string{"Need help, or have questions? Just reply to this email, we'd love to help."},
	}
	return s.send(email, "Reset password mail", body)
}

// send renders both HTML and plaintext alternatives and delivers over SMTP.
func (s *emailService) send(to, subject string, body hermes.Body) error {
	mail := hermes.Email{Body: body}

	html, err := s.builder.GenerateHTML(mail)
	if err != nil {
		return ErrMailDelivery("Error Sending the mail")
	}
	text, err := s.builder.GeneratePlainText(mail)
	if err != nil {
		return ErrMailDelivery("Error Sending the mail")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", text)
	m.AddAlternative("text/html", html)

	if err := s.dialer.DialAndSend(m); err != nil {
		log.Printf("[mail][send] delivery to %s failed: %v", to, err)
		return ErrMailDelivery("Error Sending the mail")
	}
	return nil
}
