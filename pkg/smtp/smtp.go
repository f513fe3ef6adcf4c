package smtp

import (
	"fmt"
	smtpPkg "net/smtp"
	"os"
	"strings"
)

type ItfSmtp interface {
	SendSessionReport(userEmail string, userName string, title string, confidenceScore int, strengths []string, improvements []string) error
}

type smtp struct {
	auth smtpPkg.Auth
	mail string
}

func New() ItfSmtp {
	mail := os.Getenv("SMTP_MAIL")
	password := os.Getenv("SMTP_PASSWORD")
	auth := smtpPkg.PlainAuth("", mail, password, "smtp.gmail.com")

	return &smtp{auth: auth, mail: mail}
}

func (s *smtp) SendSessionReport(userEmail string, userName string, title string, confidenceScore int, strengths []string, improvements []string) error {
	to := []string{userEmail}

	var body strings.Builder
	fmt.Fprintf(&body, "To: %s\r\nSubject: Your practice session report\r\n\r\n", userEmail)
	fmt.Fprintf(&body, "Hello %s,\r\n\r\nHere is your report for \"%s\".\r\n\r\n", userName, title)
	fmt.Fprintf(&body, "Confidence score: %d/100\r\n\r\nStrengths:\r\n", confidenceScore)
	for _, line := range strengths {
		fmt.Fprintf(&body, "- %s\r\n", line)
	}
	body.WriteString("\r\nAreas to improve:\r\n")
	for _, line := range improvements {
		fmt.Fprintf(&body, "- %s\r\n", line)
	}

	err := smtpPkg.SendMail("smtp.gmail.com:587", s.auth, s.mail, to, []byte(body.String()))
	if err != nil {
		return err
	}

	return nil
}
