package mail

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/patrocinios/internal/usecase"
)

//go:embed templates/*.html
var templatesFS embed.FS

var dossierTemplate = template.Must(template.ParseFS(templatesFS, "templates/dossier.html"))

// dialer é satisfeito por *gomail.Dialer.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		dialer:   gomail.NewDialer(host, port, user, password),
	}
}

// SendDossier manda a ficha do patrocinador, com o histórico de conversas,
// para o endereço informado pelo usuário.
func (s *EmailSender) SendDossier(to string, sponsor usecase.SponsorOutput) error {
	to = strings.TrimSpace(to)
	if to == "" || !strings.Contains(to, "@") {
		return errors.New("endereço de destino inválido")
	}

	body, err := renderDossier(sponsor, time.Now().UTC())
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Dossier de patrocinador: %s", sponsor.Name))
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}
	return nil
}

func renderDossier(sponsor usecase.SponsorOutput, now time.Time) (string, error) {
	data := DossierEmailData{
		Sponsor:     sponsor,
		GeneratedAt: now.Format("2006-01-02 15:04 UTC"),
	}

	var body bytes.Buffer
	if err := dossierTemplate.Execute(&body, data); err != nil {
		return "", fmt.Errorf("erro ao processar template: %w", err)
	}
	return body.String(), nil
}
