package mail

import "github.com/xavierca1/patrocinios/internal/usecase"

type DossierEmailData struct {
	Sponsor     usecase.SponsorOutput
	GeneratedAt string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string

	dialer dialer
}
