// Package email delivers the reservation pass. Sending is fire-and-forget:
// the lifecycle transition that triggered the email has already been
// committed, so delivery failures are logged and never propagated.
package email

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"time"

	"venue-booking/internal/domain/booking"
	"venue-booking/internal/domain/space"
	"venue-booking/internal/pkg/config"
	"venue-booking/internal/pkg/qr"

	"gopkg.in/gomail.v2"
)

// RecipientDirectory resolves a user id to a delivery address.
type RecipientDirectory interface {
	UserEmail(ctx context.Context, userID string) (string, error)
}

var passTemplate = template.Must(template.New("pass").Parse(`
<div style="font-family:sans-serif;max-width:600px;margin:0 auto;">
  <h2 style="margin:0 0 12px;">Votre pass de réservation</h2>
  <p>Votre réservation pour <strong>{{.SpaceName}}</strong> le <strong>{{.Date}}</strong> ({{.TimeLabel}}) a été confirmée.</p>
  <p>Présentez ce QR code à l'accueil le jour de votre réservation :</p>
  <div style="text-align:center;margin:16px 0;">
    <img src="{{.QRDataURL}}" alt="QR Pass" style="width:220px;height:220px;" />
  </div>
  <p><a href="{{.ReservationsURL}}" style="color:#4f46e5;">Voir mes réservations</a></p>
  <p style="font-size:12px;color:#64748b;">ID: {{.ReservationID}}</p>
</div>`))

type passData struct {
	SpaceName       string
	Date            string
	TimeLabel       string
	QRDataURL       template.URL
	ReservationsURL template.URL
	ReservationID   string
}

type PassSender struct {
	cfg       config.SMTPConfig
	directory RecipientDirectory
	logger    *slog.Logger
}

func NewPassSender(cfg config.SMTPConfig, directory RecipientDirectory, logger *slog.Logger) *PassSender {
	return &PassSender{cfg: cfg, directory: directory, logger: logger}
}

// SendPass dispatches asynchronously and returns immediately.
func (s *PassSender) SendPass(r booking.Reservation, sp space.Space) {
	go s.send(r, sp)
}

func (s *PassSender) send(r booking.Reservation, sp space.Space) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	to, err := s.directory.UserEmail(ctx, r.UserID)
	if err != nil {
		s.logger.Warn("pass email dropped, no recipient", "reservation_id", r.ID, "error", err)
		return
	}

	dataURL, err := qr.PNGDataURL(qr.EncodeReservationPayload(r.ID), 220)
	if err != nil {
		s.logger.Warn("pass email dropped, qr render failed", "reservation_id", r.ID, "error", err)
		return
	}

	timeLabel := r.CustomTimeLabel
	if timeLabel == "" {
		timeLabel = string(r.Slot)
	}
	if timeLabel == "" {
		timeLabel = "Créneau"
	}

	var body bytes.Buffer
	if err := passTemplate.Execute(&body, passData{
		SpaceName:       sp.Name,
		Date:            r.Date,
		TimeLabel:       timeLabel,
		QRDataURL:       template.URL(dataURL),
		ReservationsURL: template.URL(s.cfg.AppBaseURL + "/reservations"),
		ReservationID:   r.ID,
	}); err != nil {
		s.logger.Warn("pass email dropped, template failed", "reservation_id", r.ID, "error", err)
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Votre pass de réservation")
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		s.logger.Warn("pass email send failed", "reservation_id", r.ID, "to", to, "error", err)
		return
	}
	s.logger.Info("pass email sent", "reservation_id", r.ID, "to", to)
}
