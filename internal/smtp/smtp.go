package smtp

import (
	"fmt"

	"github.com/niposch/wake-on-lan-web/internal/config"
	md "github.com/niposch/wake-on-lan-web/internal/models"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type EmailServer struct {
	enabled bool
	server  string
	port    int
	user    string
	pass    string
	admin   string
}

func New(conf config.EmailConfig) *EmailServer {
	return &EmailServer{
		enabled: conf.Enabled,
		server:  conf.Server,
		port:    conf.Port,
		user:    conf.User,
		pass:    conf.Pass,
		admin:   conf.Admin,
	}
}

// NotifyDeviceOffline mails the admin when a device transitions to
// offline. Best effort: a send failure is logged, never propagated into
// the probe cycle.
func (s *EmailServer) NotifyDeviceOffline(d *md.Device) {
	if !s.enabled || s.admin == "" {
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.user)
	m.SetHeader("To", s.admin)
	m.SetHeader("Subject", fmt.Sprintf("Device %q went offline", d.Name))
	m.SetBody(
		"text/plain",
		fmt.Sprintf(
			"Device %s (%s) stopped responding to probes.",
			d.Name,
			d.MAC,
		),
	)

	d2 := gomail.NewDialer(s.server, s.port, s.user, s.pass)
	if err := d2.DialAndSend(m); err != nil {
		zap.L().Error(
			"Failed to send an email",
			zap.String("device", d.Name),
			zap.Error(err),
		)
	}
}
