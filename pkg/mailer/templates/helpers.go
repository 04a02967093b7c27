package templates

import (
	"time"

	"github.com/oksasatya/go-blog-platform/config"
)

// Option pattern
type Option func(*EmailData)

func WithIP(ip string) Option        { return func(d *EmailData) { d.IP = ip } }
func WithUserAgent(ua string) Option { return func(d *EmailData) { d.UserAgent = ua } }
func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

// NewBaseEmailData fills the shared fields from config, then applies opts.
func NewBaseEmailData(cfg *config.Config, typ string, name, username, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Username:       username,
		Email:          email,
		RecipientEmail: email,
		Type:           typ,

		CompanyName:    cfg.CompanyName,
		CompanyAddress: cfg.CompanyAddress,
		AppName:        cfg.AppName,

		LogoURL:    cfg.LogoURL,
		SupportURL: cfg.SupportURL,
		LoginURL:   cfg.LoginURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewResetPasswordData(cfg *config.Config, name, username, email, newPassword string, opts ...Option) EmailData {
	d := NewBaseEmailData(cfg, ResetPassword, name, username, email, opts...)
	d.NewPassword = newPassword
	return d
}

func NewLoginNotificationData(cfg *config.Config, name, username, email string, opts ...Option) map[string]any {
	d := NewBaseEmailData(cfg, LoginNotification, name, username, email, opts...)
	return ToMap(d)
}
