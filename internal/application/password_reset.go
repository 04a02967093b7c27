package application

import (
	"crypto/rand"
	"encoding/base64"
	"io"

	"github.com/oksasatya/go-blog-platform/config"
	"github.com/oksasatya/go-blog-platform/internal/domain/entity"
	tpl "github.com/oksasatya/go-blog-platform/pkg/mailer/templates"
)

const DefaultResetPasswordLength = 12

// PasswordGenerator produces replacement credentials for the reset flow.
type PasswordGenerator struct {
	Length int
	// Rand defaults to crypto/rand.Reader.
	Rand io.Reader
}

// Generate reads Length random bytes, base64-encodes them and keeps the
// first Length characters.
func (g PasswordGenerator) Generate() (string, error) {
	length := g.Length
	if length == 0 {
		length = DefaultResetPasswordLength
	}
	if length < 0 {
		return "", ErrInvalidResetLength
	}
	src := g.Rand
	if src == nil {
		src = rand.Reader
	}
	b := make([]byte, length)
	if _, err := io.ReadFull(src, b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b)[:length], nil
}

// ComposeResetEmail renders the message announcing newPassword to u.
func ComposeResetEmail(cfg *config.Config, u *entity.User, newPassword string) (subject, text, html string, err error) {
	data := tpl.NewResetPasswordData(cfg, u.Name, u.Username, u.Email, newPassword)
	return tpl.Render(tpl.ResetPassword, data)
}
