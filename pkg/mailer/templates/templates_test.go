package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-blog-platform/config"
)

func TestRender_ResetPassword(t *testing.T) {
	cfg := &config.Config{AppName: "Inkwell", LoginURL: "http://blog.test/login"}
	data := NewResetPasswordData(cfg, "John Doe", "johndoe", "1johndoe@example.com", "Ab+/cd12EF34")

	subject, text, html, err := Render(ResetPassword, data)
	require.NoError(t, err)

	assert.Equal(t, "Get a new password", subject)
	assert.Contains(t, text, "Ab+/cd12EF34")
	assert.Contains(t, text, "http://blog.test/login")
	assert.Contains(t, html, "Ab&#43;/cd12EF34")
	assert.Contains(t, html, "John Doe")
}

func TestResetPasswordData_NotSerialized(t *testing.T) {
	d := NewResetPasswordData(&config.Config{}, "n", "u", "e@example.com", "secret-value")
	m := ToMap(d)
	for _, v := range m {
		assert.NotEqual(t, "secret-value", v)
	}
}

func TestRender_LoginNotificationFromMap(t *testing.T) {
	cfg := &config.Config{AppName: "Inkwell"}
	data := NewLoginNotificationData(cfg, "", "johndoe", "1johndoe@example.com",
		WithIP("10.0.0.1"), WithUserAgent("curl/8"), WithTime(time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)))

	subject, text, _, err := Render(LoginNotification, data)
	require.NoError(t, err)
	assert.Equal(t, "New login to your account", subject)
	assert.Contains(t, text, "Hello johndoe")
	assert.Contains(t, text, "10.0.0.1")
	assert.Contains(t, text, "05 March 2024, 10:00")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, _, _, err := Render("nope", nil)
	assert.Error(t, err)
}
