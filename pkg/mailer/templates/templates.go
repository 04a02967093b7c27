package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmpl "html/template"
	"io"
	"reflect"
	"strings"
	"sync"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// EmailData defines standard fields for email templates.
type EmailData struct {
	// Basic info
	Name           string `json:"Name"`
	Username       string `json:"Username"`
	Email          string `json:"Email"`
	RecipientEmail string `json:"RecipientEmail"`
	Type           string `json:"Type"`

	// Company info
	CompanyName    string `json:"CompanyName"`
	CompanyAddress string `json:"CompanyAddress"`
	AppName        string `json:"AppName"`

	// URLs
	LogoURL    string `json:"LogoURL"`
	SupportURL string `json:"SupportURL"`
	LoginURL   string `json:"LoginURL"`

	// Additional data
	IP        string    `json:"IP"`
	Time      string    `json:"Time"`
	TimeAt    time.Time `json:"TimeAt"`
	UserAgent string    `json:"UserAgent"`

	// NewPassword is only ever set for the reset email, which is sent
	// synchronously and never queued.
	NewPassword string `json:"-"`
}

// ToMap converts EmailData to a map[string]any for EmailJob.Data
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback any, value any) any {
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return fallback
	}
	if value == nil || reflect.ValueOf(value).IsZero() {
		return fallback
	}
	return value
}

func funcs() map[string]any {
	return map[string]any{
		"now":        func() time.Time { return time.Now().UTC() },
		"formatTime": func(t time.Time, layout string) string { return t.Format(layout) },
		"upper":      strings.ToUpper,
		"default":    defaultFn,
	}
}

// Template names
const (
	ResetPassword     = "reset_password"
	LoginNotification = "login_notification"
)

type templateSet struct {
	text *texttpl.Template
	html *htmpl.Template
}

var (
	setOnce sync.Once
	set     templateSet
	setErr  error
)

// parsed compiles every embedded template once.
func parsed() (templateSet, error) {
	setOnce.Do(func() {
		text, err := texttpl.New("").Funcs(funcs()).ParseFS(FS, "*.subject.tmpl", "*.text.tmpl")
		if err != nil {
			setErr = fmt.Errorf("parse text templates: %w", err)
			return
		}
		html, err := htmpl.New("").Funcs(funcs()).ParseFS(FS, "*.html.tmpl")
		if err != nil {
			setErr = fmt.Errorf("parse html templates: %w", err)
			return
		}
		set = templateSet{text: text, html: html}
	})
	return set, setErr
}

type executor interface {
	ExecuteTemplate(w io.Writer, name string, data any) error
}

func execute(t executor, filename string, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, filename, data); err != nil {
		return "", fmt.Errorf("exec %q: %w", filename, err)
	}
	return buf.String(), nil
}

// Render renders <name>.subject.tmpl, <name>.text.tmpl and <name>.html.tmpl.
func Render(name string, data any) (subject string, text string, html string, err error) {
	ts, err := parsed()
	if err != nil {
		return "", "", "", err
	}
	if subject, err = execute(ts.text, name+".subject.tmpl", data); err != nil {
		return "", "", "", err
	}
	if text, err = execute(ts.text, name+".text.tmpl", data); err != nil {
		return "", "", "", err
	}
	if html, err = execute(ts.html, name+".html.tmpl", data); err != nil {
		return "", "", "", err
	}
	return strings.TrimSpace(subject), text, html, nil
}
