package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oksasatya/go-blog-platform/pkg/mailer"
	mailtpl "github.com/oksasatya/go-blog-platform/pkg/mailer/templates"
)

// JobOutcome tells the queue consumer what to do with a delivery.
type JobOutcome int

const (
	JobAck     JobOutcome = iota
	JobDrop               // malformed or unrenderable, never retried
	JobRequeue            // transient send failure
)

func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}

// RenderJob resolves the subject and bodies of a job, rendering its template when set.
func RenderJob(job *mailer.EmailJob) (subject, text, html string, err error) {
	if job.Template == "" {
		return job.Subject, job.Text, job.HTML, nil
	}
	EnsureRecipientAndEmail(job)
	return mailtpl.Render(job.Template, job.Data)
}

// ProcessEmailJob decodes, renders and sends one queued email.
func ProcessEmailJob(ctx context.Context, m mailer.Mailer, body []byte, timeout time.Duration) (JobOutcome, error) {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return JobDrop, fmt.Errorf("decode job: %w", err)
	}
	if job.To == "" {
		return JobDrop, fmt.Errorf("job has no recipient")
	}
	subject, text, html, err := RenderJob(&job)
	if err != nil {
		return JobDrop, fmt.Errorf("render %s: %w", job.Template, err)
	}

	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := m.Send(c, job.To, subject, text, html); err != nil {
		return JobRequeue, err
	}
	return JobAck, nil
}
