// Package mail delivers assessment reports by email.
package mail

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"

	"inflecto-api/internal/config"
	"inflecto-api/internal/model"
)

const (
	reportSubject  = "Your AI Readiness Assessment Report"
	attachmentName = "ai-readiness-report.json"
)

// ReportEmail is a report addressed to one recipient
type ReportEmail struct {
	To           string
	CompanyName  string
	PersonaLabel string
	Report       *model.Report
}

// Mailer sends report emails
type Mailer interface {
	SendReport(ctx context.Context, msg ReportEmail) error
}

// New returns an SMTP mailer when credentials are configured and a
// log-only mailer otherwise
func New(cfg config.MailConfig, logger *slog.Logger) Mailer {
	if !cfg.Enabled() {
		return &LogMailer{logger: logger}
	}
	return &SMTPMailer{cfg: cfg, send: smtp.SendMail}
}

// LogMailer records what would have been sent
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a log-only mailer
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendReport(_ context.Context, msg ReportEmail) error {
	if msg.Report == nil {
		return fmt.Errorf("send report: no report")
	}
	m.logger.Info("report email not sent, smtp disabled",
		"to", msg.To,
		"company", msg.CompanyName,
		"stage", msg.Report.ScoreSection.Stage,
	)
	return nil
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer sends HTML email with the JSON report attached
type SMTPMailer struct {
	cfg  config.MailConfig
	send sendFunc
}

func (m *SMTPMailer) SendReport(ctx context.Context, msg ReportEmail) error {
	if msg.Report == nil {
		return fmt.Errorf("send report: no report")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := buildMessage(m.cfg, msg)
	if err != nil {
		return fmt.Errorf("build message: %w", err)
	}

	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	if err := m.send(addr, auth, m.cfg.User, []string{msg.To}, body); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

var reportTemplate = template.Must(template.New("report").Parse(`<div style="font-family: Arial, sans-serif; line-height:1.6">
  <h2>{{.Report.Title}}</h2>
  <p><strong>Company:</strong> {{.CompanyName}}</p>
  <p><strong>Persona:</strong> {{.PersonaLabel}}</p>
  <p><strong>Date:</strong> {{.Report.Date}}</p>
  <hr/>
  <h3>Score Summary</h3>
  <p><strong>Score:</strong> {{printf "%.1f" .Report.ScoreSection.Score}}</p>
  <p><strong>Stage:</strong> {{.Report.ScoreSection.Stage}}</p>
  <p>{{.Report.ScoreSection.Interpretation}}</p>
  <h3>Key Observations</h3>
  <ul>{{range .Report.KeyObservations}}<li>{{.}}</li>{{end}}</ul>
  <h3>Areas of Opportunity</h3>
  <ul>{{range .Report.AreasOfOpportunity}}<li>{{.}}</li>{{end}}</ul>
  <h3>Recommended Next Steps</h3>
  <ul>{{range .Report.RecommendedNextSteps}}<li>{{.}}</li>{{end}}</ul>
  <p><strong>{{.Report.ThankYou}}</strong></p>
  <p>{{.Report.CTA}}</p>
</div>
`))

// RenderHTML renders the email body
func RenderHTML(msg ReportEmail) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, msg); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func buildMessage(cfg config.MailConfig, msg ReportEmail) ([]byte, error) {
	html, err := RenderHTML(msg)
	if err != nil {
		return nil, err
	}
	attachment, err := json.MarshalIndent(msg.Report, "", "  ")
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %q <%s>\r\n", cfg.From, cfg.User)
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", reportSubject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", w.Boundary())

	part, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/html; charset=UTF-8"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := part.Write([]byte(html)); err != nil {
		return nil, err
	}

	part, err = w.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"application/json"},
		"Content-Transfer-Encoding": {"base64"},
		"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", attachmentName)},
	})
	if err != nil {
		return nil, err
	}
	if _, err := part.Write([]byte(wrap76(base64.StdEncoding.EncodeToString(attachment)))); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func wrap76(s string) string {
	var b strings.Builder
	for len(s) > 76 {
		b.WriteString(s[:76])
		b.WriteString("\r\n")
		s = s[76:]
	}
	b.WriteString(s)
	return b.String()
}
