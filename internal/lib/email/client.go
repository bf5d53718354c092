// Package email sends notification emails through Resend. Bodies are
// rendered from HTML templates embedded in the binary.
package email

import (
	"fmt"

	"github.com/deppfellow/defect-service/internal/config"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// DefaultFrom is used when DEFECT_INTEGRATION__EMAIL_FROM is empty.
const DefaultFrom = "Defect Tracker <onboarding@resend.dev>"

type sender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Client sends templated emails. A Client built without a Resend API key
// logs and drops every message.
type Client struct {
	emails sender
	from   string
	logger *zerolog.Logger
}

func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	c := &Client{
		from:   cfg.Integration.EmailFrom,
		logger: logger,
	}
	if c.from == "" {
		c.from = DefaultFrom
	}
	if cfg.Integration.ResendAPIKey != "" {
		c.emails = resend.NewClient(cfg.Integration.ResendAPIKey).Emails
	}
	return c
}

// Enabled reports whether messages are actually delivered.
func (c *Client) Enabled() bool {
	return c.emails != nil
}

// SendEmail renders templateName with data and sends the result to to.
func (c *Client) SendEmail(to, subject string, templateName Template, data any) error {
	body, err := Render(templateName, data)
	if err != nil {
		return err
	}

	if !c.Enabled() {
		c.logger.Warn().
			Str("to", to).
			Str("template", string(templateName)).
			Msg("email delivery disabled, dropping message")
		return nil
	}

	_, err = c.emails.Send(&resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// DefectUpdatedData feeds the defect_updated template.
type DefectUpdatedData struct {
	RecipientName string
	DefectID      int64
	DefectName    string
	ProjectName   string
	DefectStatus  string
	DefectLevel   string
	Comment       string
}

// SendDefectUpdatedEmail tells a defect's owner that it changed.
func (c *Client) SendDefectUpdatedEmail(to string, data DefectUpdatedData) error {
	return c.SendEmail(
		to,
		fmt.Sprintf("Defect #%d updated: %s", data.DefectID, data.DefectName),
		TemplateDefectUpdated,
		data,
	)
}
