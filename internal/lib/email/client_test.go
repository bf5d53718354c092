package email

import (
	"errors"
	"strings"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

type fakeSender struct {
	sent []*resend.SendEmailRequest
	err  error
}

func (f *fakeSender) Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, params)
	return &resend.SendEmailResponse{Id: "msg_1"}, nil
}

func newTestClient(s sender) *Client {
	logger := zerolog.Nop()
	return &Client{emails: s, from: DefaultFrom, logger: &logger}
}

func TestRenderPreviews(t *testing.T) {
	for name, data := range PreviewData {
		body, err := Render(name, data)
		if err != nil {
			t.Fatalf("Render(%s): %v", name, err)
		}
		if !strings.Contains(body, "Login button unresponsive on Safari") {
			t.Errorf("Render(%s) missing defect name:\n%s", name, body)
		}
	}
}

func TestSendDefectUpdatedEmail(t *testing.T) {
	fake := &fakeSender{}
	c := newTestClient(fake)

	data := PreviewData[TemplateDefectUpdated].(DefectUpdatedData)
	if err := c.SendDefectUpdatedEmail("ada@example.com", data); err != nil {
		t.Fatalf("send: %v", err)
	}

	if len(fake.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(fake.sent))
	}
	msg := fake.sent[0]
	if msg.To[0] != "ada@example.com" || msg.From != DefaultFrom {
		t.Errorf("unexpected envelope: %+v", msg)
	}
	if !strings.Contains(msg.Subject, "#42") {
		t.Errorf("subject = %q", msg.Subject)
	}
	if !strings.Contains(msg.Html, "Verified on build 2.3.1") {
		t.Error("comment missing from body")
	}
}

func TestSendEmail_ProviderError(t *testing.T) {
	c := newTestClient(&fakeSender{err: errors.New("rate limited")})

	err := c.SendDefectUpdatedEmail("ada@example.com", DefectUpdatedData{DefectID: 1})
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("err = %v, want provider error", err)
	}
}

func TestSendEmail_DisabledDropsMessage(t *testing.T) {
	c := newTestClient(nil)
	if c.Enabled() {
		t.Fatal("client without sender must be disabled")
	}
	if err := c.SendDefectUpdatedEmail("ada@example.com", DefectUpdatedData{DefectID: 1}); err != nil {
		t.Fatalf("disabled send returned %v", err)
	}
}
