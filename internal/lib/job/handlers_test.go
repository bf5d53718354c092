package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/deppfellow/defect-service/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

type fakeMailer struct {
	to   []string
	data []email.DefectUpdatedData
	err  error
}

func (f *fakeMailer) SendDefectUpdatedEmail(to string, data email.DefectUpdatedData) error {
	if f.err != nil {
		return f.err
	}
	f.to = append(f.to, to)
	f.data = append(f.data, data)
	return nil
}

func newTestJobService(m Mailer) *JobService {
	logger := zerolog.Nop()
	return &JobService{mailer: m, logger: &logger}
}

func TestNewDefectUpdatedTask(t *testing.T) {
	task, err := NewDefectUpdatedTask(DefectUpdatedPayload{DefectID: 9, RecipientEmail: "a@example.com"})
	if err != nil {
		t.Fatalf("NewDefectUpdatedTask: %v", err)
	}
	if task.Type() != TaskDefectUpdated {
		t.Errorf("type = %q", task.Type())
	}

	var p DefectUpdatedPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if p.DefectID != 9 {
		t.Errorf("defect id = %d, want 9", p.DefectID)
	}
}

func TestHandleDefectUpdatedTask_SendsEmail(t *testing.T) {
	mailer := &fakeMailer{}
	j := newTestJobService(mailer)

	task, _ := NewDefectUpdatedTask(DefectUpdatedPayload{
		DefectID:       9,
		DefectName:     "Crash on save",
		DefectStatus:   "Fixed",
		Comment:        "fixed in 1.2",
		RecipientEmail: "owner@example.com",
	})

	if err := j.handleDefectUpdatedTask(context.Background(), task); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(mailer.to) != 1 || mailer.to[0] != "owner@example.com" {
		t.Fatalf("recipients = %v", mailer.to)
	}
	if mailer.data[0].Comment != "fixed in 1.2" || mailer.data[0].DefectStatus != "Fixed" {
		t.Errorf("data = %+v", mailer.data[0])
	}
}

func TestHandleDefectUpdatedTask_NoRecipient(t *testing.T) {
	mailer := &fakeMailer{}
	j := newTestJobService(mailer)

	task, _ := NewDefectUpdatedTask(DefectUpdatedPayload{DefectID: 9})
	if err := j.handleDefectUpdatedTask(context.Background(), task); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(mailer.to) != 0 {
		t.Fatal("no email expected without a recipient")
	}
}

func TestHandleDefectUpdatedTask_Errors(t *testing.T) {
	j := newTestJobService(&fakeMailer{err: errors.New("smtp down")})

	task, _ := NewDefectUpdatedTask(DefectUpdatedPayload{DefectID: 9, RecipientEmail: "owner@example.com"})
	if err := j.handleDefectUpdatedTask(context.Background(), task); err == nil {
		t.Fatal("mailer failure must be returned for retry")
	}

	bad := asynq.NewTask(TaskDefectUpdated, []byte("{not json"))
	err := j.handleDefectUpdatedTask(context.Background(), bad)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("err = %v, want SkipRetry", err)
	}
}
