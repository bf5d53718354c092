package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/deppfellow/defect-service/internal/lib/job"
	"github.com/deppfellow/defect-service/internal/model"
	"github.com/deppfellow/defect-service/internal/model/defect"
	"github.com/hibiken/asynq"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "t1", Type: task.Type()}, nil
}

type fakeOwnerLookup map[int64]*model.User

func (f fakeOwnerLookup) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return f[id], nil
}

func TestJobNotifier_EnqueuesForOwner(t *testing.T) {
	queue := &fakeEnqueuer{}
	owners := fakeOwnerLookup{42: {Base: model.Base{ID: 42}, Email: "ft@example.com", UserName: "Forty Two"}}
	n := NewJobNotifier(queue, owners)

	before := &defect.DefectInfo{Base: model.Base{ID: 5}, UserID: 42, DefectName: "Crash", DefectStatus: defect.StatusOpen, ProjectName: "Alpha"}
	req := &defect.UpdateDefectRequest{ID: 5, DefectStatus: strPtr(defect.StatusFixed), DefectComment: strPtr("done")}

	if err := n.DefectUpdated(context.Background(), before, req); err != nil {
		t.Fatalf("DefectUpdated: %v", err)
	}
	if len(queue.tasks) != 1 || queue.tasks[0].Type() != job.TaskDefectUpdated {
		t.Fatalf("tasks = %+v", queue.tasks)
	}

	var p job.DefectUpdatedPayload
	if err := json.Unmarshal(queue.tasks[0].Payload(), &p); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if p.RecipientEmail != "ft@example.com" || p.DefectStatus != defect.StatusFixed || p.Comment != "done" || p.DefectName != "Crash" {
		t.Errorf("payload = %+v", p)
	}
}

func TestJobNotifier_SkipsOwnerWithoutEmail(t *testing.T) {
	queue := &fakeEnqueuer{}
	n := NewJobNotifier(queue, fakeOwnerLookup{42: {Base: model.Base{ID: 42}}})

	err := n.DefectUpdated(context.Background(), &defect.DefectInfo{UserID: 42}, &defect.UpdateDefectRequest{ID: 1})
	if err != nil || len(queue.tasks) != 0 {
		t.Fatalf("err = %v, tasks = %d", err, len(queue.tasks))
	}
}

func TestJobNotifier_EnqueueError(t *testing.T) {
	queue := &fakeEnqueuer{err: errors.New("redis down")}
	n := NewJobNotifier(queue, fakeOwnerLookup{42: {Email: "ft@example.com"}})

	err := n.DefectUpdated(context.Background(), &defect.DefectInfo{UserID: 42}, &defect.UpdateDefectRequest{ID: 1})
	if err == nil {
		t.Fatal("expected enqueue error")
	}
}
