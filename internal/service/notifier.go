package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/defect-service/internal/lib/job"
	"github.com/deppfellow/defect-service/internal/model"
	"github.com/deppfellow/defect-service/internal/model/defect"
	"github.com/hibiken/asynq"
)

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// OwnerLookup finds the owner of a defect.
type OwnerLookup interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// JobNotifier turns defect updates into defect:updated email tasks for the
// defect's owner.
type JobNotifier struct {
	queue TaskEnqueuer
	users OwnerLookup
}

func NewJobNotifier(queue TaskEnqueuer, users OwnerLookup) *JobNotifier {
	return &JobNotifier{queue: queue, users: users}
}

// DefectUpdated enqueues a notification describing before with req applied.
func (n *JobNotifier) DefectUpdated(ctx context.Context, before *defect.DefectInfo, req *defect.UpdateDefectRequest) error {
	owner, err := n.users.GetByID(ctx, before.UserID)
	if err != nil {
		return fmt.Errorf("failed to load defect owner: %w", err)
	}
	if owner == nil || owner.Email == "" {
		return nil
	}

	task, err := job.NewDefectUpdatedTask(updatedPayload(before, req, owner))
	if err != nil {
		return fmt.Errorf("failed to build notification task: %w", err)
	}

	if _, err := n.queue.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue notification task: %w", err)
	}
	return nil
}

func updatedPayload(before *defect.DefectInfo, req *defect.UpdateDefectRequest, owner *model.User) job.DefectUpdatedPayload {
	p := job.DefectUpdatedPayload{
		DefectID:       before.ID,
		DefectName:     before.DefectName,
		ProjectName:    before.ProjectName,
		DefectStatus:   before.DefectStatus,
		DefectLevel:    before.DefectLevel,
		RecipientEmail: owner.Email,
		RecipientName:  owner.UserName,
	}
	if req.DefectName != nil {
		p.DefectName = *req.DefectName
	}
	if req.DefectStatus != nil {
		p.DefectStatus = *req.DefectStatus
	}
	if req.DefectLevel != nil {
		p.DefectLevel = *req.DefectLevel
	}
	if req.DefectComment != nil {
		p.Comment = *req.DefectComment
	}
	return p
}
