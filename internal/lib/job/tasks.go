package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// TaskDefectUpdated notifies a defect's owner that the defect changed.
const TaskDefectUpdated = "defect:updated"

// DefectUpdatedPayload is the JSON body of a TaskDefectUpdated task.
type DefectUpdatedPayload struct {
	DefectID       int64  `json:"defect_id"`
	DefectName     string `json:"defect_name"`
	ProjectName    string `json:"project_name"`
	DefectStatus   string `json:"defect_status"`
	DefectLevel    string `json:"defect_level"`
	Comment        string `json:"comment,omitempty"`
	RecipientEmail string `json:"recipient_email"`
	RecipientName  string `json:"recipient_name"`
}

// NewDefectUpdatedTask builds the task. Tasks are retried three times and
// killed after 30 seconds.
func NewDefectUpdatedTask(p DefectUpdatedPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskDefectUpdated,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue(QueueDefault),
		asynq.Timeout(30*time.Second),
	), nil
}
