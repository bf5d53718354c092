package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deppfellow/defect-service/internal/lib/email"
	"github.com/hibiken/asynq"
)

func (j *JobService) handleDefectUpdatedTask(ctx context.Context, t *asynq.Task) error {
	var p DefectUpdatedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// Malformed payloads never succeed, so skip retries.
		return fmt.Errorf("failed to unmarshal defect updated payload: %v: %w", err, asynq.SkipRetry)
	}

	logger := j.logger.With().
		Str("type", TaskDefectUpdated).
		Int64("defect_id", p.DefectID).
		Str("to", p.RecipientEmail).
		Logger()

	if p.RecipientEmail == "" {
		logger.Warn().Msg("defect owner has no email address, skipping notification")
		return nil
	}

	if j.mailer == nil {
		return fmt.Errorf("job handlers not initialized")
	}

	logger.Info().Msg("processing defect updated task")

	err := j.mailer.SendDefectUpdatedEmail(p.RecipientEmail, email.DefectUpdatedData{
		RecipientName: p.RecipientName,
		DefectID:      p.DefectID,
		DefectName:    p.DefectName,
		ProjectName:   p.ProjectName,
		DefectStatus:  p.DefectStatus,
		DefectLevel:   p.DefectLevel,
		Comment:       p.Comment,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to send defect updated email")
		return err
	}

	logger.Info().Msg("sent defect updated email")
	return nil
}
