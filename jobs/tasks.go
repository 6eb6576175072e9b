package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeApprovalNotice is the task type for decision notification emails.
	TaskTypeApprovalNotice = "approval:notify"
	// TaskTypePendingReminder is the task type for the unsent-notice sweep.
	TaskTypePendingReminder = "approval:remind-pending"
)

// ApprovalNoticePayload describes a stage decision to notify the record owner about.
type ApprovalNoticePayload struct {
	RecordID int64  `json:"record_id"`
	Stage    string `json:"stage"`
	Decision string `json:"decision"`
	ActorID  int64  `json:"actor_id"`
}

// NewApprovalNoticeTask constructs an Asynq task for a stage decision.
func NewApprovalNoticeTask(payload ApprovalNoticePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeApprovalNotice, data), nil
}

// PendingReminderPayload bounds the sweep to records idle for at least MinAgeHours.
type PendingReminderPayload struct {
	MinAgeHours int `json:"min_age_hours"`
}

// NewPendingReminderTask constructs the periodic sweep task.
func NewPendingReminderTask(minAgeHours int) (*asynq.Task, error) {
	data, err := json.Marshal(PendingReminderPayload{MinAgeHours: minAgeHours})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypePendingReminder, data), nil
}
