package crm

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskLeadSync = "crm.lead.sync"

// LeadSyncPayload carries the lead identifier to the sync worker. The
// worker loads the canonical fields from storage so the CRM always
// receives the persisted state, not the state at enqueue time.
type LeadSyncPayload struct {
	LeadID   string `json:"leadId"`
	LeadType string `json:"leadType"`
	Source   string `json:"source"`
}

func NewLeadSyncTask(payload LeadSyncPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadSync, data), nil
}

func ParseLeadSyncPayload(task *asynq.Task) (LeadSyncPayload, error) {
	var payload LeadSyncPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return LeadSyncPayload{}, err
	}
	return payload, nil
}
