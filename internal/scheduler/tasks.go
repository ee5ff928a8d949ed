package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskLeadRescore = "leads.rescore"

const TaskLeadRescoreAll = "leads.rescore_all"

type LeadRescorePayload struct {
	LeadID         string `json:"leadId"`
	OrganizationID string `json:"organizationId"`
}

type LeadRescoreAllPayload struct {
	OrganizationID string `json:"organizationId"`
}

func NewLeadRescoreTask(payload LeadRescorePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadRescore, data), nil
}

func ParseLeadRescorePayload(task *asynq.Task) (LeadRescorePayload, error) {
	var payload LeadRescorePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return LeadRescorePayload{}, err
	}
	return payload, nil
}

func NewLeadRescoreAllTask(payload LeadRescoreAllPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadRescoreAll, data), nil
}

func ParseLeadRescoreAllPayload(task *asynq.Task) (LeadRescoreAllPayload, error) {
	var payload LeadRescoreAllPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return LeadRescoreAllPayload{}, err
	}
	return payload, nil
}
