package scheduler

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
)

type stubSchedulerConfig struct {
	redisURL string
	queue    string
}

func (c stubSchedulerConfig) GetRedisURL() string       { return c.redisURL }
func (c stubSchedulerConfig) GetRedisTLSInsecure() bool { return false }
func (c stubSchedulerConfig) GetAsynqQueueName() string { return c.queue }
func (c stubSchedulerConfig) GetAsynqConcurrency() int  { return 1 }

func TestClientRequiresRedisURL(t *testing.T) {
	_, err := NewClient(stubSchedulerConfig{})
	if err == nil {
		t.Fatal("expected error when redis url is empty")
	}
}

func TestScheduleLeadRescoreEnqueues(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewClient(stubSchedulerConfig{redisURL: "redis://" + srv.Addr(), queue: "scoring"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	payload := LeadRescorePayload{
		LeadID:         uuid.NewString(),
		OrganizationID: uuid.NewString(),
	}
	if err := client.ScheduleLeadRescore(context.Background(), payload); err != nil {
		t.Fatalf("ScheduleLeadRescore: %v", err)
	}

	queued := false
	for _, key := range srv.Keys() {
		if strings.Contains(key, "asynq:{scoring}") {
			queued = true
			break
		}
	}
	if !queued {
		t.Errorf("no task found in queue, keys: %v", srv.Keys())
	}
}

func TestScheduleLeadRescoreCoalescesDuplicates(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewClient(stubSchedulerConfig{redisURL: "redis://" + srv.Addr(), queue: "scoring"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	payload := LeadRescorePayload{
		LeadID:         uuid.NewString(),
		OrganizationID: uuid.NewString(),
	}
	if err := client.ScheduleLeadRescore(context.Background(), payload); err != nil {
		t.Fatalf("first enqueue: %v", err)
	}
	// A second identical task inside the uniqueness window is dropped silently.
	if err := client.ScheduleLeadRescore(context.Background(), payload); err != nil {
		t.Fatalf("duplicate enqueue should be coalesced, got: %v", err)
	}
}

func TestNilClientIsNoop(t *testing.T) {
	var client *Client
	if err := client.ScheduleLeadRescore(context.Background(), LeadRescorePayload{}); err != nil {
		t.Errorf("nil client enqueue: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Errorf("nil client close: %v", err)
	}
}
