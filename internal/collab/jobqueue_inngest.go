package collab

import (
	"context"
	"fmt"

	"github.com/inngest/inngestgo"
)

// InngestJobQueue wraps an inngestgo client to expose the EnqueueAudit
// job-service call, which sends one "audit.run.requested" event per audit.
// It does not implement the JobQueue interface, and no function handling
// that event is registered in this module.
type InngestJobQueue struct {
	client inngestgo.Client
}

// NewInngestJobQueue builds an InngestJobQueue from client options matching
// that inngestgo.ClientOpts construction.
func NewInngestJobQueue(appID, eventKey, env string) (*InngestJobQueue, error) {
	client, err := inngestgo.NewClient(inngestgo.ClientOpts{
		AppID:    appID,
		EventKey: inngestgo.StrPtr(eventKey),
		Env:      inngestgo.StrPtr(env),
	})
	if err != nil {
		return nil, fmt.Errorf("collab: failed to create inngest client: %w", err)
	}
	return &InngestJobQueue{client: client}, nil
}

// EnqueueAudit sends the "audit.run.requested" event for (runID, siteID) at
// the given priority and returns the id of the sent event.
func (q *InngestJobQueue) EnqueueAudit(ctx context.Context, runID, siteID string, priority int) (string, error) {
	id, err := q.client.Send(ctx, inngestgo.Event{
		Name: "audit.run.requested",
		Data: map[string]interface{}{
			"run_id":   runID,
			"site_id":  siteID,
			"priority": priority,
		},
	})
	if err != nil {
		return "", fmt.Errorf("collab: failed to send audit.run.requested event: %w", err)
	}
	return id, nil
}
