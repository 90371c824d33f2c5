package cron

import (
	"context"
	"encoding/json"
	"time"

	"github.com/phenobarbital/nav-rewards/internal/entity"
	"github.com/phenobarbital/nav-rewards/internal/repository"
	"github.com/phenobarbital/nav-rewards/pkg/pubsub"
	"github.com/phenobarbital/nav-rewards/pkg/xcontext"
)

const defaultNotificationTopic = "reward-notifications"

// NotificationOutboxCronJob drains pending notification events to the
// message broker. Events are written in the same transaction as the award
// they announce, so a broker outage delays notifications without losing
// them.
type NotificationOutboxCronJob struct {
	interval  time.Duration
	batchSize int
	topic     string

	publisher        pubsub.Publisher
	notificationRepo repository.NotificationEventRepository
}

func NewNotificationOutboxCronJob(
	interval time.Duration,
	batchSize int,
	topic string,
	publisher pubsub.Publisher,
	notificationRepo repository.NotificationEventRepository,
) *NotificationOutboxCronJob {
	if topic == "" {
		topic = defaultNotificationTopic
	}

	return &NotificationOutboxCronJob{
		interval:         interval,
		batchSize:        batchSize,
		topic:            topic,
		publisher:        publisher,
		notificationRepo: notificationRepo,
	}
}

func (job *NotificationOutboxCronJob) Do(ctx context.Context) {
	events, err := job.notificationRepo.GetPending(ctx, job.batchSize)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get pending notifications: %v", err)
		return
	}

	for _, event := range events {
		if err := job.dispatch(ctx, event); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot dispatch notification %s: %v", event.ID, err)
			if err := job.notificationRepo.MarkFailed(ctx, event.ID, err.Error()); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot mark notification %s as failed: %v", event.ID, err)
			}
			continue
		}

		if err := job.notificationRepo.MarkSent(ctx, event.ID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot mark notification %s as sent: %v", event.ID, err)
		}
	}
}

func (job *NotificationOutboxCronJob) dispatch(
	ctx context.Context, event entity.NotificationEvent,
) error {
	body := map[string]any{
		"id":              event.ID,
		"kind":            string(event.Kind),
		"recipient_id":    event.RecipientID,
		"recipient_email": event.RecipientEmail,
		"payload":         event.Payload,
	}

	msg, err := json.Marshal(body)
	if err != nil {
		return err
	}

	return job.publisher.Publish(ctx, job.topic, &pubsub.Pack{
		Key: []byte(event.RecipientID),
		Msg: msg,
	})
}

func (job *NotificationOutboxCronJob) Name() string {
	return "notification-outbox"
}

func (job *NotificationOutboxCronJob) RunNow() bool {
	return true
}

func (job *NotificationOutboxCronJob) Next() time.Time {
	return time.Now().Add(job.interval)
}
