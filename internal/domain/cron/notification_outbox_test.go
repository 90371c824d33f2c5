package cron

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/phenobarbital/nav-rewards/internal/entity"
	"github.com/phenobarbital/nav-rewards/internal/repository"
	"github.com/phenobarbital/nav-rewards/pkg/pubsub"
	"github.com/phenobarbital/nav-rewards/pkg/testutil"
	"github.com/phenobarbital/nav-rewards/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	topics []string
	packs  []*pubsub.Pack
	err    error
}

func (p *capturePublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	if p.err != nil {
		return p.err
	}

	p.topics = append(p.topics, topic)
	p.packs = append(p.packs, pack)
	return nil
}

func (p *capturePublisher) Stop(ctx context.Context) error {
	return nil
}

func insertEvent(t *testing.T, ctx context.Context, id string) {
	t.Helper()

	err := repository.NewNotificationEventRepository().Create(ctx, &entity.NotificationEvent{
		Base:           entity.Base{ID: id},
		Kind:           entity.NotificationKindGeneric,
		RecipientID:    testutil.User1.ID,
		RecipientEmail: testutil.User1.Email,
		Payload:        entity.Map{"reward_name": "Daily Standup Star", "points": 5},
	})
	require.NoError(t, err)
}

func Test_NotificationOutboxCronJob(t *testing.T) {
	ctx := testutil.MockContext()
	repo := repository.NewNotificationEventRepository()
	publisher := &capturePublisher{}

	insertEvent(t, ctx, "event1")
	insertEvent(t, ctx, "event2")

	job := NewNotificationOutboxCronJob(time.Minute, 100, "", publisher, repo)
	job.Do(ctx)

	require.Len(t, publisher.packs, 2)
	require.Equal(t, defaultNotificationTopic, publisher.topics[0])
	require.Equal(t, []byte(testutil.User1.ID), publisher.packs[0].Key)

	var body map[string]any
	require.NoError(t, json.Unmarshal(publisher.packs[0].Msg, &body))
	require.Equal(t, "event1", body["id"])
	require.Equal(t, "generic", body["kind"])

	// Dispatched events leave the pending queue.
	pending, err := repo.GetPending(ctx, 100)
	require.NoError(t, err)
	require.Empty(t, pending)
}

func Test_NotificationOutboxCronJob_brokerFailure(t *testing.T) {
	ctx := testutil.MockContext()
	repo := repository.NewNotificationEventRepository()
	publisher := &capturePublisher{err: errors.New("broker unreachable")}

	insertEvent(t, ctx, "event1")

	job := NewNotificationOutboxCronJob(time.Minute, 100, "alerts", publisher, repo)
	job.Do(ctx)

	// The event is marked failed, not lost.
	pending, err := repo.GetPending(ctx, 100)
	require.NoError(t, err)
	require.Empty(t, pending)

	event := entity.NotificationEvent{}
	require.NoError(t, xcontext.DB(ctx).Take(&event, "id=?", "event1").Error)
	require.Equal(t, entity.NotificationEventFailed, event.Status)
	require.Contains(t, event.LastError, "broker unreachable")
}
