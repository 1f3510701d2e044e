package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDelivery(t *testing.T) (*DeliveryService, *fakeRepo, *fakeClient) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	repo := newFakeRepo()
	client := &fakeClient{}
	return NewDeliveryService(repo, client, logrus.NewEntry(logger)), repo, client
}

func TestDeliveryServiceSendsAndDeletesDueTask(t *testing.T) {
	svc, repo, client := newTestDelivery(t)
	id := repo.add(123, "ReminderText", time.Date(2022, time.January, 1, 20, 0, 0, 0, time.UTC))

	report, err := svc.DeliverDue(context.Background(), time.Date(2022, time.January, 1, 20, 0, 7, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, DeliveryReport{
		Clock:   time.Date(2022, time.January, 1, 20, 0, 0, 0, time.UTC),
		Matched: 1,
		Sent:    1,
		Deleted: 1,
	}, report)
	assert.Equal(t, []sentMessage{{ChatID: 123, Text: "ReminderText"}}, client.messages())
	assert.False(t, repo.has(id))

	report, err = svc.DeliverDue(context.Background(), time.Date(2022, time.January, 1, 20, 1, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, report.Matched)
	assert.Len(t, client.messages(), 1)
}

func TestDeliveryServiceExactlyOncePerMatchedTask(t *testing.T) {
	svc, repo, client := newTestDelivery(t)
	clock := time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC)
	for chatID := int64(1); chatID <= 5; chatID++ {
		repo.add(chatID, "task", clock)
	}

	report, err := svc.DeliverDue(context.Background(), clock.Add(59*time.Second))
	require.NoError(t, err)

	assert.Equal(t, 5, report.Matched)
	assert.Equal(t, 5, report.Sent)
	assert.Equal(t, 5, report.Deleted)
	assert.Len(t, client.messages(), 5)
	assert.ElementsMatch(t, []int64{1, 2, 3, 4, 5}, repo.deleted)
	assert.Zero(t, repo.count())
}

func TestDeliveryServiceLeavesOtherMinutesAlone(t *testing.T) {
	svc, repo, client := newTestDelivery(t)
	due := time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC)
	dueID := repo.add(1, "due", due)
	staleID := repo.add(2, "missed", due.Add(-time.Minute))
	futureID := repo.add(3, "later", due.Add(time.Minute))

	report, err := svc.DeliverDue(context.Background(), due.Add(3*time.Second))
	require.NoError(t, err)

	assert.Equal(t, 1, report.Matched)
	assert.Equal(t, []sentMessage{{ChatID: 1, Text: "due"}}, client.messages())
	assert.False(t, repo.has(dueID))
	assert.True(t, repo.has(staleID))
	assert.True(t, repo.has(futureID))
	assert.Equal(t, []int64{dueID}, repo.deleted)
}

func TestDeliveryServiceDeletesEvenWhenSendFails(t *testing.T) {
	svc, repo, client := newTestDelivery(t)
	clock := time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC)
	id := repo.add(1, "lost", clock)
	client.err = errors.New("chat not found")

	report, err := svc.DeliverDue(context.Background(), clock)
	require.NoError(t, err)

	assert.Equal(t, 1, report.SendFailed)
	assert.Zero(t, report.Sent)
	assert.Equal(t, 1, report.Deleted)
	assert.False(t, repo.has(id))
}

func TestDeliveryServiceContinuesAfterDeleteFailure(t *testing.T) {
	svc, repo, client := newTestDelivery(t)
	clock := time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC)
	repo.add(1, "a", clock)
	repo.add(2, "b", clock)
	repo.deleteErr = errStoreDown

	report, err := svc.DeliverDue(context.Background(), clock)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Sent)
	assert.Equal(t, 2, report.DeleteFailed)
	assert.Zero(t, report.Deleted)
	assert.Len(t, client.messages(), 2)
}

func TestDeliveryServiceFindFailure(t *testing.T) {
	svc, repo, client := newTestDelivery(t)
	repo.findErr = errStoreDown

	_, err := svc.DeliverDue(context.Background(), time.Now())

	require.ErrorIs(t, err, errStoreDown)
	assert.Empty(t, client.messages())
}
