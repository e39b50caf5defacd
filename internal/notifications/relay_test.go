package notifications

import (
	"context"
	"strings"
	"testing"
	"time"

	"airtecs/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notificationRepoStub struct {
	created []*models.Notification
	err     error
}

func (s *notificationRepoStub) Create(_ context.Context, n *models.Notification) error {
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, n)
	return nil
}
func (s *notificationRepoStub) ListByUser(context.Context, uint) ([]models.Notification, error) {
	return nil, nil
}
func (s *notificationRepoStub) MarkRead(context.Context, uint, []uint) (int64, error) {
	return 0, nil
}
func (s *notificationRepoStub) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func TestUserChannel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "notifications:user:1", UserChannel(1))
	assert.Equal(t, "notifications:user:100", UserChannel(100))
}

func TestRelayNotifyStoresAndPublishes(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	sub := rdb.Subscribe(context.Background(), UserChannel(3))
	defer func() { _ = sub.Close() }()
	_, err = sub.Receive(context.Background())
	require.NoError(t, err)

	repo := &notificationRepoStub{}
	relay := NewRelay(repo, rdb)
	relay.NotifyAssigned(context.Background(), 3, "A1B2C3")

	require.Len(t, repo.created, 1)
	assert.Equal(t, uint(3), repo.created[0].UserID)
	assert.Contains(t, repo.created[0].Message, "A1B2C3")
	assert.WithinDuration(t, time.Now().Add(models.NotificationTTL), repo.created[0].ExpiresAt, time.Minute)

	select {
	case msg := <-sub.Channel():
		assert.Contains(t, msg.Payload, "A1B2C3")
	case <-time.After(2 * time.Second):
		t.Fatal("expected a published notification")
	}
}

func TestRelaySwallowsStoreErrors(t *testing.T) {
	repo := &notificationRepoStub{err: context.DeadlineExceeded}
	relay := NewRelay(repo, nil)

	// Must not panic or propagate: delivery is best-effort.
	relay.NotifyPaid(context.Background(), 3)
	relay.NotifyExpired(context.Background(), 3)
}

func TestRelayStageMessages(t *testing.T) {
	repo := &notificationRepoStub{}
	relay := NewRelay(repo, nil)

	relay.NotifyStage(context.Background(), 3, models.StageEnRoute, "20 minutes away")
	require.Len(t, repo.created, 1)
	msg := repo.created[0].Message
	assert.True(t, strings.HasSuffix(msg, "20 minutes away"))
	assert.Contains(t, msg, "on the way")
}
