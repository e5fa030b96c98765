package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/charityflow-backend/internal/domain"
)

type published struct {
	key string
	msg amqp.Publishing
}

type fakeChannel struct {
	declared   []string
	published  []published
	declareErr error
	publishErr error
	closed     bool
}

func (f *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	if f.declareErr != nil {
		return amqp.Queue{}, f.declareErr
	}
	f.declared = append(f.declared, name)
	return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, published{key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

var testQueues = Queues{Closed: "charityflow.closed", Report: "charityflow.report"}

func newTestPublisher(ch *fakeChannel) *Publisher {
	logger, _ := test.NewNullLogger()
	return NewPublisher(ch, testQueues, logger)
}

func TestPublishClosed_OneMessagePerEvent(t *testing.T) {
	ch := &fakeChannel{}
	p := newTestPublisher(ch)
	matchID := uuid.New()
	closeDate := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	events := []domain.ClosedEvent{
		{MatchID: matchID, Kind: domain.KindProject, EntityID: 1, FullAmount: 100, CloseDate: closeDate},
		{MatchID: matchID, Kind: domain.KindDonation, EntityID: 7, FullAmount: 100, CloseDate: closeDate},
	}

	require.NoError(t, p.PublishClosed(context.Background(), events))

	assert.Equal(t, []string{"charityflow.closed"}, ch.declared, "queue is declared once")
	require.Len(t, ch.published, 2)
	for _, pub := range ch.published {
		assert.Equal(t, "charityflow.closed", pub.key)
		assert.Equal(t, "application/json", pub.msg.ContentType)
		assert.Equal(t, amqp.Persistent, pub.msg.DeliveryMode)
	}

	var decoded domain.ClosedEvent
	require.NoError(t, json.Unmarshal(ch.published[1].msg.Body, &decoded))
	assert.Equal(t, int64(7), decoded.EntityID)
	assert.Equal(t, domain.KindDonation, decoded.Kind)
	assert.Equal(t, matchID, decoded.MatchID)
}

func TestPublishClosed_Empty(t *testing.T) {
	ch := &fakeChannel{}
	require.NoError(t, newTestPublisher(ch).PublishClosed(context.Background(), nil))
	assert.Empty(t, ch.declared)
	assert.Empty(t, ch.published)
}

func TestPublishReport(t *testing.T) {
	ch := &fakeChannel{}
	p := newTestPublisher(ch)
	report := &domain.ClosedProjectsReport{
		Title:   "Report from 2026/03/01 12:00:00",
		Columns: domain.ReportColumns,
		Rows:    []domain.ReportRow{{ProjectID: 1, Name: "Shelter", Duration: "1 day, 0:00:00"}},
	}

	require.NoError(t, p.PublishReport(context.Background(), report))

	require.Len(t, ch.published, 1)
	assert.Equal(t, "charityflow.report", ch.published[0].key)
	assert.Contains(t, string(ch.published[0].msg.Body), `"title":"Report from 2026/03/01 12:00:00"`)
}

func TestPublishReport_Nil(t *testing.T) {
	err := newTestPublisher(&fakeChannel{}).PublishReport(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPublish_DeclareFailure(t *testing.T) {
	ch := &fakeChannel{declareErr: errors.New("ACCESS_REFUSED")}
	err := newTestPublisher(ch).PublishClosed(context.Background(), []domain.ClosedEvent{{EntityID: 1}})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to declare queue")
	assert.Empty(t, ch.published)
}

func TestPublish_PublishFailure(t *testing.T) {
	ch := &fakeChannel{publishErr: amqp.ErrClosed}
	err := newTestPublisher(ch).PublishClosed(context.Background(), []domain.ClosedEvent{{Kind: domain.KindProject, EntityID: 3}})

	assert.ErrorIs(t, err, amqp.ErrClosed)
	assert.Contains(t, err.Error(), "PROJECT 3")
}

func TestClose(t *testing.T) {
	ch := &fakeChannel{}
	require.NoError(t, newTestPublisher(ch).Close())
	assert.True(t, ch.closed)
}
