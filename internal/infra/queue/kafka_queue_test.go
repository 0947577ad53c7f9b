package queue

import (
	"context"
	"errors"
	"testing"

	repo "storefront/internal/repository"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type WriterMock struct{ mock.Mock }

func (m *WriterMock) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *WriterMock) Close() error {
	return m.Called().Error(0)
}

type ReaderMock struct{ mock.Mock }

func (m *ReaderMock) FetchMessage(ctx context.Context) (kafka.Message, error) {
	args := m.Called(ctx)
	return args.Get(0).(kafka.Message), args.Error(1)
}

func (m *ReaderMock) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	return m.Called(ctx, msgs).Error(0)
}

func (m *ReaderMock) Close() error {
	return m.Called().Error(0)
}

func TestKafkaQueue_Send(t *testing.T) {
	w := new(WriterMock)
	q := NewKafkaQueueWithWriter(w, []string{"b:9092"}, "processingorders", nil)

	w.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafka.Message) bool {
		return len(msgs) == 1 && string(msgs[0].Value) == "cGF5bG9hZA=="
	})).Return(nil).Once()

	require.NoError(t, q.Send(context.Background(), "cGF5bG9hZA=="))
	w.AssertExpectations(t)
}

func TestKafkaQueue_Send_Failure(t *testing.T) {
	w := new(WriterMock)
	q := NewKafkaQueueWithWriter(w, []string{"b:9092"}, "processingorders", nil)

	w.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	err := q.Send(context.Background(), "x")
	assert.ErrorIs(t, err, repo.ErrUnavailable)
}

func TestKafkaQueue_EnsureExists(t *testing.T) {
	var gotTopic string
	create := func(ctx context.Context, brokers []string, topic string) error {
		gotTopic = topic
		return nil
	}
	q := NewKafkaQueueWithWriter(new(WriterMock), []string{"b:9092"}, "processingorders", create)

	require.NoError(t, q.EnsureExists(context.Background()))
	assert.Equal(t, "processingorders", gotTopic)

	failing := NewKafkaQueueWithWriter(new(WriterMock), nil, "t", func(context.Context, []string, string) error {
		return errors.New("dial failed")
	})
	assert.ErrorIs(t, failing.EnsureExists(context.Background()), repo.ErrUnavailable)
}

func TestConsumer_Run_CommitsEvenWhenHandlerFails(t *testing.T) {
	r := new(ReaderMock)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m1 := kafka.Message{Value: []byte("first"), Offset: 1}
	m2 := kafka.Message{Value: []byte("second"), Offset: 2}
	r.On("FetchMessage", mock.Anything).Return(m1, nil).Once()
	r.On("FetchMessage", mock.Anything).Return(m2, nil).Once()
	r.On("FetchMessage", mock.Anything).Return(kafka.Message{}, context.Canceled).Run(func(mock.Arguments) { cancel() }).Once()
	r.On("CommitMessages", mock.Anything, mock.Anything).Return(nil).Twice()

	var seen []string
	c := NewConsumer(r, zerolog.Nop())
	err := c.Run(ctx, func(_ context.Context, payload string) error {
		seen = append(seen, payload)
		if payload == "first" {
			return errors.New("bad payload")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, seen)
	r.AssertExpectations(t)
}

func TestConsumer_Run_FetchError(t *testing.T) {
	r := new(ReaderMock)
	r.On("FetchMessage", mock.Anything).Return(kafka.Message{}, errors.New("io")).Once()

	c := NewConsumer(r, zerolog.Nop())
	err := c.Run(context.Background(), func(context.Context, string) error { return nil })
	assert.Error(t, err)
}
