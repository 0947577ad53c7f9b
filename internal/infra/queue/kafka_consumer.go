package queue

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// 受け取ったpayloadの処理。エラーを返してもコミットは進める（再送しない）。
type Handler func(ctx context.Context, payload string) error

type Consumer struct {
	reader MessageReader
	log    zerolog.Logger
}

func NewKafkaConsumer(brokers []string, topic, groupID string, log zerolog.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return NewConsumer(r, log)
}

func NewConsumer(r MessageReader, log zerolog.Logger) *Consumer {
	return &Consumer{reader: r, log: log}
}

// ctxが終わるまで読み続ける
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		if err := handle(ctx, string(msg.Value)); err != nil {
			c.log.Warn().Err(err).
				Int("partition", msg.Partition).
				Int64("offset", msg.Offset).
				Msg("message handling failed, skipped")
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
