package queue

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	repo "storefront/internal/repository"

	"github.com/segmentio/kafka-go"
)

// kafka.Writerのうち使う部分だけ（テストで差し替える）
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// トピック作成（テストで差し替える）
type TopicCreator func(ctx context.Context, brokers []string, topic string) error

// 注文受付通知のキュー（kafkaのトピック1本）
type KafkaQueue struct {
	writer      MessageWriter
	brokers     []string
	topic       string
	createTopic TopicCreator
}

func NewKafkaQueue(brokers []string, topic string) *KafkaQueue {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
		MaxAttempts:  3,
	}
	return NewKafkaQueueWithWriter(w, brokers, topic, CreateTopic)
}

func NewKafkaQueueWithWriter(w MessageWriter, brokers []string, topic string, create TopicCreator) *KafkaQueue {
	return &KafkaQueue{writer: w, brokers: brokers, topic: topic, createTopic: create}
}

var _ repo.NotificationQueue = (*KafkaQueue)(nil)

func (q *KafkaQueue) EnsureExists(ctx context.Context) error {
	if err := q.createTopic(ctx, q.brokers, q.topic); err != nil {
		return fmt.Errorf("%w: ensure topic %s: %v", repo.ErrUnavailable, q.topic, err)
	}
	return nil
}

func (q *KafkaQueue) Send(ctx context.Context, payload string) error {
	err := q.writer.WriteMessages(ctx, kafka.Message{
		Value: []byte(payload),
		Time:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("%w: send to %s: %v", repo.ErrUnavailable, q.topic, err)
	}
	return nil
}

func (q *KafkaQueue) Close() error {
	return q.writer.Close()
}

// controllerにつないでトピックを作る。すでにあればそのまま。
func CreateTopic(ctx context.Context, brokers []string, topic string) error {
	if len(brokers) == 0 {
		return errors.New("no brokers")
	}
	dialer := &kafka.Dialer{Timeout: 10 * time.Second}

	conn, err := dialer.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		return err
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return err
	}
	cc, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return err
	}
	defer cc.Close()

	err = cc.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if errors.Is(err, kafka.TopicAlreadyExists) {
		return nil
	}
	return err
}
