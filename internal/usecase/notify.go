package usecase

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/rs/zerolog"
)

const EventOrderReceived = "OrderReceived"

// キューに流す注文受付メッセージ（JSONをbase64にして送る）
type OrderReceivedMessage struct {
	EventType  string    `json:"EventType"`
	OrderID    string    `json:"OrderId"`
	TotalPrice int64     `json:"TotalPrice"`
	Status     string    `json:"Status"`
	Timestamp  time.Time `json:"Timestamp"`
}

func EncodeOrderReceived(o model.Order, now time.Time) (string, error) {
	b, err := json.Marshal(OrderReceivedMessage{
		EventType:  EventOrderReceived,
		OrderID:    o.RowKey,
		TotalPrice: o.TotalPrice,
		Status:     o.Status,
		Timestamp:  now.UTC(),
	})
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func DecodeOrderReceived(payload string) (OrderReceivedMessage, error) {
	var msg OrderReceivedMessage
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return msg, fmt.Errorf("decode base64: %w", err)
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		return msg, fmt.Errorf("decode json: %w", err)
	}
	if msg.EventType != EventOrderReceived {
		return msg, fmt.Errorf("unexpected event type %q", msg.EventType)
	}
	return msg, nil
}

// 注文の保存と通知。保存が先で、通知は失敗してもログだけ。
type orderWriter struct {
	orders repo.OrderRepository
	queue  repo.NotificationQueue
	log    zerolog.Logger
	now    func() time.Time
}

func (w orderWriter) persistThenNotify(ctx context.Context, o model.Order, notify bool) (model.Order, error) {
	saved, err := w.orders.Insert(ctx, o)
	if err != nil {
		return model.Order{}, fromRepo(err, ErrNotFound)
	}
	if !notify || w.queue == nil {
		return saved, nil
	}

	payload, err := EncodeOrderReceived(saved, w.now())
	if err == nil {
		err = w.queue.Send(ctx, payload)
	}
	if err != nil {
		w.log.Warn().Err(err).
			Str("order_id", saved.RowKey).
			Msg("order received notification failed")
	}
	return saved, nil
}

// 受信側の処理。読めないメッセージは生のままログに残して捨てる。
func HandleOrderReceived(log zerolog.Logger) func(ctx context.Context, payload string) error {
	return func(ctx context.Context, payload string) error {
		msg, err := DecodeOrderReceived(payload)
		if err != nil {
			log.Warn().Err(err).Str("raw", payload).Msg("unreadable queue message")
			return nil
		}
		log.Info().
			Str("order_id", msg.OrderID).
			Int64("total_price", msg.TotalPrice).
			Str("status", msg.Status).
			Time("received_at", msg.Timestamp).
			Msg("order received")
		return nil
	}
}
