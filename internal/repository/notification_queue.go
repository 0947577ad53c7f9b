package repository

import "context"

// 非同期通知のキュー（少なくとも1回配信、送りっぱなし）
type NotificationQueue interface {
	EnsureExists(ctx context.Context) error
	// payloadはそのまま送る（エンコードは呼び出し側）
	Send(ctx context.Context, payload string) error
}
