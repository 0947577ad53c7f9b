package repository

import "context"

// セッション単位の一時的な値（カートなど）
type SessionStore interface {
	// 値が無ければ ok=false
	GetValue(ctx context.Context, sessionID, key string) (value string, ok bool, err error)
	SetValue(ctx context.Context, sessionID, key, value string) error
	ClearValue(ctx context.Context, sessionID, key string) error
	// セッションごと破棄（ログアウト）
	Destroy(ctx context.Context, sessionID string) error
}
