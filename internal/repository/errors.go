package repository

import "errors"

var (
	// 対象のレコードが無い
	ErrNotFound = errors.New("not found")
	// ETagが古い（読んだ後に他の誰かが更新した）
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	// 同じキーのレコードがすでにある
	ErrAlreadyExists = errors.New("already exists")
	// ストア/キューに届かない
	ErrUnavailable = errors.New("downstream unavailable")
)
