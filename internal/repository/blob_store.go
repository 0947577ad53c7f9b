package repository

import (
	"context"
	"io"
	"time"
)

type BlobInfo struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}

// 画像やアップロードファイルの置き場所。戻り値の参照は不透明な文字列として扱う。
type BlobStore interface {
	Put(ctx context.Context, dir, name string, r io.Reader) (ref string, err error)
	Open(ctx context.Context, dir, name string) (io.ReadCloser, error)
	List(ctx context.Context, dir string) ([]BlobInfo, error)
	Delete(ctx context.Context, dir, name string) error
}
