package model

import "time"

// パーティションキー（エンティティ種別ごとに固定）
const (
	PartitionProducts  = "Products"
	PartitionCustomers = "Customers"
	PartitionOrders    = "Orders"
)

// テーブルストアの1レコードに共通するキー。
// ETagは更新のたびに作り直す（楽観ロック用）。
type TableEntity struct {
	PartitionKey string    `gorm:"primaryKey;type:varchar(64)" json:"partition_key"`
	RowKey       string    `gorm:"primaryKey;type:varchar(64)" json:"row_key"`
	ETag         string    `gorm:"column:etag;type:varchar(64);not null" json:"etag"`
	Timestamp    time.Time `gorm:"not null" json:"timestamp"`
}
