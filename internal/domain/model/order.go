package model

import (
	"strings"
	"time"
)

const (
	OrderStatusProcessing = "Processing"
	OrderStatusDelivery   = "Delivery"
)

// 管理画面で選べるステータス（これ以外も保存はできる）
var OrderStatusOptions = []string{OrderStatusProcessing, OrderStatusDelivery}

// 表示用の結合で見つからなかったときの値
const UnknownName = "Unknown"

type Order struct {
	TableEntity
	CustomerRowKey   string    `gorm:"type:varchar(64)" json:"customer_row_key"`
	CustomerUsername string    `gorm:"type:varchar(255);index" json:"customer_username"`
	ProductRowKeys   string    `gorm:"type:text;not null" json:"product_row_keys"`
	Quantity         int64     `gorm:"not null" json:"quantity"`
	TotalPrice       int64     `gorm:"not null" json:"total_price"`
	Status           string    `gorm:"type:varchar(50);not null;index" json:"status"`
	OrderDate        time.Time `gorm:"not null" json:"order_date"`

	// 表示用（保存しない）
	CustomerName string   `gorm:"-" json:"customer_name,omitempty"`
	ProductNames []string `gorm:"-" json:"product_names,omitempty"`
}

// ProductRowKeysをIDの配列に戻す。空要素は捨てる。
func (o Order) ProductIDs() []string {
	return SplitProductIDs(o.ProductRowKeys)
}

func SplitProductIDs(s string) []string {
	parts := strings.Split(s, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		ids = append(ids, p)
	}
	return ids
}

func JoinProductIDs(ids []string) string {
	return strings.Join(ids, ",")
}
