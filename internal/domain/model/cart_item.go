package model

// カートの明細（セッションにJSONで保存）
// 名前と価格は追加時点のスナップショット。
type CartItem struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Price       int64  `json:"price"`
	Quantity    int64  `json:"quantity"`
}

// 小計は常に計算で出す
func (c CartItem) Total() int64 {
	return c.Price * c.Quantity
}
