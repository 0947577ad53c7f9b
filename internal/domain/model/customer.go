package model

import "strings"

// 顧客。RowKeyはユーザーアカウントのIDと同じ値（1:1）。
type Customer struct {
	TableEntity
	FirstName   string `gorm:"type:varchar(100)" json:"first_name"`
	LastName    string `gorm:"type:varchar(100)" json:"last_name"`
	Email       string `gorm:"type:varchar(255)" json:"email"`
	PhoneNumber string `gorm:"type:varchar(30)" json:"phone_number"`
	Address     string `gorm:"type:varchar(255)" json:"address"`
	City        string `gorm:"type:varchar(100)" json:"city"`
}

// 表示名（姓名）
func (c Customer) DisplayName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
