package model

type Product struct {
	TableEntity
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Price       int64  `gorm:"not null" json:"price"`
	Stock       int64  `gorm:"not null" json:"stock"`
	Category    string `gorm:"type:varchar(100)" json:"category"`
	ImageURL    string `gorm:"type:text" json:"image_url"`
}
