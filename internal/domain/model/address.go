package model

import "time"

// 配送先住所
type Address struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"not null;index" json:"user_id"`

	//通り名
	Street string `gorm:"type:varchar(255);not null" json:"street"`

	//番地
	Number string `gorm:"type:varchar(30);not null" json:"number"`

	//建物名・部屋番号など
	Complement string `gorm:"type:varchar(255)" json:"complement"`

	//地区
	Neighborhood string `gorm:"type:varchar(255);not null" json:"neighborhood"`

	City  string `gorm:"type:varchar(255);not null" json:"city"`
	State string `gorm:"type:varchar(100);not null" json:"state"`

	//郵便番号
	ZipCode string `gorm:"type:varchar(20);not null" json:"zip_code"`

	//このユーザーのデフォルト住所か（最初の1件は必ずデフォルト）
	IsDefault bool `gorm:"not null;default:false" json:"is_default"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
