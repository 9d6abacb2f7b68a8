package model

import "time"

// 管理者ロール。permissions はJSON文字列で保存する（例: {"orders":true}）。
type AdminRole struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64     `gorm:"not null;uniqueIndex" json:"user_id"`
	RoleName    string    `gorm:"type:varchar(50);not null" json:"role_name"`
	Permissions string    `gorm:"type:text" json:"permissions"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
