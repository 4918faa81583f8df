package model

import "time"

// BaseModel 通用时间戳字段（所有业务模型嵌入）
//
// created_at / updated_at 由数据库时钟填充（服务端时间戳占位符由
// DEFAULT CURRENT_TIMESTAMP 解析），应用层写入时不使用本地时钟，
// 因此关闭 GORM 的自动时间戳跟踪。
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;autoCreateTime:false;autoUpdateTime:false" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;autoCreateTime:false;autoUpdateTime:false" json:"updated_at"`
}
