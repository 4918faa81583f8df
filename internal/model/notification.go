package model

import "time"

// ── 通知类型 ──

const (
	NotificationMeetingRequest  = "meeting_request"
	NotificationMeetingResponse = "meeting_response"
)

// Notification 通知消息表 — 对应 notifications
//
// 会面申请创建与状态迁移各产生一条通知（扇出副作用）。
// 通知只增不删，read 由接收方置位。
type Notification struct {
	NotificationID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`
	Type           string    `gorm:"type:varchar(50);not null"                      json:"type"` // meeting_request | meeting_response
	MeetingID      string    `gorm:"type:uuid;not null"                             json:"meeting_id"`
	FromUserID     string    `gorm:"type:uuid;not null"                             json:"from_user_id"`
	FromUserName   string    `gorm:"type:varchar(100);not null"                     json:"from_user_name"`
	ToUserID       string    `gorm:"type:uuid;not null;index"                       json:"to_user_id"`
	ToUserName     string    `gorm:"type:varchar(100);not null"                     json:"to_user_name"`
	Message        string    `gorm:"type:text;not null"                             json:"message"`
	Read           bool      `gorm:"not null;default:false"                         json:"read"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;autoCreateTime:false;autoUpdateTime:false" json:"created_at"`
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }
