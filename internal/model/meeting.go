package model

// ── 会面申请状态 ──
//
// 合法迁移仅 pending→approved 与 pending→denied；
// 已决议的申请不再迁移（当前实现不做防御检查，见 service 层说明）。

const (
	MeetingPending  = "pending"
	MeetingApproved = "approved"
	MeetingDenied   = "denied"
)

// MeetingRequest 会面申请表 — 对应 meeting_requests
//
// 发起方与接收方的姓名、角色在创建时冗余快照，
// 用户随后改名不影响既有申请的展示。
type MeetingRequest struct {
	MeetingID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"meeting_id"`
	FromUserID   string `gorm:"type:uuid;not null;index"                       json:"from_user_id"`
	FromUserName string `gorm:"type:varchar(100);not null"                     json:"from_user_name"`
	FromUserRole string `gorm:"type:varchar(20);not null"                      json:"from_user_role"`
	ToUserID     string `gorm:"type:uuid;not null;index"                       json:"to_user_id"`
	ToUserName   string `gorm:"type:varchar(100);not null"                     json:"to_user_name"`
	ToUserRole   string `gorm:"type:varchar(20);not null"                      json:"to_user_role"`
	Purpose      string `gorm:"type:varchar(500);not null"                     json:"purpose"`
	Status       string `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"` // pending | approved | denied
	BaseModel
}

// TableName 指定表名
func (MeetingRequest) TableName() string { return "meeting_requests" }
