package model

import "gorm.io/datatypes"

// ── 角色 ──

const (
	RoleStudent = "student"
	RoleStaff   = "staff"
	RoleHOD     = "hod" // 系主任
)

// ── 状态（仅 staff/hod 使用）──

const (
	StatusAvailable = "available"
	StatusBusy      = "busy"
	StatusOffline   = "offline"
)

// User 用户表 — 对应 users
type User struct {
	UserID       string                              `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Username     string                              `gorm:"type:varchar(50);not null;uniqueIndex"          json:"username"` // 注册号，作为登录凭证
	PasswordHash string                              `gorm:"type:varchar(255);not null"                     json:"-"`
	Name         string                              `gorm:"type:varchar(100);not null"                     json:"name"`
	Role         string                              `gorm:"type:varchar(20);not null"                      json:"role"` // student | staff | hod
	Dept         string                              `gorm:"type:varchar(100);not null"                     json:"dept"`
	Photo        string                              `gorm:"type:varchar(500)"                              json:"photo,omitempty"`
	Year         string                              `gorm:"type:varchar(20)"                               json:"year,omitempty"`
	Blood        string                              `gorm:"type:varchar(10)"                               json:"blood,omitempty"`
	Status       string                              `gorm:"type:varchar(20)"                               json:"status,omitempty"` // available | busy | offline
	Timetable    datatypes.JSONSlice[TimetableEntry] `gorm:"type:jsonb"                                     json:"timetable,omitempty"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// TimetableEntry 每周课表条目
type TimetableEntry struct {
	Day      string `json:"day"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Activity string `json:"activity"`
}
