package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"unilink/backend/internal/model"
	pkgerrors "unilink/backend/pkg/errors"
)

// mock 统一用递增的时间戳模拟数据库时钟，保证排序断言可判定
var mockClock = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func nextMockTime() time.Time {
	mockClock = mockClock.Add(time.Second)
	return mockClock
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users []*model.User // 保持插入顺序
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	user.CreatedAt = nextMockTime()
	user.UpdatedAt = user.CreatedAt
	m.users = append(m.users, user)
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	for _, u := range m.users {
		if u.UserID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsernameAndRole(_ context.Context, username, role string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username && u.Role == role {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ListAll(_ context.Context) ([]model.User, error) {
	result := make([]model.User, 0, len(m.users))
	// 与真实实现一致：按创建时间倒序
	for i := len(m.users) - 1; i >= 0; i-- {
		result = append(result, *m.users[i])
	}
	return result, nil
}

func (m *mockUserRepo) ListByRole(_ context.Context, role string) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if u.Role == role {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (m *mockUserRepo) UpdateFields(_ context.Context, id string, updates map[string]interface{}) error {
	for _, u := range m.users {
		if u.UserID != id {
			continue
		}
		for k, v := range updates {
			switch k {
			case "name":
				u.Name = v.(string)
			case "username":
				u.Username = v.(string)
			case "role":
				u.Role = v.(string)
			case "dept":
				u.Dept = v.(string)
			case "status":
				u.Status = v.(string)
			case "timetable":
				if entries, ok := v.(datatypes.JSONSlice[model.TimetableEntry]); ok {
					u.Timetable = entries
				}
			}
		}
		u.UpdatedAt = nextMockTime()
		return nil
	}
	// 与 UpdateColumns 一致：0 行命中不报错
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	for i, u := range m.users {
		if u.UserID == id {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return nil
		}
	}
	return nil
}

// ── Mock MeetingRepository ──

type mockMeetingRepo struct {
	meetings []*model.MeetingRequest
	seq      int

	// failCompound 模拟存储层拒绝复合查询
	failCompound bool
	// failAll 模拟存储层整体不可用
	failAll bool
}

func newMockMeetingRepo() *mockMeetingRepo {
	return &mockMeetingRepo{}
}

func (m *mockMeetingRepo) Create(_ context.Context, meeting *model.MeetingRequest) error {
	if m.failAll {
		return fmt.Errorf("storage unavailable")
	}
	if meeting.MeetingID == "" {
		m.seq++
		meeting.MeetingID = fmt.Sprintf("meeting-%d", m.seq)
	}
	meeting.CreatedAt = nextMockTime()
	meeting.UpdatedAt = meeting.CreatedAt
	m.meetings = append(m.meetings, meeting)
	return nil
}

func (m *mockMeetingRepo) GetByID(_ context.Context, id string) (*model.MeetingRequest, error) {
	for _, mt := range m.meetings {
		if mt.MeetingID == id {
			return mt, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMeetingRepo) ListPendingForTarget(_ context.Context, userID string) ([]model.MeetingRequest, error) {
	if m.failAll {
		return nil, fmt.Errorf("storage unavailable")
	}
	if m.failCompound {
		return nil, pkgerrors.ErrUnsupportedQueryShape
	}
	var result []model.MeetingRequest
	for _, mt := range m.meetings {
		if mt.ToUserID == userID && mt.Status == model.MeetingPending {
			result = append(result, *mt)
		}
	}
	return result, nil
}

func (m *mockMeetingRepo) ListByTarget(_ context.Context, userID string) ([]model.MeetingRequest, error) {
	if m.failAll {
		return nil, fmt.Errorf("storage unavailable")
	}
	var result []model.MeetingRequest
	for _, mt := range m.meetings {
		if mt.ToUserID == userID {
			result = append(result, *mt)
		}
	}
	return result, nil
}

func (m *mockMeetingRepo) UpdateStatus(_ context.Context, id, status string) error {
	if m.failAll {
		return fmt.Errorf("storage unavailable")
	}
	for _, mt := range m.meetings {
		if mt.MeetingID == id {
			mt.Status = status
			mt.UpdatedAt = nextMockTime()
			return nil
		}
	}
	// 无条件 UPDATE：0 行命中不报错
	return nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	notifications []*model.Notification
	seq           int

	// failCreate 模拟通知写入失败（用于部分状态验证）
	failCreate bool
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{}
}

func (m *mockNotificationRepo) Create(_ context.Context, notification *model.Notification) error {
	if m.failCreate {
		return fmt.Errorf("storage unavailable")
	}
	if notification.NotificationID == "" {
		m.seq++
		notification.NotificationID = fmt.Sprintf("notif-%d", m.seq)
	}
	notification.CreatedAt = nextMockTime()
	m.notifications = append(m.notifications, notification)
	return nil
}

func (m *mockNotificationRepo) ListByRecipient(_ context.Context, userID string) ([]model.Notification, error) {
	var result []model.Notification
	for _, n := range m.notifications {
		if n.ToUserID == userID {
			result = append(result, *n)
		}
	}
	return result, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id string) error {
	for _, n := range m.notifications {
		if n.NotificationID == id {
			n.Read = true
			return nil
		}
	}
	return nil
}
