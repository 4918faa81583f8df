package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"unilink/backend/internal/alert"
	"unilink/backend/internal/dto"
	"unilink/backend/internal/model"
	"unilink/backend/internal/repository"
)

// ── 测试辅助 ──

type testMeetingFixture struct {
	svc       MeetingService
	userRepo  *mockUserRepo
	meetRepo  *mockMeetingRepo
	notifRepo *mockNotificationRepo
}

func setupTestMeetingService() *testMeetingFixture {
	userRepo := newMockUserRepo()
	meetRepo := newMockMeetingRepo()
	notifRepo := newMockNotificationRepo()
	repo := &repository.Repository{
		User:         userRepo,
		Meeting:      meetRepo,
		Notification: notifRepo,
	}

	logger := zap.NewNop()
	feed := alert.NewMemoryFeed()
	notifSvc := NewNotificationService(repo, feed, logger)
	svc := NewMeetingService(repo, notifSvc, feed, logger)

	return &testMeetingFixture{
		svc:       svc,
		userRepo:  userRepo,
		meetRepo:  meetRepo,
		notifRepo: notifRepo,
	}
}

func seedUser(repo *mockUserRepo, id, name, role string) *model.User {
	user := &model.User{
		UserID:   id,
		Username: id + "-reg",
		Name:     name,
		Role:     role,
		Dept:     "CSE",
	}
	repo.Create(context.Background(), user)
	return user
}

// ── 创建会面申请 ──

func TestCreateRequest_Success(t *testing.T) {
	f := setupTestMeetingService()
	seedUser(f.userRepo, "stu-1", "Arjun", model.RoleStudent)
	seedUser(f.userRepo, "staff-1", "Priya", model.RoleStaff)

	meetingID, err := f.svc.CreateRequest(context.Background(), "stu-1", &dto.CreateMeetingRequest{
		ToUserID: "staff-1",
		Purpose:  "Project guidance",
	})

	if err != nil {
		t.Fatalf("CreateRequest 应成功: %v", err)
	}
	if meetingID == "" {
		t.Fatal("meetingID 不应为空")
	}

	meeting, err := f.meetRepo.GetByID(context.Background(), meetingID)
	if err != nil {
		t.Fatalf("申请应已落库: %v", err)
	}
	if meeting.Status != model.MeetingPending {
		t.Errorf("新申请状态应为 pending，实际=%s", meeting.Status)
	}
	if meeting.FromUserName != "Arjun" || meeting.ToUserName != "Priya" {
		t.Errorf("双方姓名快照不正确: from=%s to=%s", meeting.FromUserName, meeting.ToUserName)
	}
	if meeting.FromUserRole != model.RoleStudent {
		t.Errorf("发起方角色快照应为 student，实际=%s", meeting.FromUserRole)
	}
}

func TestCreateRequest_NotifiesTarget(t *testing.T) {
	f := setupTestMeetingService()
	seedUser(f.userRepo, "stu-1", "Arjun", model.RoleStudent)
	seedUser(f.userRepo, "staff-1", "Priya", model.RoleStaff)

	_, err := f.svc.CreateRequest(context.Background(), "stu-1", &dto.CreateMeetingRequest{
		ToUserID: "staff-1",
		Purpose:  "Project guidance",
	})
	if err != nil {
		t.Fatalf("CreateRequest 应成功: %v", err)
	}

	notifs, _ := f.notifRepo.ListByRecipient(context.Background(), "staff-1")
	if len(notifs) != 1 {
		t.Fatalf("接收方应收到 1 条通知，实际=%d", len(notifs))
	}
	n := notifs[0]
	if n.Type != model.NotificationMeetingRequest {
		t.Errorf("通知类型应为 meeting_request，实际=%s", n.Type)
	}
	if n.Message != "Meeting request from Arjun: Project guidance" {
		t.Errorf("通知文案不正确: %q", n.Message)
	}
	if n.Read {
		t.Error("新通知应为未读")
	}
}

func TestCreateRequest_EmptyPurpose(t *testing.T) {
	f := setupTestMeetingService()
	seedUser(f.userRepo, "stu-1", "Arjun", model.RoleStudent)
	seedUser(f.userRepo, "staff-1", "Priya", model.RoleStaff)

	for _, purpose := range []string{"", "   ", "\t\n"} {
		_, err := f.svc.CreateRequest(context.Background(), "stu-1", &dto.CreateMeetingRequest{
			ToUserID: "staff-1",
			Purpose:  purpose,
		})
		if !errors.Is(err, ErrEmptyPurpose) {
			t.Errorf("purpose=%q 期望 ErrEmptyPurpose，实际: %v", purpose, err)
		}
	}
	if len(f.meetRepo.meetings) != 0 {
		t.Error("空 purpose 不应产生任何申请")
	}
	if len(f.notifRepo.notifications) != 0 {
		t.Error("空 purpose 不应产生任何通知")
	}
}

func TestCreateRequest_TargetNotFound(t *testing.T) {
	f := setupTestMeetingService()
	seedUser(f.userRepo, "stu-1", "Arjun", model.RoleStudent)

	_, err := f.svc.CreateRequest(context.Background(), "stu-1", &dto.CreateMeetingRequest{
		ToUserID: "ghost",
		Purpose:  "Project guidance",
	})
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

// 通知写入失败时申请已落库：错误上抛但申请不回滚
func TestCreateRequest_NotificationFailureKeepsMeeting(t *testing.T) {
	f := setupTestMeetingService()
	seedUser(f.userRepo, "stu-1", "Arjun", model.RoleStudent)
	seedUser(f.userRepo, "staff-1", "Priya", model.RoleStaff)
	f.notifRepo.failCreate = true

	_, err := f.svc.CreateRequest(context.Background(), "stu-1", &dto.CreateMeetingRequest{
		ToUserID: "staff-1",
		Purpose:  "Project guidance",
	})
	if err == nil {
		t.Fatal("通知写入失败时应返回错误")
	}
	if len(f.meetRepo.meetings) != 1 {
		t.Errorf("申请应保留在存储中，实际条数=%d", len(f.meetRepo.meetings))
	}
	if f.meetRepo.meetings[0].Status != model.MeetingPending {
		t.Errorf("残留申请状态应为 pending，实际=%s", f.meetRepo.meetings[0].Status)
	}
}

// ── 待决申请列表 ──

func seedMeetings(f *testMeetingFixture, target string) {
	seedUser(f.userRepo, "stu-1", "Arjun", model.RoleStudent)
	seedUser(f.userRepo, "stu-2", "Meera", model.RoleStudent)
	seedUser(f.userRepo, target, "Priya", model.RoleStaff)
	seedUser(f.userRepo, "staff-2", "Ravi", model.RoleStaff)

	ctx := context.Background()
	// 发给 target 的三条 + 发给别人的一条
	f.svc.CreateRequest(ctx, "stu-1", &dto.CreateMeetingRequest{ToUserID: target, Purpose: "First"})
	f.svc.CreateRequest(ctx, "stu-2", &dto.CreateMeetingRequest{ToUserID: target, Purpose: "Second"})
	f.svc.CreateRequest(ctx, "stu-1", &dto.CreateMeetingRequest{ToUserID: "staff-2", Purpose: "Other"})
	f.svc.CreateRequest(ctx, "stu-2", &dto.CreateMeetingRequest{ToUserID: target, Purpose: "Third"})
}

func TestListPendingForUser_NewestFirst(t *testing.T) {
	f := setupTestMeetingService()
	seedMeetings(f, "staff-1")

	meetings, err := f.svc.ListPendingForUser(context.Background(), "staff-1")
	if err != nil {
		t.Fatalf("ListPendingForUser 应成功: %v", err)
	}
	if len(meetings) != 3 {
		t.Fatalf("期望 3 条待决申请，实际=%d", len(meetings))
	}
	for i, want := range []string{"Third", "Second", "First"} {
		if meetings[i].Purpose != want {
			t.Errorf("第 %d 条期望 %q，实际 %q", i, want, meetings[i].Purpose)
		}
	}
}

func TestListPendingForUser_ExcludesResolved(t *testing.T) {
	f := setupTestMeetingService()
	seedMeetings(f, "staff-1")

	// 决议掉一条
	pending, _ := f.svc.ListPendingForUser(context.Background(), "staff-1")
	if err := f.svc.Resolve(context.Background(), pending[0].MeetingID, model.MeetingApproved); err != nil {
		t.Fatalf("Resolve 应成功: %v", err)
	}

	meetings, err := f.svc.ListPendingForUser(context.Background(), "staff-1")
	if err != nil {
		t.Fatalf("ListPendingForUser 应成功: %v", err)
	}
	if len(meetings) != 2 {
		t.Fatalf("决议后期望 2 条待决申请，实际=%d", len(meetings))
	}
	for _, m := range meetings {
		if m.Status != model.MeetingPending {
			t.Errorf("列表中不应出现非 pending 申请: %s=%s", m.MeetingID, m.Status)
		}
	}
}

// 复合查询被拒时退化路径与正常路径结果一致
func TestListPendingForUser_FallbackEquivalence(t *testing.T) {
	f := setupTestMeetingService()
	seedMeetings(f, "staff-1")

	direct, err := f.svc.ListPendingForUser(context.Background(), "staff-1")
	if err != nil {
		t.Fatalf("复合查询路径应成功: %v", err)
	}

	f.meetRepo.failCompound = true
	fallback, err := f.svc.ListPendingForUser(context.Background(), "staff-1")
	if err != nil {
		t.Fatalf("退化路径应成功: %v", err)
	}

	if len(direct) != len(fallback) {
		t.Fatalf("两条路径条数不一致: %d vs %d", len(direct), len(fallback))
	}
	for i := range direct {
		if direct[i].MeetingID != fallback[i].MeetingID {
			t.Errorf("第 %d 条不一致: %s vs %s", i, direct[i].MeetingID, fallback[i].MeetingID)
		}
	}
}

func TestListPendingForUser_StorageError(t *testing.T) {
	f := setupTestMeetingService()
	f.meetRepo.failAll = true

	_, err := f.svc.ListPendingForUser(context.Background(), "staff-1")
	if err == nil {
		t.Fatal("存储不可用时应返回错误而非空列表")
	}
}

// ── 决议 ──

func TestResolve_Approve(t *testing.T) {
	f := setupTestMeetingService()
	seedUser(f.userRepo, "stu-1", "Arjun", model.RoleStudent)
	seedUser(f.userRepo, "staff-1", "Priya", model.RoleStaff)

	meetingID, _ := f.svc.CreateRequest(context.Background(), "stu-1", &dto.CreateMeetingRequest{
		ToUserID: "staff-1",
		Purpose:  "Project guidance",
	})

	if err := f.svc.Resolve(context.Background(), meetingID, model.MeetingApproved); err != nil {
		t.Fatalf("Resolve 应成功: %v", err)
	}

	meeting, _ := f.meetRepo.GetByID(context.Background(), meetingID)
	if meeting.Status != model.MeetingApproved {
		t.Errorf("状态应为 approved，实际=%s", meeting.Status)
	}

	// 回执通知发给原发起方
	notifs, _ := f.notifRepo.ListByRecipient(context.Background(), "stu-1")
	if len(notifs) != 1 {
		t.Fatalf("发起方应收到 1 条回执通知，实际=%d", len(notifs))
	}
	n := notifs[0]
	if n.Type != model.NotificationMeetingResponse {
		t.Errorf("通知类型应为 meeting_response，实际=%s", n.Type)
	}
	if !strings.Contains(n.Message, "approved") {
		t.Errorf("回执文案应包含 approved: %q", n.Message)
	}
	if !strings.Contains(n.Message, "Priya") {
		t.Errorf("回执文案应包含决议人姓名: %q", n.Message)
	}
}

func TestResolve_Deny(t *testing.T) {
	f := setupTestMeetingService()
	seedUser(f.userRepo, "stu-1", "Arjun", model.RoleStudent)
	seedUser(f.userRepo, "staff-1", "Priya", model.RoleStaff)

	meetingID, _ := f.svc.CreateRequest(context.Background(), "stu-1", &dto.CreateMeetingRequest{
		ToUserID: "staff-1",
		Purpose:  "Project guidance",
	})

	if err := f.svc.Resolve(context.Background(), meetingID, model.MeetingDenied); err != nil {
		t.Fatalf("Resolve 应成功: %v", err)
	}

	meeting, _ := f.meetRepo.GetByID(context.Background(), meetingID)
	if meeting.Status != model.MeetingDenied {
		t.Errorf("状态应为 denied，实际=%s", meeting.Status)
	}

	notifs, _ := f.notifRepo.ListByRecipient(context.Background(), "stu-1")
	if len(notifs) != 1 || !strings.Contains(notifs[0].Message, "denied") {
		t.Errorf("回执文案应包含 denied: %+v", notifs)
	}
}

func TestResolve_InvalidStatus(t *testing.T) {
	f := setupTestMeetingService()

	err := f.svc.Resolve(context.Background(), "meeting-1", "cancelled")
	if !errors.Is(err, ErrInvalidMeetingStatus) {
		t.Errorf("期望 ErrInvalidMeetingStatus，实际: %v", err)
	}
}

func TestResolve_NotFound(t *testing.T) {
	f := setupTestMeetingService()

	err := f.svc.Resolve(context.Background(), "ghost", model.MeetingApproved)
	if !errors.Is(err, ErrMeetingNotFound) {
		t.Errorf("期望 ErrMeetingNotFound，实际: %v", err)
	}
}

// 二次决议覆盖状态并再次扇出通知（保留的 last-write-wins 行为）
func TestResolve_DoubleResolveOverwrites(t *testing.T) {
	f := setupTestMeetingService()
	seedUser(f.userRepo, "stu-1", "Arjun", model.RoleStudent)
	seedUser(f.userRepo, "staff-1", "Priya", model.RoleStaff)

	meetingID, _ := f.svc.CreateRequest(context.Background(), "stu-1", &dto.CreateMeetingRequest{
		ToUserID: "staff-1",
		Purpose:  "Project guidance",
	})

	if err := f.svc.Resolve(context.Background(), meetingID, model.MeetingApproved); err != nil {
		t.Fatalf("首次 Resolve 应成功: %v", err)
	}
	if err := f.svc.Resolve(context.Background(), meetingID, model.MeetingDenied); err != nil {
		t.Fatalf("二次 Resolve 应成功: %v", err)
	}

	meeting, _ := f.meetRepo.GetByID(context.Background(), meetingID)
	if meeting.Status != model.MeetingDenied {
		t.Errorf("后写者胜出，状态应为 denied，实际=%s", meeting.Status)
	}

	notifs, _ := f.notifRepo.ListByRecipient(context.Background(), "stu-1")
	if len(notifs) != 2 {
		t.Fatalf("两次决议应产生 2 条回执通知，实际=%d", len(notifs))
	}
	if !strings.Contains(notifs[0].Message, "approved") || !strings.Contains(notifs[1].Message, "denied") {
		t.Errorf("回执通知顺序或文案不正确: %q / %q", notifs[0].Message, notifs[1].Message)
	}
}

// ── 端到端场景 ──

func TestMeetingWorkflow_EndToEnd(t *testing.T) {
	f := setupTestMeetingService()
	seedUser(f.userRepo, "stu-1", "Arjun", model.RoleStudent)
	seedUser(f.userRepo, "hod-1", "Dr. Rao", model.RoleHOD)

	ctx := context.Background()

	meetingID, err := f.svc.CreateRequest(ctx, "stu-1", &dto.CreateMeetingRequest{
		ToUserID: "hod-1",
		Purpose:  "Leave approval",
	})
	if err != nil {
		t.Fatalf("CreateRequest 应成功: %v", err)
	}

	pending, err := f.svc.ListPendingForUser(ctx, "hod-1")
	if err != nil || len(pending) != 1 {
		t.Fatalf("HOD 应看到 1 条待决申请: err=%v len=%d", err, len(pending))
	}

	if err := f.svc.Resolve(ctx, meetingID, model.MeetingDenied); err != nil {
		t.Fatalf("Resolve 应成功: %v", err)
	}

	pending, _ = f.svc.ListPendingForUser(ctx, "hod-1")
	if len(pending) != 0 {
		t.Errorf("决议后待决列表应为空，实际=%d", len(pending))
	}

	// 全程两条通知：申请方向的 + 回执方向的
	hodNotifs, _ := f.notifRepo.ListByRecipient(ctx, "hod-1")
	stuNotifs, _ := f.notifRepo.ListByRecipient(ctx, "stu-1")
	if len(hodNotifs) != 1 || len(stuNotifs) != 1 {
		t.Errorf("通知扇出不正确: hod=%d stu=%d", len(hodNotifs), len(stuNotifs))
	}
	if !strings.Contains(stuNotifs[0].Message, "denied") {
		t.Errorf("回执文案应包含 denied: %q", stuNotifs[0].Message)
	}
}
