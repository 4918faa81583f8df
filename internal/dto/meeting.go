package dto

// CreateMeetingRequest 发起会面申请
type CreateMeetingRequest struct {
	ToUserID string `json:"to_user_id" binding:"required"`
	Purpose  string `json:"purpose"    binding:"required"`
}

// CreateMeetingResponse 发起会面申请响应
type CreateMeetingResponse struct {
	MeetingID string `json:"meeting_id"`
}

// ResolveMeetingRequest 会面申请决议（接收方批复）
type ResolveMeetingRequest struct {
	Status string `json:"status" binding:"required,oneof=approved denied"`
}
