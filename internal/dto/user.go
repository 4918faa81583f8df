package dto

import "unilink/backend/internal/model"

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Dept     string `json:"dept"`
	Photo    string `json:"photo,omitempty"`
	Year     string `json:"year,omitempty"`
	Blood    string `json:"blood,omitempty"`
	Status   string `json:"status,omitempty"`
}

// NewUserResponse 从模型构造响应
func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:       u.UserID,
		Name:     u.Name,
		Username: u.Username,
		Role:     u.Role,
		Dept:     u.Dept,
		Photo:    u.Photo,
		Year:     u.Year,
		Blood:    u.Blood,
		Status:   u.Status,
	}
}

// NewUserResponseList 批量构造响应
func NewUserResponseList(users []model.User) []UserResponse {
	result := make([]UserResponse, 0, len(users))
	for i := range users {
		result = append(result, NewUserResponse(&users[i]))
	}
	return result
}

// CreateUserRequest 新增用户请求（管理面板）
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name"     binding:"required"`
	Role     string `json:"role"     binding:"required,oneof=student staff hod"`
	Dept     string `json:"dept"     binding:"required"`
	Photo    string `json:"photo"`
	Year     string `json:"year"`
	Blood    string `json:"blood"`
}

// UpdateUserRequest 编辑用户请求（管理面板，部分更新）
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Username *string `json:"username"`
	Role     *string `json:"role" binding:"omitempty,oneof=student staff hod"`
	Dept     *string `json:"dept"`
	Photo    *string `json:"photo"`
	Year     *string `json:"year"`
	Blood    *string `json:"blood"`
}

// UpdateStatusRequest 状态切换请求（staff/hod 本人）
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=available busy offline"`
}
