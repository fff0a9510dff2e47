package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"cgpa-analyzer/backend/internal/model"
)

// ── Mock Repositories ──

type mockUserRepo struct {
	users   map[string]*model.User // key: user_id
	nextID  int
	records *mockRecordRepo // DeleteCascade 需要连带删除成绩

	// failCascade 模拟级联删除中途失败（事务整体回滚，什么都不该变）
	failCascade bool
}

func newMockUserRepo(records *mockRecordRepo) *mockUserRepo {
	return &mockUserRepo{
		users:   make(map[string]*model.User),
		records: records,
	}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	// 模拟 LOWER(email) 唯一索引
	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.UserID == "" {
		m.nextID++
		user.UserID = "test-user-" + string(rune('a'+m.nextID))
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByGoogleID(_ context.Context, googleID string) (*model.User, error) {
	for _, u := range m.users {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) UpdatePasswordHash(_ context.Context, id string, hash string) error {
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	h := hash
	u.PasswordHash = &h
	return nil
}

func (m *mockUserRepo) DeleteCascade(_ context.Context, id string) error {
	if m.failCascade {
		// 事务回滚：不做任何修改
		return errors.New("模拟级联删除失败")
	}
	delete(m.users, id)
	if m.records != nil {
		delete(m.records.semesters, id)
	}
	return nil
}

type mockRecordRepo struct {
	semesters map[string][]model.Semester // key: user_id
}

func newMockRecordRepo() *mockRecordRepo {
	return &mockRecordRepo{semesters: make(map[string][]model.Semester)}
}

func (m *mockRecordRepo) ListSemesters(_ context.Context, userID string) ([]model.Semester, error) {
	return m.semesters[userID], nil
}

type mockCollegeRepo struct {
	colleges map[string]*model.College
}

func newMockCollegeRepo() *mockCollegeRepo {
	return &mockCollegeRepo{
		colleges: map[string]*model.College{
			"valid-college-id": {CollegeID: "valid-college-id", Name: "测试学院"},
		},
	}
}

func (m *mockCollegeRepo) GetByID(_ context.Context, id string) (*model.College, error) {
	if c, ok := m.colleges[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCollegeRepo) List(_ context.Context) ([]model.College, error) {
	var result []model.College
	for _, c := range m.colleges {
		result = append(result, *c)
	}
	return result, nil
}
