package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"cgpa-analyzer/backend/config"
	"cgpa-analyzer/backend/internal/dto"
	"cgpa-analyzer/backend/internal/model"
	"cgpa-analyzer/backend/internal/repository"
	"cgpa-analyzer/backend/pkg/jwt"
)

// ── 测试辅助 ──

func newTestJWTManager() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret-key-for-unit-testing-2026",
		SessionTokenTTL: 7 * 24 * time.Hour,
	})
}

func setupTestAuthService() (AuthService, *mockUserRepo) {
	records := newMockRecordRepo()
	userRepo := newMockUserRepo(records)
	repo := &repository.Repository{
		User:    userRepo,
		College: newMockCollegeRepo(),
		Record:  records,
	}

	svc := NewAuthService(repo, newTestJWTManager(), zap.NewNop())
	return svc, userRepo
}

func createTestUser(userRepo *mockUserRepo, email, password string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	hashStr := string(hash)
	user := &model.User{
		UserID:       "user-" + email,
		Username:     "测试用户",
		Email:        email,
		PasswordHash: &hashStr,
	}
	userRepo.users[user.UserID] = user
	return user
}

// createFederatedUser 纯第三方登录账号：无密码哈希
func createFederatedUser(userRepo *mockUserRepo, email, googleID string) *model.User {
	gid := googleID
	user := &model.User{
		UserID:   "guser-" + email,
		Username: "第三方用户",
		Email:    email,
		GoogleID: &gid,
	}
	userRepo.users[user.UserID] = user
	return user
}

// ── 注册测试 ──

func TestRegister_Success(t *testing.T) {
	svc, _ := setupTestAuthService()

	result, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Username: "alice",
		Email:    "a@x.com",
		Password: "Secret1",
	})

	if err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}
	if result.Token == "" {
		t.Error("Token 不应为空")
	}
	if result.User.Email != "a@x.com" {
		t.Errorf("期望 Email=a@x.com，实际=%s", result.User.Email)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, userRepo := setupTestAuthService()
	createTestUser(userRepo, "a@x.com", "Secret1")

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Username: "bob",
		Email:    "a@x.com",
		Password: "Secret2",
	})

	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("期望 ErrEmailExists，实际: %v", err)
	}
}

func TestRegister_DuplicateEmailDifferentCase(t *testing.T) {
	svc, userRepo := setupTestAuthService()
	createTestUser(userRepo, "a@x.com", "Secret1")

	// 邮箱唯一性不区分大小写
	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Username: "bob",
		Email:    "A@X.COM",
		Password: "Secret2",
	})

	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("期望 ErrEmailExists，实际: %v", err)
	}
}

// bcrypt 的输入上限是 72 字节，超长密码是客户端可修正的输入错误
func TestRegister_PasswordTooLong(t *testing.T) {
	svc, _ := setupTestAuthService()

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Username: "alice",
		Email:    "a@x.com",
		Password: strings.Repeat("p", 73),
	})

	if !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("期望 ErrPasswordTooLong，实际: %v", err)
	}
}

func TestRegister_EmailNormalized(t *testing.T) {
	svc, _ := setupTestAuthService()

	result, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Username: "alice",
		Email:    "  Alice@X.Com ",
		Password: "Secret1",
	})

	if err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}
	if result.User.Email != "alice@x.com" {
		t.Errorf("期望邮箱被规范化为 alice@x.com，实际=%s", result.User.Email)
	}
}

// ── 登录测试 ──

func TestLogin_Success(t *testing.T) {
	svc, userRepo := setupTestAuthService()
	createTestUser(userRepo, "a@x.com", "Secret1")

	result, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "a@x.com",
		Password: "Secret1",
	})

	if err != nil {
		t.Fatalf("Login 应成功，但返回错误: %v", err)
	}
	if result.Token == "" {
		t.Error("Token 不应为空")
	}
	if result.User.Email != "a@x.com" {
		t.Errorf("期望 Email=a@x.com，实际=%s", result.User.Email)
	}
}

func TestLogin_EmailCaseInsensitive(t *testing.T) {
	svc, userRepo := setupTestAuthService()
	createTestUser(userRepo, "a@x.com", "Secret1")

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "A@X.com",
		Password: "Secret1",
	})

	if err != nil {
		t.Fatalf("大小写不同的邮箱应能登录: %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, userRepo := setupTestAuthService()
	createTestUser(userRepo, "a@x.com", "Secret1")

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "a@x.com",
		Password: "wrong_password",
	})

	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestLogin_UserNotFound(t *testing.T) {
	svc, _ := setupTestAuthService()

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@x.com",
		Password: "anything",
	})

	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

// 密码错误与用户不存在必须是同一个错误值——响应形状不可区分
func TestLogin_FailureIndistinguishable(t *testing.T) {
	svc, userRepo := setupTestAuthService()
	createTestUser(userRepo, "a@x.com", "Secret1")

	_, errWrongPwd := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "a@x.com",
		Password: "wrong",
	})
	_, errNoUser := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@x.com",
		Password: "anything",
	})

	if errWrongPwd != errNoUser {
		t.Errorf("两种失败必须返回同一错误: %v vs %v", errWrongPwd, errNoUser)
	}
}

// 纯第三方登录账号没有密码，密码登录必须失败且错误不可区分
func TestLogin_FederatedOnlyAccount(t *testing.T) {
	svc, userRepo := setupTestAuthService()
	createFederatedUser(userRepo, "g@x.com", "google-123")

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "g@x.com",
		Password: "anything",
	})

	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}
