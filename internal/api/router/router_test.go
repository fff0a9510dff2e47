package router

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cgpa-analyzer/backend/config"
	"cgpa-analyzer/backend/internal/api/handler"
	"cgpa-analyzer/backend/internal/dto"
	"cgpa-analyzer/backend/internal/service"
	"cgpa-analyzer/backend/pkg/cookie"
	"cgpa-analyzer/backend/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ── 空实现 Service：路由级测试只关心路由与中间件编排 ──

type stubAuthService struct{}

func (stubAuthService) Register(_ context.Context, _ *dto.RegisterRequest) (*service.AuthResult, error) {
	return nil, service.ErrEmailExists
}
func (stubAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*service.AuthResult, error) {
	return nil, service.ErrInvalidCredentials
}

type stubOAuthService struct{}

func (stubOAuthService) Enabled() bool { return false }
func (stubOAuthService) AuthURL(_ context.Context) (string, error) {
	return "", service.ErrProviderNotConfigured
}
func (stubOAuthService) HandleCallback(_ context.Context, _, _ string) (*service.AuthResult, error) {
	return nil, service.ErrProviderNotConfigured
}

type stubUserService struct{}

func (stubUserService) GetByID(_ context.Context, _ string) (*dto.UserResponse, error) {
	return &dto.UserResponse{ID: "test-user-id"}, nil
}
func (stubUserService) UpdateProfile(_ context.Context, _ string, _ *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	return &dto.UserResponse{ID: "test-user-id"}, nil
}
func (stubUserService) ListColleges(_ context.Context) ([]dto.CollegeResponse, error) {
	return nil, nil
}
func (stubUserService) ChangePassword(_ context.Context, _ string, _ *dto.ChangePasswordRequest) error {
	return nil
}
func (stubUserService) DeleteAccount(_ context.Context, _ string, _ string) error {
	return nil
}

type stubRecordService struct{}

func (stubRecordService) List(_ context.Context, _ string) ([]dto.SemesterResponse, error) {
	return nil, nil
}
func (stubRecordService) ExportTranscript(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return bytes.NewBufferString("x"), "transcript_20260101.xlsx", nil
}

func setupTestRouter() (*gin.Engine, *jwt.Manager) {
	cfg := &config.Config{}
	cfg.Server.Port = 8080
	cfg.Server.CORS.AllowOrigins = []string{"http://localhost:5173"}
	cfg.Auth.JWTSecret = "test-secret-key-for-router-tests"
	cfg.Auth.SessionTokenTTL = 7 * 24 * time.Hour

	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := &service.Service{
		Auth:   stubAuthService{},
		OAuth:  stubOAuthService{},
		User:   stubUserService{},
		Record: stubRecordService{},
	}
	h := handler.NewHandler(cfg, svc, zap.NewNop())

	return Setup(cfg, h, jwtMgr, nil, zap.NewNop()), jwtMgr
}

// 登出不要求有效会话：不带 Cookie、带过期或乱写的 Cookie 都返回 200 并清 Cookie
func TestRouter_LogoutWithoutSession(t *testing.T) {
	r, _ := setupTestRouter()

	tests := []struct {
		name        string
		cookieValue string // 空串表示不带 Cookie
	}{
		{name: "不带会话 Cookie"},
		{name: "携带无效会话 Cookie", cookieValue: "not-a-valid-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/auth/logout", nil)
			if tt.cookieValue != "" {
				req.AddCookie(&http.Cookie{Name: cookie.SessionCookieName, Value: tt.cookieValue})
			}
			r.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("期望 200，实际 %d（响应：%s）", w.Code, w.Body.String())
			}

			cleared := false
			for _, c := range w.Result().Cookies() {
				if c.Name == cookie.SessionCookieName && c.Value == "" && c.MaxAge < 0 {
					cleared = true
				}
			}
			if !cleared {
				t.Error("登出响应应清除会话 Cookie")
			}
		})
	}
}

// 有效会话下登出同样可用
func TestRouter_LogoutWithValidSession(t *testing.T) {
	r, jwtMgr := setupTestRouter()

	token, err := jwtMgr.Generate("test-user-id")
	if err != nil {
		t.Fatalf("签发令牌失败: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: cookie.SessionCookieName, Value: token})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
}

// 受保护路由没有会话时是 401——对照组，确认只有登出被放开
func TestRouter_ProtectedRoutesRequireSession(t *testing.T) {
	r, _ := setupTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/users/me", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望 401，实际 %d", w.Code)
	}
}
