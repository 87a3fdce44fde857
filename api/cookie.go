package api

import (
	"net/http"

	"budget/config"
	"budget/middleware"

	"github.com/gin-gonic/gin"
)

// getCookieOptions 根据运行模式返回 Cookie 的安全选项
// release 模式下启用 Secure，SameSite 固定为 Lax
func getCookieOptions() (secure bool, sameSite http.SameSite) {
	secure = config.IsRelease()
	sameSite = http.SameSiteLaxMode
	return
}

func cookieDomain() string {
	if cfg := config.GlobalConfig; cfg != nil {
		return cfg.JWT.CookieDomain
	}
	return ""
}

// setTokenCookie 写入 httpOnly 的 token cookie，maxAge 单位为秒
func setTokenCookie(c *gin.Context, token string, maxAge int) {
	secure, sameSite := getCookieOptions()
	c.SetSameSite(sameSite)
	c.SetCookie(middleware.CookieName(), token, maxAge, "/", cookieDomain(), secure, true)
}

// clearTokenCookie 删除 token cookie
func clearTokenCookie(c *gin.Context) {
	setTokenCookie(c, "", -1)
}
