package api

import (
	"errors"
	"net/http"

	"budget/config"
	"budget/middleware"
	"budget/models"
	"budget/service"

	"github.com/gin-gonic/gin"
)

// UserHandler 登录与当前用户
type UserHandler struct {
	cfg  *config.Config
	auth *service.AuthService
}

// NewUserHandler 创建用户处理器
func NewUserHandler(cfg *config.Config, auth *service.AuthService) *UserHandler {
	return &UserHandler{cfg: cfg, auth: auth}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin1@example.com"`
	Password string `json:"password" binding:"required,min=6" example:"123456"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	AccessToken string      `json:"accessToken"`
	User        models.User `json:"user"`
}

// Login 用户登录
// @Summary 用户登录
// @Description 校验邮箱和密码，签发 JWT 并写入 httpOnly cookie
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录信息"
// @Success 200 {object} Response{data=LoginResponse} "登录成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "邮箱或密码错误"
// @Failure 429 {object} Response "尝试过于频繁"
// @Router /users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		Unauthorized(c, "Invalid email or password")
		return
	}
	if err != nil {
		renderError(c, err, "Login failed")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Email, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to issue token"))
		return
	}
	setTokenCookie(c, token, int(h.cfg.JWT.ExpireTime.Seconds()))

	Success(c, LoginResponse{AccessToken: token, User: *user})
}

// Me 当前用户
// @Summary 当前用户
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.User}
// @Failure 401 {object} Response "未授权"
// @Router /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.auth.Profile(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		renderError(c, err, "Failed to load user")
		return
	}
	Success(c, user)
}

// Logout 退出登录
// @Summary 退出登录
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Router /users/logout [delete]
func (h *UserHandler) Logout(c *gin.Context) {
	clearTokenCookie(c)
	c.JSON(http.StatusOK, Response{Code: http.StatusOK, Message: "Logged out"})
}
