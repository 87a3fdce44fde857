package service

import (
	"context"
	"errors"
	"strings"

	"budget/logger"
	"budget/models"
	"budget/store"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials 邮箱或密码错误
var ErrInvalidCredentials = errors.New("invalid email or password")

// DemoUsers 种子数据中的演示账号，密码均为 123456
var DemoUsers = []string{"admin1@example.com", "admin2@example.com"}

// DemoPassword 演示账号密码
const DemoPassword = "123456"

// AuthService 登录与账号初始化
type AuthService struct {
	store store.Store
	cost  int
}

// NewAuthService 创建认证服务
func NewAuthService(s store.Store) *AuthService {
	return &AuthService{store: s, cost: bcrypt.DefaultCost}
}

// Login 校验邮箱和密码，失败时统一返回 ErrInvalidCredentials
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.store.Users().FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Register 创建用户，邮箱重复时返回 Conflict
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || len(password) < 6 {
		return nil, validationf("email is required and password must be at least 6 characters")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}
	u := &models.User{Email: email, Password: string(hashed)}
	if err := s.store.Users().Insert(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, conflict("User already exists")
		}
		return nil, err
	}
	return u, nil
}

// Profile 返回用户信息
func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	u, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, notFound("User not found")
	}
	return u, nil
}

// Seed 用户表为空时写入演示账号，返回新建的账号数
func (s *AuthService) Seed(ctx context.Context) (int, error) {
	n, err := s.store.Users().Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.FromContext(ctx).Info().Int64("users", n).Msg("users table already seeded")
		return 0, nil
	}
	created := 0
	for _, email := range DemoUsers {
		if _, err := s.Register(ctx, email, DemoPassword); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
