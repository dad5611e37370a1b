package service

import (
	"fmt"
	"strings"

	"nexline-site/internal/domain"
	"nexline-site/internal/validate"
	"nexline-site/pkg/utils"
)

var (
	ErrDuplicateUser      = fmt.Errorf("username or email already taken")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrUserBlocked        = fmt.Errorf("account blocked")
)

type UserService struct {
	users domain.UserRepository
}

func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

type RegisterInput struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Email    string `json:"email"    binding:"required,email"`
	Phone    string `json:"phone"    binding:"omitempty,max=32"`
	Password string `json:"password" binding:"required,min=8"`
}

func (s *UserService) Register(in RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if u, err := s.users.FindByUsername(username); err != nil {
		return nil, err
	} else if u != nil {
		return nil, ErrDuplicateUser
	}
	if u, err := s.users.FindByEmail(email); err != nil {
		return nil, err
	} else if u != nil {
		return nil, ErrDuplicateUser
	}

	u := &domain.User{
		ID:           utils.NewID(),
		Username:     username,
		Email:        email,
		Phone:        validate.NormalizeOptional(in.Phone),
		PasswordHash: utils.HashPassword(in.Password),
		// isAdmin / isVerified / isBlocked 默认 false
	}
	if err := s.users.Create(u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate 用户名或邮箱 + 密码；被封禁账号拒绝登录
func (s *UserService) Authenticate(login, password string) (*domain.User, error) {
	login = strings.TrimSpace(login)
	u, err := s.users.FindByUsername(login)
	if err != nil {
		return nil, err
	}
	if u == nil {
		u, err = s.users.FindByEmail(strings.ToLower(login))
		if err != nil {
			return nil, err
		}
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if u.IsBlocked {
		return nil, ErrUserBlocked
	}
	return u, nil
}

func (s *UserService) Get(id string) (*domain.User, error) { return s.users.FindByID(id) }

func (s *UserService) SetBlocked(id string, blocked bool) error {
	u, err := s.users.FindByID(id)
	if err != nil {
		return err
	}
	if u == nil {
		return fmt.Errorf("user not found")
	}
	u.IsBlocked = blocked
	return s.users.Update(u)
}

func (s *UserService) SetVerified(id string, verified bool) error {
	u, err := s.users.FindByID(id)
	if err != nil {
		return err
	}
	if u == nil {
		return fmt.Errorf("user not found")
	}
	u.IsVerified = verified
	return s.users.Update(u)
}
