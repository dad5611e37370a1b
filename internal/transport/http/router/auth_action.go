package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"nexline-site/internal/core/auth"
	"nexline-site/internal/domain"
	"nexline-site/internal/service"
	"nexline-site/internal/transport/http/ez"
	mdw "nexline-site/internal/transport/http/middleware"
)

type userOut struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	IsAdmin    bool   `json:"isAdmin"`
	IsVerified bool   `json:"isVerified"`
}

func toUserOut(u *domain.User) userOut {
	return userOut{
		ID: u.ID, Username: u.Username, Email: u.Email, Phone: u.Phone,
		IsAdmin: u.IsAdmin, IsVerified: u.IsVerified,
	}
}

// mountAuthActions /auth/register、/auth/login（公开）和 /me（登录后）
func mountAuthActions(api *gin.RouterGroup, d *Deps) {
	ezPublic := ez.New(api)

	type authOut struct {
		Token string  `json:"token"`
		User  userOut `json:"user"`
	}

	ez.RegisterAction[service.RegisterInput, authOut](ezPublic, d.DB, ez.Action[service.RegisterInput, authOut]{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *service.RegisterInput) (authOut, error) {
			u, err := d.Users.Register(*in)
			if err != nil {
				if errors.Is(err, service.ErrDuplicateUser) {
					return authOut{}, ez.BadRequest(err.Error())
				}
				return authOut{}, ez.Internal("register failed", err)
			}
			tok, err := d.JWT.Issue(u.ID, u.Role(), u.Username)
			if err != nil || tok == "" {
				return authOut{}, ez.Internal("issue token failed", err)
			}
			return authOut{Token: tok, User: toUserOut(u)}, nil
		},
	})

	type loginIn struct {
		Login    string `json:"login"    binding:"required"` // 用户名或邮箱
		Password string `json:"password" binding:"required"`
	}
	ez.RegisterAction[loginIn, authOut](ezPublic, d.DB, ez.Action[loginIn, authOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *loginIn) (authOut, error) {
			u, err := d.Users.Authenticate(in.Login, in.Password)
			switch {
			case errors.Is(err, service.ErrInvalidCredentials):
				return authOut{}, ez.Unauthorized("invalid credentials")
			case errors.Is(err, service.ErrUserBlocked):
				return authOut{}, ez.Forbidden("account blocked")
			case err != nil:
				return authOut{}, ez.Internal("login failed", err)
			}
			tok, err := d.JWT.Issue(u.ID, u.Role(), u.Username)
			if err != nil || tok == "" {
				return authOut{}, ez.Internal("issue token failed", err)
			}
			return authOut{Token: tok, User: toUserOut(u)}, nil
		},
	})

	// /me 必须挂在带鉴权中间件的分组
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(d.JWT, auth.RequireAuth))
	ezAuth := ez.New(authed)

	ez.RegisterAction[struct{}, userOut](ezAuth, d.DB, ez.Action[struct{}, userOut]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (userOut, error) {
			u, err := d.Users.Get(c.GetString("userId"))
			if err != nil {
				return userOut{}, ez.Internal("db error", err)
			}
			if u == nil {
				return userOut{}, ez.NotFound("user not found")
			}
			return toUserOut(u), nil
		},
	})
}
