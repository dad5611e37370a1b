package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"nexline-site/internal/domain"
	"nexline-site/internal/transport/http/ez"
)

// MountAdminUsers 用户管理：列表/详情/封禁/解封/认证
func MountAdminUsers(admin *gin.RouterGroup, d *Deps) {
	e := ez.New(admin)

	// --- 用户列表 ---
	type listQ struct {
		Offset int    `form:"offset,default=0"`
		Limit  int    `form:"limit,default=20"`
		Q      string `form:"q"` // 按 username/email 模糊搜
	}
	type row struct {
		ID         string    `json:"id"`
		Username   string    `json:"username"`
		Email      string    `json:"email"`
		Phone      string    `json:"phone"`
		IsAdmin    bool      `json:"isAdmin"`
		IsVerified bool      `json:"isVerified"`
		IsBlocked  bool      `json:"isBlocked"`
		CreatedAt  time.Time `json:"createdAt"`
	}
	type listOut struct {
		Total int64 `json:"total"`
		List  []row `json:"list"`
	}

	ez.RegisterAction[listQ, listOut](e, d.DB, ez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, tx *gorm.DB, in *listQ) (listOut, error) {
			if in.Limit <= 0 || in.Limit > 100 {
				in.Limit = 20
			}
			q := tx.Model(&domain.User{})
			if s := strings.TrimSpace(in.Q); s != "" {
				like := "%" + s + "%"
				q = q.Where("username LIKE ? OR email LIKE ?", like, like)
			}

			var total int64
			if err := q.Count(&total).Error; err != nil {
				return listOut{}, ez.Internal("count users failed", err)
			}

			var us []domain.User
			if err := q.Order("created_at DESC").Limit(in.Limit).Offset(in.Offset).Find(&us).Error; err != nil {
				return listOut{}, ez.Internal("list users failed", err)
			}

			out := listOut{Total: total, List: make([]row, 0, len(us))}
			for _, u := range us {
				out.List = append(out.List, row{
					ID: u.ID, Username: u.Username, Email: u.Email, Phone: u.Phone,
					IsAdmin: u.IsAdmin, IsVerified: u.IsVerified, IsBlocked: u.IsBlocked,
					CreatedAt: u.CreatedAt,
				})
			}
			return out, nil
		},
	})

	ez.RegisterAction[struct{}, *domain.User](e, d.DB, ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (*domain.User, error) {
			u, err := d.Users.Get(c.Param("id"))
			if err != nil {
				return nil, ez.Internal("db error", err)
			}
			if u == nil {
				return nil, ez.NotFound("user not found")
			}
			return u, nil
		},
	})

	ez.RegisterAction[struct{}, gin.H](e, d.DB, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			res := tx.Delete(&domain.User{}, "id = ?", id)
			if res.Error != nil {
				return nil, ez.Internal("delete user failed", res.Error)
			}
			if res.RowsAffected == 0 {
				return nil, ez.NotFound("user not found")
			}
			return gin.H{"id": id}, nil
		},
	})

	flagAction := func(path string, apply func(id string) error) {
		ez.RegisterAction[struct{}, gin.H](e, d.DB, ez.Action[struct{}, gin.H]{
			Method: http.MethodPost,
			Path:   path,
			Binder: ez.BindNone,
			Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (gin.H, error) {
				id := c.Param("id")
				if err := apply(id); err != nil {
					return nil, ez.NotFound(err.Error())
				}
				return gin.H{"id": id}, nil
			},
		})
	}

	flagAction("/users/:id/block", func(id string) error { return d.Users.SetBlocked(id, true) })
	flagAction("/users/:id/unblock", func(id string) error { return d.Users.SetBlocked(id, false) })
	flagAction("/users/:id/verify", func(id string) error { return d.Users.SetVerified(id, true) })
}
