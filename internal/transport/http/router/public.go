package router

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"nexline-site/internal/core/cache"
	"nexline-site/internal/domain"
	"nexline-site/internal/transport/http/ez"
	"nexline-site/internal/validate"
	"nexline-site/pkg/utils"
)

// cached 穿透读：未配 Redis 时直接回源
func cached[T any](c *gin.Context, d *Deps, key string, load func(ctx context.Context) (*T, error)) (*T, error) {
	if d.Cache == nil {
		return load(c)
	}
	return cache.GetOrLoadJSON(d.Cache, c, key, d.ttl(), load)
}

// mountPublic 公开读 + 联系表单。公开列表不含未发布/停用记录。
func mountPublic(api *gin.RouterGroup, d *Deps) {
	e := ez.New(api)

	ez.RegisterAction[struct{}, []domain.Partner](e, d.DB, ez.Action[struct{}, []domain.Partner]{
		Method: http.MethodGet,
		Path:   "/partners",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) ([]domain.Partner, error) {
			out, err := cached(c, d, cache.KeyPartners, func(ctx context.Context) (*[]domain.Partner, error) {
				var ps []domain.Partner
				if err := tx.Order("name").Find(&ps).Error; err != nil {
					return nil, err
				}
				return &ps, nil
			})
			if err != nil {
				return nil, ez.Internal("list partners failed", err)
			}
			return *out, nil
		},
	})

	ez.RegisterAction[struct{}, []domain.Service](e, d.DB, ez.Action[struct{}, []domain.Service]{
		Method: http.MethodGet,
		Path:   "/services",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) ([]domain.Service, error) {
			out, err := cached(c, d, cache.KeyServices, func(ctx context.Context) (*[]domain.Service, error) {
				var ss []domain.Service
				if err := tx.Where("active = ?", true).Order("display_order").Find(&ss).Error; err != nil {
					return nil, err
				}
				return &ss, nil
			})
			if err != nil {
				return nil, ez.Internal("list services failed", err)
			}
			return *out, nil
		},
	})

	type blogRow struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Slug     string `json:"slug"`
		Summary  string `json:"summary"`
		Category string `json:"category"`
	}
	ez.RegisterAction[struct{}, []blogRow](e, d.DB, ez.Action[struct{}, []blogRow]{
		Method: http.MethodGet,
		Path:   "/blogs",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) ([]blogRow, error) {
			out, err := cached(c, d, cache.KeyBlogs, func(ctx context.Context) (*[]blogRow, error) {
				var posts []domain.BlogPost
				if err := tx.Where("published = ?", true).Order("created_at desc").Find(&posts).Error; err != nil {
					return nil, err
				}
				rows := make([]blogRow, 0, len(posts))
				for _, p := range posts {
					rows = append(rows, blogRow{ID: p.ID, Title: p.Title, Slug: p.Slug, Summary: p.Summary, Category: p.Category})
				}
				return &rows, nil
			})
			if err != nil {
				return nil, ez.Internal("list blogs failed", err)
			}
			return *out, nil
		},
	})

	ez.RegisterAction[struct{}, *domain.BlogPost](e, d.DB, ez.Action[struct{}, *domain.BlogPost]{
		Method: http.MethodGet,
		Path:   "/blogs/:slug",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (*domain.BlogPost, error) {
			slug := c.Param("slug")
			out, err := cached(c, d, cache.KeyBlog(slug), func(ctx context.Context) (*domain.BlogPost, error) {
				var p domain.BlogPost
				err := tx.Where("slug = ? AND published = ?", slug, true).First(&p).Error
				if err != nil {
					return nil, err
				}
				return &p, nil
			})
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ez.NotFound("post not found")
			}
			if err != nil {
				return nil, ez.Internal("load post failed", err)
			}
			if out == nil {
				return nil, ez.NotFound("post not found")
			}
			return out, nil
		},
	})

	ez.RegisterAction[struct{}, []domain.Career](e, d.DB, ez.Action[struct{}, []domain.Career]{
		Method: http.MethodGet,
		Path:   "/careers",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) ([]domain.Career, error) {
			var cs []domain.Career
			if err := tx.Where("published = ?", true).Order("created_at desc").Find(&cs).Error; err != nil {
				return nil, ez.Internal("list careers failed", err)
			}
			return cs, nil
		},
	})

	// 投递简历：简历只存外链，不做文件存储
	ez.RegisterAction[validate.ApplicationInput, *domain.Application](e, d.DB, ez.Action[validate.ApplicationInput, *domain.Application]{
		Method: http.MethodPost,
		Path:   "/careers/:id/apply",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, tx *gorm.DB, in *validate.ApplicationInput) (*domain.Application, error) {
			var career domain.Career
			err := tx.Where("id = ? AND published = ?", c.Param("id"), true).First(&career).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ez.NotFound("career not found")
			}
			if err != nil {
				return nil, ez.Internal("load career failed", err)
			}
			if err := in.Validate(); err != nil {
				return nil, err
			}
			app := in.Model(utils.NewID(), career.ID)
			if err := tx.Create(app).Error; err != nil {
				return nil, ez.Internal("save application failed", err)
			}
			return app, nil
		},
	})

	// 联系表单：落库后异步通知管理员，通知失败不影响请求
	ez.RegisterAction[validate.ContactMessageInput, *domain.ContactMessage](e, d.DB, ez.Action[validate.ContactMessageInput, *domain.ContactMessage]{
		Method: http.MethodPost,
		Path:   "/contact",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, tx *gorm.DB, in *validate.ContactMessageInput) (*domain.ContactMessage, error) {
			if err := in.Validate(); err != nil {
				return nil, err
			}
			m := in.Model(utils.NewID())
			if err := tx.Create(m).Error; err != nil {
				return nil, ez.Internal("save message failed", err)
			}
			go d.Notify.ContactMessage(m)
			return m, nil
		},
	})
}
