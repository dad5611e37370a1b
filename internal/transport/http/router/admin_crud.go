package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"nexline-site/internal/core/cache"
	"nexline-site/internal/domain"
	"nexline-site/internal/transport/http/ez"
	"nexline-site/internal/validate"
	"nexline-site/pkg/utils"
)

// invalidate 按静态失效表删缓存键；失败记日志不影响响应
func (d *Deps) invalidate(ctx context.Context, m cache.Mutation, sc cache.Scope) {
	if d.Cache == nil {
		return
	}
	if err := d.Cache.Invalidate(ctx, cache.KeysFor(m, sc)...); err != nil {
		d.Log.Warn("cache invalidate failed", zap.String("mutation", string(m)), zap.Error(err))
	}
}

// MountAdminCrud 内容类实体的管理端 CRUD。管理端列表不过滤
// published/active，全量可见。
func MountAdminCrud(admin *gin.RouterGroup, d *Deps) {
	e := ez.New(admin)

	// --- 博客 ---
	ez.Crud(ez.CrudConfig[domain.BlogPost]{
		DB:      d.DB,
		Group:   admin,
		Path:    "/blogs",
		New:     func() *domain.BlogPost { return &domain.BlogPost{} },
		OrderBy: "created_at DESC",
		Hooks: ez.CrudHooks[domain.BlogPost]{
			BeforeCreate: func(c *gin.Context, m *domain.BlogPost) error {
				var es validate.Errors
				validate.Required(&es, "title", m.Title)
				validate.Required(&es, "slug", m.Slug)
				return es.OrNil()
			},
			AfterWrite: func(c *gin.Context, m *domain.BlogPost) {
				d.invalidate(c, cache.MutBlogWrite, cache.Scope{Slug: m.Slug})
			},
		},
	})

	// --- 合作伙伴 ---
	// 创建/更新走显式校验动作（name≥2、logo 必须 URL、website 可空）
	ez.Crud(ez.CrudConfig[domain.Partner]{
		DB:          d.DB,
		Group:       admin,
		Path:        "/partners",
		New:         func() *domain.Partner { return &domain.Partner{} },
		AllowList:   true,
		AllowGet:    true,
		AllowDelete: true,
		OrderBy:     "name",
		Hooks: ez.CrudHooks[domain.Partner]{
			AfterWrite: func(c *gin.Context, _ *domain.Partner) {
				d.invalidate(c, cache.MutPartnerWrite, cache.Scope{})
			},
		},
	})

	ez.RegisterAction[validate.PartnerInput, *domain.Partner](e, d.DB, ez.Action[validate.PartnerInput, *domain.Partner]{
		Method: http.MethodPost,
		Path:   "/partners",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, tx *gorm.DB, in *validate.PartnerInput) (*domain.Partner, error) {
			if err := in.Validate(); err != nil {
				return nil, err
			}
			p := in.Model(utils.NewID())
			if err := tx.Create(p).Error; err != nil {
				return nil, ez.Internal("save partner failed", err)
			}
			d.invalidate(c, cache.MutPartnerWrite, cache.Scope{})
			return p, nil
		},
	})

	ez.RegisterAction[validate.PartnerInput, *domain.Partner](e, d.DB, ez.Action[validate.PartnerInput, *domain.Partner]{
		Method: http.MethodPut,
		Path:   "/partners/:id",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, tx *gorm.DB, in *validate.PartnerInput) (*domain.Partner, error) {
			if err := in.Validate(); err != nil {
				return nil, err
			}
			p := in.Model(c.Param("id"))
			res := tx.Model(&domain.Partner{}).Where("id = ?", p.ID).
				Select("name", "logo_url", "website_url").Updates(p)
			if res.Error != nil {
				return nil, ez.Internal("update partner failed", res.Error)
			}
			if res.RowsAffected == 0 {
				return nil, ez.NotFound("partner not found")
			}
			d.invalidate(c, cache.MutPartnerWrite, cache.Scope{})
			return p, nil
		},
	})

	// --- 服务项 ---
	ez.Crud(ez.CrudConfig[domain.Service]{
		DB:      d.DB,
		Group:   admin,
		Path:    "/services",
		New:     func() *domain.Service { return &domain.Service{} },
		OrderBy: "display_order",
		Hooks: ez.CrudHooks[domain.Service]{
			BeforeCreate: func(c *gin.Context, m *domain.Service) error {
				var es validate.Errors
				validate.Required(&es, "title", m.Title)
				validate.Required(&es, "slug", m.Slug)
				return es.OrNil()
			},
			AfterWrite: func(c *gin.Context, _ *domain.Service) {
				d.invalidate(c, cache.MutServiceWrite, cache.Scope{})
			},
		},
	})

	// --- 联系消息：只读 + 已读标记，不提供创建 ---
	ez.Crud(ez.CrudConfig[domain.ContactMessage]{
		DB:          d.DB,
		Group:       admin,
		Path:        "/messages",
		New:         func() *domain.ContactMessage { return &domain.ContactMessage{} },
		AllowList:   true,
		AllowGet:    true,
		AllowDelete: true,
		OrderBy:     "created_at DESC",
	})

	ez.RegisterAction[struct{}, gin.H](e, d.DB, ez.Action[struct{}, gin.H]{
		Method: http.MethodPut,
		Path:   "/messages/:id/read",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (gin.H, error) {
			res := tx.Model(&domain.ContactMessage{}).Where("id = ?", c.Param("id")).Update("is_read", true)
			if res.Error != nil {
				return nil, ez.Internal("mark read failed", res.Error)
			}
			if res.RowsAffected == 0 {
				return nil, ez.NotFound("message not found")
			}
			return gin.H{"id": c.Param("id")}, nil
		},
	})

	// --- 招聘 ---
	ez.Crud(ez.CrudConfig[domain.Career]{
		DB:      d.DB,
		Group:   admin,
		Path:    "/careers",
		New:     func() *domain.Career { return &domain.Career{} },
		OrderBy: "created_at DESC",
		Hooks: ez.CrudHooks[domain.Career]{
			BeforeCreate: func(c *gin.Context, m *domain.Career) error {
				var es validate.Errors
				validate.Required(&es, "title", m.Title)
				return es.OrNil()
			},
		},
	})

	// --- 投递：列表（可按 careerId 过滤）+ 状态流转 ---
	ez.Crud(ez.CrudConfig[domain.Application]{
		DB:          d.DB,
		Group:       admin,
		Path:        "/applications",
		New:         func() *domain.Application { return &domain.Application{} },
		AllowList:   true,
		AllowGet:    true,
		AllowDelete: true,
		OrderBy:     "created_at DESC",
		Hooks: ez.CrudHooks[domain.Application]{
			ScopeList: func(c *gin.Context, q *gorm.DB) *gorm.DB {
				if careerID := c.Query("careerId"); careerID != "" {
					q = q.Where("career_id = ?", careerID)
				}
				return q
			},
		},
	})

	type statusIn struct {
		Status string `json:"status" binding:"required"`
	}
	ez.RegisterAction[statusIn, gin.H](e, d.DB, ez.Action[statusIn, gin.H]{
		Method: http.MethodPut,
		Path:   "/applications/:id/status",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, tx *gorm.DB, in *statusIn) (gin.H, error) {
			st, err := domain.ParseApplicationStatus(in.Status)
			if err != nil {
				return nil, ez.BadRequest(err.Error())
			}
			res := tx.Model(&domain.Application{}).Where("id = ?", c.Param("id")).Update("status", st)
			if res.Error != nil {
				return nil, ez.Internal("update status failed", res.Error)
			}
			if res.RowsAffected == 0 {
				return nil, ez.NotFound("application not found")
			}
			return gin.H{"id": c.Param("id"), "status": st, "label": st.Label()}, nil
		},
	})

	// --- 项目：全量 CRUD + 追加进度更新 ---
	ez.Crud(ez.CrudConfig[domain.Project]{
		DB:      d.DB,
		Group:   admin,
		Path:    "/projects",
		New:     func() *domain.Project { return &domain.Project{} },
		OrderBy: "created_at DESC",
		Hooks: ez.CrudHooks[domain.Project]{
			BeforeCreate: func(c *gin.Context, m *domain.Project) error {
				var es validate.Errors
				validate.Required(&es, "userId", m.UserID)
				validate.Required(&es, "title", m.Title)
				validate.Range(&es, "completionPercentage", m.CompletionPercentage, 0, 100)
				if m.Status == "" {
					m.Status = domain.ProjectPlanning
				} else if _, err := domain.ParseProjectStatus(string(m.Status)); err != nil {
					es.Add("status", "%v", err)
				}
				return es.OrNil()
			},
			BeforeUpdate: func(c *gin.Context, m *domain.Project) error {
				var es validate.Errors
				validate.Range(&es, "completionPercentage", m.CompletionPercentage, 0, 100)
				if m.Status != "" {
					if _, err := domain.ParseProjectStatus(string(m.Status)); err != nil {
						es.Add("status", "%v", err)
					}
				}
				return es.OrNil()
			},
			AfterWrite: func(c *gin.Context, m *domain.Project) {
				d.invalidate(c, cache.MutProjectWrite, cache.Scope{ProjectID: m.ID, UserID: m.UserID})
			},
		},
	})

	type updateIn struct {
		Title                string `json:"title" binding:"required"`
		Description          string `json:"description"`
		CompletionPercentage *int   `json:"completionPercentage"`
		Status               string `json:"status"`
	}
	ez.RegisterAction[updateIn, *domain.ProjectUpdate](e, d.DB, ez.Action[updateIn, *domain.ProjectUpdate]{
		Method: http.MethodPost,
		Path:   "/projects/:id/updates",
		Binder: ez.BindJSON,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, in *updateIn) (*domain.ProjectUpdate, error) {
			var p domain.Project
			if err := tx.First(&p, "id = ?", c.Param("id")).Error; err != nil {
				return nil, ez.NotFound("project not found")
			}

			u := &domain.ProjectUpdate{
				ID:                   utils.NewID(),
				ProjectID:            p.ID,
				Title:                in.Title,
				Description:          in.Description,
				CompletionPercentage: in.CompletionPercentage,
			}
			if in.Status != "" {
				st, err := domain.ParseProjectStatus(in.Status)
				if err != nil {
					return nil, ez.BadRequest(err.Error())
				}
				u.Status = &st
			}
			if in.CompletionPercentage != nil {
				var es validate.Errors
				validate.Range(&es, "completionPercentage", *in.CompletionPercentage, 0, 100)
				if err := es.OrNil(); err != nil {
					return nil, err
				}
			}
			if err := tx.Create(u).Error; err != nil {
				return nil, ez.Internal("save update failed", err)
			}

			// 同步项目当前进度/状态
			if u.CompletionPercentage != nil {
				p.CompletionPercentage = *u.CompletionPercentage
			}
			if u.Status != nil {
				p.Status = *u.Status
			}
			if err := tx.Save(&p).Error; err != nil {
				return nil, ez.Internal("sync project failed", err)
			}
			d.invalidate(c, cache.MutProjectWrite, cache.Scope{ProjectID: p.ID, UserID: p.UserID})
			return u, nil
		},
	})
}
