package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"nexline-site/internal/domain"
	"nexline-site/internal/service"
	"nexline-site/internal/transport/http/ez"
)

// mountDashboard 登录用户的工作台：自己的项目、项目进度、发票
func mountDashboard(g *gin.RouterGroup, d *Deps) {
	e := ez.New(g)

	ez.RegisterAction[struct{}, []domain.Project](e, d.DB, ez.Action[struct{}, []domain.Project]{
		Method: http.MethodGet,
		Path:   "/projects",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) ([]domain.Project, error) {
			var ps []domain.Project
			err := tx.Where("user_id = ?", c.GetString("userId")).Order("created_at desc").Find(&ps).Error
			if err != nil {
				return nil, ez.Internal("list projects failed", err)
			}
			return ps, nil
		},
	})

	// ownedProject 归属校验；别人的项目按不存在处理
	ownedProject := func(c *gin.Context, tx *gorm.DB) (*domain.Project, error) {
		var p domain.Project
		err := tx.Where("id = ? AND user_id = ?", c.Param("id"), c.GetString("userId")).First(&p).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ez.NotFound("project not found")
		}
		if err != nil {
			return nil, ez.Internal("load project failed", err)
		}
		return &p, nil
	}

	ez.RegisterAction[struct{}, *domain.Project](e, d.DB, ez.Action[struct{}, *domain.Project]{
		Method: http.MethodGet,
		Path:   "/projects/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (*domain.Project, error) {
			return ownedProject(c, tx)
		},
	})

	ez.RegisterAction[struct{}, []domain.ProjectUpdate](e, d.DB, ez.Action[struct{}, []domain.ProjectUpdate]{
		Method: http.MethodGet,
		Path:   "/projects/:id/updates",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) ([]domain.ProjectUpdate, error) {
			if _, err := ownedProject(c, tx); err != nil {
				return nil, err
			}
			var us []domain.ProjectUpdate
			if err := tx.Where("project_id = ?", c.Param("id")).Order("created_at desc").Find(&us).Error; err != nil {
				return nil, ez.Internal("list updates failed", err)
			}
			return us, nil
		},
	})

	ez.RegisterAction[struct{}, []domain.Invoice](e, d.DB, ez.Action[struct{}, []domain.Invoice]{
		Method: http.MethodGet,
		Path:   "/projects/:id/invoices",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) ([]domain.Invoice, error) {
			invs, err := d.Invoices.ListUserInvoices(c, c.GetString("userId"), service.ListOptions{
				ProjectID: c.Param("id"),
			})
			if errors.Is(err, service.ErrProjectNotFound) || errors.Is(err, service.ErrNotOwner) {
				return nil, ez.NotFound("project not found")
			}
			if err != nil {
				return nil, ez.Internal("list invoices failed", err)
			}
			return invs, nil
		},
	})

	// 全部项目扇出 + 三个独立过滤条件（q / status / projectId）
	type invoiceQ struct {
		Q         string `form:"q"`
		Status    string `form:"status"`
		ProjectID string `form:"projectId"`
	}
	ez.RegisterAction[invoiceQ, []domain.Invoice](e, d.DB, ez.Action[invoiceQ, []domain.Invoice]{
		Method: http.MethodGet,
		Path:   "/invoices",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, tx *gorm.DB, in *invoiceQ) ([]domain.Invoice, error) {
			invs, err := d.Invoices.ListUserInvoices(c, c.GetString("userId"), service.ListOptions{
				ProjectID: in.ProjectID,
				Status:    in.Status,
				Query:     in.Q,
			})
			if errors.Is(err, service.ErrProjectNotFound) || errors.Is(err, service.ErrNotOwner) {
				return nil, ez.NotFound("project not found")
			}
			if err != nil {
				return nil, ez.Internal("list invoices failed", err)
			}
			return invs, nil
		},
	})
}
