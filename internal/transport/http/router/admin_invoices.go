package router

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"nexline-site/internal/core/cache"
	"nexline-site/internal/domain"
	"nexline-site/internal/service"
	"nexline-site/internal/transport/http/ez"
	"nexline-site/internal/validate"
	"nexline-site/pkg/utils"
)

// MountAdminInvoices 发票与收款的管理端入口。
// 创建/状态流转走显式校验动作，列表/详情/删除复用通用 CRUD。
func MountAdminInvoices(admin *gin.RouterGroup, d *Deps) {
	e := ez.New(admin)

	ez.Crud(ez.CrudConfig[domain.Invoice]{
		DB:          d.DB,
		Group:       admin,
		Path:        "/invoices",
		New:         func() *domain.Invoice { return &domain.Invoice{} },
		AllowList:   true,
		AllowGet:    true,
		AllowDelete: true,
		OrderBy:     "issue_date DESC",
		Hooks: ez.CrudHooks[domain.Invoice]{
			ScopeList: func(c *gin.Context, tx *gorm.DB) *gorm.DB {
				if pid := strings.TrimSpace(c.Query("projectId")); pid != "" {
					tx = tx.Where("project_id = ?", pid)
				}
				if st := strings.TrimSpace(c.Query("status")); st != "" {
					tx = tx.Where("status = ?", st)
				}
				return tx
			},
			AfterWrite: func(c *gin.Context, m *domain.Invoice) {
				d.invalidate(c, cache.MutInvoiceWrite, cache.Scope{ProjectID: m.ProjectID})
			},
		},
	})

	ez.RegisterAction[validate.InvoiceInput, *domain.Invoice](e, d.DB, ez.Action[validate.InvoiceInput, *domain.Invoice]{
		Method: http.MethodPost,
		Path:   "/invoices",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, tx *gorm.DB, in *validate.InvoiceInput) (*domain.Invoice, error) {
			if err := in.Validate(); err != nil {
				return nil, err
			}
			var n int64
			if err := tx.Model(&domain.Project{}).Where("id = ?", in.ProjectID).Count(&n).Error; err != nil {
				return nil, ez.Internal("db error", err)
			}
			if n == 0 {
				return nil, ez.BadRequest("project not found")
			}
			inv := in.Model(utils.NewID())
			if err := tx.Create(inv).Error; err != nil {
				return nil, ez.Internal("save invoice failed", err)
			}
			d.invalidate(c, cache.MutInvoiceWrite, cache.Scope{ProjectID: inv.ProjectID})
			return inv, nil
		},
	})

	type statusIn struct {
		Status string `json:"status"`
	}
	ez.RegisterAction[statusIn, gin.H](e, d.DB, ez.Action[statusIn, gin.H]{
		Method: http.MethodPut,
		Path:   "/invoices/:id/status",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *statusIn) (gin.H, error) {
			id := c.Param("id")
			err := d.Invoices.SetStatus(c, id, in.Status)
			switch {
			case err == nil:
				return gin.H{"id": id, "status": in.Status}, nil
			case errors.Is(err, service.ErrInvoiceNotFound):
				return nil, ez.NotFound("invoice not found")
			default:
				return nil, ez.BadRequest(err.Error())
			}
		},
	})

	ez.RegisterAction[validate.PaymentInput, *domain.Payment](e, d.DB, ez.Action[validate.PaymentInput, *domain.Payment]{
		Method: http.MethodPost,
		Path:   "/invoices/:id/payments",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *validate.PaymentInput) (*domain.Payment, error) {
			p, err := d.Invoices.RecordPayment(c, c.Param("id"), in)
			switch {
			case err == nil:
				return p, nil
			case errors.Is(err, service.ErrInvoiceNotFound):
				return nil, ez.NotFound("invoice not found")
			default:
				return nil, err // validate.Errors 在 WriteError 里转字段级错误
			}
		},
	})

	ez.RegisterAction[struct{}, []domain.Payment](e, d.DB, ez.Action[struct{}, []domain.Payment]{
		Method: http.MethodGet,
		Path:   "/invoices/:id/payments",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) ([]domain.Payment, error) {
			ps, err := d.Invoices.ListPayments(c.Param("id"))
			if err != nil {
				return nil, ez.Internal("list payments failed", err)
			}
			return ps, nil
		},
	})
}
