package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"nexline-site/internal/domain"
	"nexline-site/internal/transport/http/ez"
)

// MountAdminStats 管理端首页的计数看板
func MountAdminStats(admin *gin.RouterGroup, d *Deps) {
	e := ez.New(admin)

	type statsOut struct {
		Users            int64            `json:"users"`
		BlockedUsers     int64            `json:"blockedUsers"`
		Projects         int64            `json:"projects"`
		ProjectsByStatus map[string]int64 `json:"projectsByStatus"`
		UnreadMessages   int64            `json:"unreadMessages"`
		UnpaidInvoices   int64            `json:"unpaidInvoices"`
		PendingApps      int64            `json:"pendingApplications"`
		PublishedBlogs   int64            `json:"publishedBlogs"`
	}

	ez.RegisterAction[struct{}, statsOut](e, d.DB, ez.Action[struct{}, statsOut]{
		Method: http.MethodGet,
		Path:   "/stats",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (statsOut, error) {
			var out statsOut
			count := func(dst *int64, q *gorm.DB) error {
				return q.Count(dst).Error
			}

			steps := []func() error{
				func() error { return count(&out.Users, tx.Model(&domain.User{})) },
				func() error { return count(&out.BlockedUsers, tx.Model(&domain.User{}).Where("is_blocked = ?", true)) },
				func() error { return count(&out.Projects, tx.Model(&domain.Project{})) },
				func() error {
					return count(&out.UnreadMessages, tx.Model(&domain.ContactMessage{}).Where("is_read = ?", false))
				},
				func() error {
					return count(&out.UnpaidInvoices, tx.Model(&domain.Invoice{}).Where("status = ?", domain.InvoiceUnpaid))
				},
				func() error {
					return count(&out.PendingApps, tx.Model(&domain.Application{}).Where("status = ?", domain.ApplicationPending))
				},
				func() error {
					return count(&out.PublishedBlogs, tx.Model(&domain.BlogPost{}).Where("published = ?", true))
				},
			}
			for _, step := range steps {
				if err := step(); err != nil {
					return statsOut{}, ez.Internal("stats query failed", err)
				}
			}

			out.ProjectsByStatus = make(map[string]int64, len(domain.ProjectStatuses()))
			type grp struct {
				Status string
				N      int64
			}
			var rows []grp
			if err := tx.Model(&domain.Project{}).
				Select("status, COUNT(*) AS n").Group("status").Scan(&rows).Error; err != nil {
				return statsOut{}, ez.Internal("stats query failed", err)
			}
			for _, st := range domain.ProjectStatuses() {
				out.ProjectsByStatus[string(st)] = 0
			}
			for _, r := range rows {
				out.ProjectsByStatus[r.Status] = r.N
			}
			return out, nil
		},
	})
}
