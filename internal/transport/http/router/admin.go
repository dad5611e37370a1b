package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nexline-site/internal/core/auth"
	"nexline-site/internal/core/server"
	mdw "nexline-site/internal/transport/http/middleware"
)

// NewAdminEngine 后台引擎：/api/admin 整组要求 admin 角色。
// 匿名会话重定向 /auth，已登录非管理员重定向 /（§门禁语义），
// 每次请求重新评估，登出立即生效。
func NewAdminEngine(d *Deps) *gin.Engine {
	r := server.NewEngine(d.Log)

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		mdw.SimpleRecovery(),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	admin := r.Group("/api/admin")
	admin.Use(mdw.GateRedirect(d.JWT, auth.RequireAdmin))

	MountAdminCrud(admin, d)
	MountAdminUsers(admin, d)
	MountAdminInvoices(admin, d)
	MountAdminStats(admin, d)

	return r
}
