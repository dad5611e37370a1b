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

// NewAPIEngine 用户侧引擎：公开站点读 + 登录后的工作台
func NewAPIEngine(d *Deps) *gin.Engine {
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

	api := r.Group("/api")

	mountPublic(api, d)
	mountAuthActions(api, d)

	// 工作台：登录后可见，按归属过滤
	dash := api.Group("")
	dash.Use(mdw.AuthJWT(d.JWT, auth.RequireAuth))
	mountDashboard(dash, d)

	return r
}
