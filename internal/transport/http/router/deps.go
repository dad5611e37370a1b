package router

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"nexline-site/internal/core/auth"
	"nexline-site/internal/core/cache"
	"nexline-site/internal/notify"
	"nexline-site/internal/service"
)

// Deps 两个引擎共用的装配依赖；Cache / Notify 可为 nil
type Deps struct {
	Log      *zap.Logger
	DB       *gorm.DB
	JWT      *auth.JWTer
	Cache    *cache.Cache
	CacheTTL time.Duration
	Users    *service.UserService
	Invoices *service.InvoiceService
	Notify   *notify.Telegram
}

func (d *Deps) ttl() time.Duration {
	if d.CacheTTL > 0 {
		return d.CacheTTL
	}
	return time.Minute
}
