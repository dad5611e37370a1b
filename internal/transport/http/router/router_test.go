package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"nexline-site/internal/core/auth"
	"nexline-site/internal/domain"
	"nexline-site/internal/repo"
	"nexline-site/internal/service"
)

func init() { gin.SetMode(gin.TestMode) }

func newDeps(t *testing.T) *Deps {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "router-test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(domain.AllModels()...); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	log := zap.NewNop()
	users := repo.NewUserRepo(db)
	return &Deps{
		Log:      log,
		DB:       db,
		JWT:      &auth.JWTer{Secret: []byte("router-test-secret-router-test-secret"), Issuer: "test", TTL: time.Hour},
		Users:    service.NewUserService(users),
		Invoices: service.NewInvoiceService(repo.NewProjectRepo(db), repo.NewInvoiceRepo(db), nil, log),
	}
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, h http.Handler, method, path, token, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: bad envelope %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w, env
}

func TestPublicListingsExcludeUnpublished(t *testing.T) {
	d := newDeps(t)
	seedVisibilityFixtures(t, d.DB)
	api := NewAPIEngine(d)

	w, env := doJSON(t, api, http.MethodGet, "/api/blogs", "", "")
	if w.Code != http.StatusOK || env.Code != 0 {
		t.Fatalf("list blogs: http=%d code=%d", w.Code, env.Code)
	}
	var blogs []map[string]any
	if err := json.Unmarshal(env.Data, &blogs); err != nil {
		t.Fatalf("decode blogs: %v", err)
	}
	if len(blogs) != 1 || blogs[0]["slug"] != "public-post" {
		t.Fatalf("public blog list must hold only published posts, got %v", blogs)
	}

	_, env = doJSON(t, api, http.MethodGet, "/api/services", "", "")
	var services []domain.Service
	if err := json.Unmarshal(env.Data, &services); err != nil {
		t.Fatalf("decode services: %v", err)
	}
	if len(services) != 1 || services[0].Slug != "web" {
		t.Fatalf("public service list must hold only active services, got %v", services)
	}

	// 未发布的详情按不存在处理
	_, env = doJSON(t, api, http.MethodGet, "/api/blogs/draft-post", "", "")
	if env.Code != 404 {
		t.Fatalf("unpublished slug must 404 in the envelope, got %d", env.Code)
	}
	_, env = doJSON(t, api, http.MethodGet, "/api/blogs/public-post", "", "")
	if env.Code != 0 {
		t.Fatalf("published slug must resolve, got %d (%s)", env.Code, env.Msg)
	}
}

func TestAdminListingsIncludeEverything(t *testing.T) {
	d := newDeps(t)
	seedVisibilityFixtures(t, d.DB)
	adminEngine := NewAdminEngine(d)
	tok := issueToken(t, d, "admin-1", "admin")

	_, env := doJSON(t, adminEngine, http.MethodGet, "/api/admin/blogs", tok, "")
	if env.Code != 0 {
		t.Fatalf("admin blog list: code=%d msg=%s", env.Code, env.Msg)
	}
	var listing struct {
		Total int64             `json:"total"`
		List  []domain.BlogPost `json:"list"`
	}
	if err := json.Unmarshal(env.Data, &listing); err != nil {
		t.Fatalf("decode admin blogs: %v", err)
	}
	if listing.Total != 2 || len(listing.List) != 2 {
		t.Fatalf("admin listing must include drafts, got total=%d items=%d", listing.Total, len(listing.List))
	}
}

func TestAdminGateRedirects(t *testing.T) {
	d := newDeps(t)
	adminEngine := NewAdminEngine(d)

	// 匿名 → /auth
	w, _ := doJSON(t, adminEngine, http.MethodGet, "/api/admin/blogs", "", "")
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/auth" {
		t.Fatalf("anonymous: http=%d location=%q", w.Code, w.Header().Get("Location"))
	}

	// 已登录非管理员 → /
	member := issueToken(t, d, "user-1", "user")
	w, _ = doJSON(t, adminEngine, http.MethodGet, "/api/admin/blogs", member, "")
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
		t.Fatalf("member: http=%d location=%q", w.Code, w.Header().Get("Location"))
	}

	// 管理员放行
	adm := issueToken(t, d, "admin-1", "admin")
	w, env := doJSON(t, adminEngine, http.MethodGet, "/api/admin/blogs", adm, "")
	if w.Code != http.StatusOK || env.Code != 0 {
		t.Fatalf("admin: http=%d code=%d", w.Code, env.Code)
	}

	// 过期令牌与缺失令牌同样按匿名处理
	expired := issueExpiredToken(t, d, "admin-1", "admin")
	w, _ = doJSON(t, adminEngine, http.MethodGet, "/api/admin/blogs", expired, "")
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/auth" {
		t.Fatalf("expired: http=%d location=%q", w.Code, w.Header().Get("Location"))
	}
}

func TestDashboardRequiresAuth(t *testing.T) {
	d := newDeps(t)
	api := NewAPIEngine(d)

	w, env := doJSON(t, api, http.MethodGet, "/api/invoices", "", "")
	if w.Code != http.StatusOK || env.Code != 401 {
		t.Fatalf("anonymous dashboard call: http=%d code=%d", w.Code, env.Code)
	}
}

func TestRecordPaymentThroughAdminRoute(t *testing.T) {
	d := newDeps(t)
	adminEngine := NewAdminEngine(d)
	tok := issueToken(t, d, "admin-1", "admin")

	mustCreate(t, d.DB, &domain.Project{ID: "p1", UserID: "u1", Title: "Site", Status: domain.ProjectInProgress})
	mustCreate(t, d.DB, &domain.Invoice{
		ID: "inv1", ProjectID: "p1", InvoiceNumber: "INV-1", Amount: 900,
		Currency: "USD", Status: domain.InvoiceUnpaid, IssueDate: time.Now(), DueDate: time.Now(),
	})

	_, env := doJSON(t, adminEngine, http.MethodPost, "/api/admin/invoices/inv1/payments", tok,
		`{"amount": 100, "paymentMethod": "wire"}`)
	if env.Code != 0 {
		t.Fatalf("record payment: code=%d msg=%s data=%s", env.Code, env.Msg, env.Data)
	}

	var inv domain.Invoice
	if err := d.DB.First(&inv, "id = ?", "inv1").Error; err != nil {
		t.Fatalf("reload invoice: %v", err)
	}
	if inv.Status != domain.InvoicePaid {
		t.Fatalf("underpayment must still flip to paid, got %q", inv.Status)
	}

	// 未知状态在边界拒绝
	_, env = doJSON(t, adminEngine, http.MethodPut, "/api/admin/invoices/inv1/status", tok,
		`{"status": "archived"}`)
	if env.Code != 400 {
		t.Fatalf("unknown status must be a 400 envelope, got %d", env.Code)
	}
}

func TestAdminUnpublishHidesPostFromPublic(t *testing.T) {
	d := newDeps(t)
	api := NewAPIEngine(d)
	adminEngine := NewAdminEngine(d)
	tok := issueToken(t, d, "admin-1", "admin")

	_, env := doJSON(t, adminEngine, http.MethodPost, "/api/admin/blogs", tok,
		`{"title": "Launch", "slug": "launch", "published": true}`)
	if env.Code != 0 {
		t.Fatalf("create blog: code=%d msg=%s", env.Code, env.Msg)
	}
	var created domain.BlogPost
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode created blog: %v", err)
	}

	_, env = doJSON(t, api, http.MethodGet, "/api/blogs/launch", "", "")
	if env.Code != 0 {
		t.Fatalf("published post must be public, got code=%d", env.Code)
	}

	// 下架：published=false 是零值，必须照样落库
	_, env = doJSON(t, adminEngine, http.MethodPut, "/api/admin/blogs/"+created.ID, tok,
		`{"published": false}`)
	if env.Code != 0 {
		t.Fatalf("unpublish: code=%d msg=%s", env.Code, env.Msg)
	}

	_, env = doJSON(t, api, http.MethodGet, "/api/blogs", "", "")
	var blogs []map[string]any
	if err := json.Unmarshal(env.Data, &blogs); err != nil {
		t.Fatalf("decode blogs: %v", err)
	}
	if len(blogs) != 0 {
		t.Fatalf("unpublished post must drop out of the public list, got %v", blogs)
	}
	_, env = doJSON(t, api, http.MethodGet, "/api/blogs/launch", "", "")
	if env.Code != 404 {
		t.Fatalf("unpublished slug must 404 in the envelope, got %d", env.Code)
	}
}

func TestAdminDeactivateHidesServiceFromPublic(t *testing.T) {
	d := newDeps(t)
	api := NewAPIEngine(d)
	adminEngine := NewAdminEngine(d)
	tok := issueToken(t, d, "admin-1", "admin")

	mustCreate(t, d.DB, &domain.Service{ID: "s1", Title: "Web", Slug: "web", Active: true})

	_, env := doJSON(t, adminEngine, http.MethodPut, "/api/admin/services/s1", tok,
		`{"active": false}`)
	if env.Code != 0 {
		t.Fatalf("deactivate: code=%d msg=%s", env.Code, env.Msg)
	}

	_, env = doJSON(t, api, http.MethodGet, "/api/services", "", "")
	var services []domain.Service
	if err := json.Unmarshal(env.Data, &services); err != nil {
		t.Fatalf("decode services: %v", err)
	}
	if len(services) != 0 {
		t.Fatalf("deactivated service must drop out of the public list, got %v", services)
	}
}

func seedVisibilityFixtures(t *testing.T, db *gorm.DB) {
	t.Helper()
	mustCreate(t, db, &domain.BlogPost{ID: "b1", Title: "Public", Slug: "public-post", Published: true})
	mustCreate(t, db, &domain.BlogPost{ID: "b2", Title: "Draft", Slug: "draft-post", Published: false})
	mustCreate(t, db, &domain.Service{ID: "s1", Title: "Web", Slug: "web", Active: true})
	mustCreate(t, db, &domain.Service{ID: "s2", Title: "Legacy", Slug: "legacy", Active: false})
}

func mustCreate(t *testing.T, db *gorm.DB, v any) {
	t.Helper()
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("seed %T: %v", v, err)
	}
}

func issueToken(t *testing.T, d *Deps, uid, role string) string {
	t.Helper()
	tok, err := d.JWT.Issue(uid, role, uid)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func issueExpiredToken(t *testing.T, d *Deps, uid, role string) string {
	t.Helper()
	j := &auth.JWTer{Secret: d.JWT.Secret, Issuer: d.JWT.Issuer, TTL: -2 * time.Minute}
	tok, err := j.Issue(uid, role, uid)
	if err != nil {
		t.Fatalf("issue expired token: %v", err)
	}
	return tok
}
