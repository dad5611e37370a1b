package ez

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
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() { gin.SetMode(gin.TestMode) }

type note struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Title     string    `gorm:"size:255" json:"title"`
	Slug      string    `gorm:"uniqueIndex;size:191" json:"slug"`
	Pinned    bool      `json:"pinned"`
	Rank      int       `gorm:"column:rank_order" json:"rank"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newNoteCrud(t *testing.T, hooks CrudHooks[note]) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "ez-test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&note{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	r := gin.New()
	Crud(CrudConfig[note]{
		DB:    db,
		Group: r.Group("/"),
		Path:  "/notes",
		New:   func() *note { return &note{} },
		Hooks: hooks,
	})
	return r, db
}

func doCrud(t *testing.T, h http.Handler, method, path, body string) (int, json.RawMessage) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env struct {
		Code int             `json:"code"`
		Msg  string          `json:"msg"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: bad envelope %q: %v", method, path, w.Body.String(), err)
	}
	return env.Code, env.Data
}

func TestUpdatePersistsZeroValues(t *testing.T) {
	t.Parallel()
	r, db := newNoteCrud(t, CrudHooks[note]{})
	seed := note{ID: "n1", Title: "hello", Slug: "hello", Pinned: true, Rank: 5}
	if err := db.Create(&seed).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	if code, _ := doCrud(t, r, http.MethodPut, "/notes/n1", `{"pinned": false, "rank": 0}`); code != 0 {
		t.Fatalf("update: code=%d", code)
	}
	var got note
	if err := db.First(&got, "id = ?", "n1").Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Pinned || got.Rank != 0 {
		t.Fatalf("false/0 must persist, got pinned=%v rank=%d", got.Pinned, got.Rank)
	}
	if got.Title != "hello" {
		t.Fatalf("fields absent from the body must stay, got title=%q", got.Title)
	}

	// 再只改 title，确认之前置零的字段不被顺手抹掉
	if code, _ := doCrud(t, r, http.MethodPut, "/notes/n1", `{"title": "renamed"}`); code != 0 {
		t.Fatalf("second update failed")
	}
	if err := db.First(&got, "id = ?", "n1").Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Title != "renamed" || got.Pinned || got.Rank != 0 {
		t.Fatalf("partial update leaked into other columns: %+v", got)
	}
}

func TestAfterWriteSeesOldAndNewRow(t *testing.T) {
	t.Parallel()
	var slugs []string
	r, _ := newNoteCrud(t, CrudHooks[note]{
		AfterWrite: func(c *gin.Context, m *note) { slugs = append(slugs, m.Slug) },
	})

	code, data := doCrud(t, r, http.MethodPost, "/notes", `{"title": "a", "slug": "first"}`)
	if code != 0 {
		t.Fatalf("create: code=%d", code)
	}
	var created note
	if err := json.Unmarshal(data, &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if len(slugs) != 1 || slugs[0] != "first" {
		t.Fatalf("create hook must see the new row, got %v", slugs)
	}

	slugs = nil
	if code, _ := doCrud(t, r, http.MethodPut, "/notes/"+created.ID, `{"slug": "second"}`); code != 0 {
		t.Fatalf("update: code=%d", code)
	}
	// 改名后旧 slug 的缓存键也要能失效，所以新旧行都得经过钩子
	if len(slugs) != 2 || slugs[0] != "first" || slugs[1] != "second" {
		t.Fatalf("update hook must see old then new slug, got %v", slugs)
	}

	slugs = nil
	if code, _ := doCrud(t, r, http.MethodDelete, "/notes/"+created.ID, ""); code != 0 {
		t.Fatalf("delete: code=%d", code)
	}
	if len(slugs) != 1 || slugs[0] != "second" {
		t.Fatalf("delete hook must see the removed row, got %v", slugs)
	}
}

func TestCreateIgnoresClientTimestamps(t *testing.T) {
	t.Parallel()
	r, db := newNoteCrud(t, CrudHooks[note]{})

	code, data := doCrud(t, r, http.MethodPost, "/notes",
		`{"title": "t", "slug": "ts", "createdAt": "2001-01-01T00:00:00Z"}`)
	if code != 0 {
		t.Fatalf("create: code=%d", code)
	}
	var created note
	if err := json.Unmarshal(data, &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	var got note
	if err := db.First(&got, "id = ?", created.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.CreatedAt.Year() == 2001 {
		t.Fatalf("client-supplied createdAt must be discarded, got %v", got.CreatedAt)
	}

	// 更新时服务端字段直接忽略；只含这些键的请求等价于空操作
	if code, _ := doCrud(t, r, http.MethodPut, "/notes/"+created.ID,
		`{"createdAt": "2001-01-01T00:00:00Z", "id": "other"}`); code != 0 {
		t.Fatalf("noop update: code=%d", code)
	}
	var after note
	if err := db.First(&after, "id = ?", created.ID).Error; err != nil {
		t.Fatalf("row must keep its id: %v", err)
	}
	if after.CreatedAt.Year() == 2001 {
		t.Fatalf("update must not write server-assigned columns, got %v", after.CreatedAt)
	}
}
