package ez

import (
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"nexline-site/internal/transport/http/response"
	"nexline-site/pkg/utils"
)

// CrudHooks 模型级钩子
type CrudHooks[T any] struct {
	BeforeCreate func(c *gin.Context, m *T) error
	BeforeUpdate func(c *gin.Context, m *T) error
	ScopeList    func(c *gin.Context, q *gorm.DB) *gorm.DB // 自定义筛选/排序
	AfterGet     func(c *gin.Context, m *T)
	// AfterWrite 写成功后触发（缓存失效等）。更新时旧行和新行各触发一次，
	// 让按 slug 之类字段参数化的键在改名后也能失效。
	AfterWrite func(c *gin.Context, m *T)
}

// CrudConfig 实体到 REST 端点的映射配置
type CrudConfig[T any] struct {
	DB    *gorm.DB
	Group *gin.RouterGroup
	Path  string
	New   func() *T

	Hooks CrudHooks[T]

	AllowCreate bool
	AllowList   bool
	AllowGet    bool
	AllowUpdate bool
	AllowDelete bool

	// Owned=true 时按调用者 userId 过滤归属（用户侧端点）；
	// 管理端全量可见，置 false。
	Owned      bool
	IDField    string // 默认 "ID"
	OwnerField string // 默认优先 "OwnerID"，其次 "UserID"/"UID"

	AutoID bool          // 默认 true
	IDGen  func() string // 默认 utils.NewID

	// 列表排序（列名按模型字段自动转 snake_case），为空则按 ID DESC
	OrderBy string // 例如 "created_at DESC"
}

func (c *CrudConfig[T]) idFieldCandidates() []string {
	if c.IDField != "" {
		return []string{c.IDField, "ID", "Id"}
	}
	return []string{"ID", "Id"}
}

func (c *CrudConfig[T]) ownerFieldCandidates() []string {
	if c.OwnerField != "" {
		return []string{c.OwnerField, "OwnerID", "UserID", "UID"}
	}
	return []string{"OwnerID", "UserID", "UID"}
}

func getStringFieldPtr(obj any, candidates []string) (*string, bool) {
	v := reflect.ValueOf(obj)
	if v.Kind() != reflect.Ptr {
		return nil, false
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return nil, false
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" { // 未导出字段跳过
			continue
		}
		for _, cand := range candidates {
			if f.Name == cand {
				fv := v.Field(i)
				if fv.Kind() == reflect.String && fv.CanSet() {
					p := fv.Addr().Interface().(*string)
					return p, true
				}
			}
		}
	}
	return nil, false
}

func readStringField(obj any, candidates []string) (string, bool) {
	p, ok := getStringFieldPtr(obj, candidates)
	if !ok {
		return "", false
	}
	return *p, true
}

func writeStringField(obj any, candidates []string, val string) bool {
	p, ok := getStringFieldPtr(obj, candidates)
	if !ok {
		return false
	}
	*p = val
	return true
}

func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}

func toSnake(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// serverAssignedCols 服务端回填的列，客户端写入一律忽略
var serverAssignedCols = map[string]bool{
	"id": true, "created_at": true, "updated_at": true, "deleted_at": true,
}

// fieldColumns 建 JSON 键到数据库列名的映射（gorm column 标签优先，
// 否则按字段名转 snake_case）
func fieldColumns(obj any) map[string]string {
	out := map[string]string{}
	v := reflect.ValueOf(obj)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return out
	}
	t := v.Elem().Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue
		}
		key := strings.Split(f.Tag.Get("json"), ",")[0]
		if key == "-" {
			continue
		}
		if key == "" {
			key = f.Name
		}
		col := ""
		for _, part := range strings.Split(f.Tag.Get("gorm"), ";") {
			if strings.HasPrefix(part, "column:") {
				col = strings.TrimPrefix(part, "column:")
			}
		}
		if col == "" {
			col = toSnake(f.Name)
		}
		out[key] = col
	}
	return out
}

// presentColumns 请求体里实际出现的字段对应的列。Updates 的结构体形态
// 会丢掉 false/0/"" 这类零值，所以更新改成按这里选出的列强制写入。
func presentColumns(obj any, raw map[string]json.RawMessage) []string {
	cols := fieldColumns(obj)
	var out []string
	for key := range raw {
		col, ok := cols[key]
		if !ok || serverAssignedCols[col] {
			continue
		}
		out = append(out, col)
	}
	sort.Strings(out)
	return out
}

// scrubServerAssigned 清掉客户端传入的时间戳，交给 GORM 回填
func scrubServerAssigned(obj any) {
	v := reflect.ValueOf(obj)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return
	}
	v = v.Elem()
	for _, name := range []string{"CreatedAt", "UpdatedAt"} {
		f := v.FieldByName(name)
		if f.IsValid() && f.CanSet() && f.Type() == reflect.TypeOf(time.Time{}) {
			f.Set(reflect.Zero(f.Type()))
		}
	}
}

// Crud 注册一套实体端点（模型无需实现任何接口）
func Crud[T any](cfg CrudConfig[T]) {
	// 默认放开所有操作
	if !cfg.AllowCreate && !cfg.AllowGet && !cfg.AllowList && !cfg.AllowUpdate && !cfg.AllowDelete {
		cfg.AllowCreate, cfg.AllowList, cfg.AllowGet, cfg.AllowUpdate, cfg.AllowDelete = true, true, true, true, true
	}
	if !cfg.AutoID && cfg.IDGen == nil {
		cfg.AutoID = true
	}
	if cfg.IDGen == nil {
		cfg.IDGen = utils.NewID
	}

	idFieldNames := cfg.idFieldCandidates()
	ownerFieldNames := cfg.ownerFieldCandidates()

	// ownerScope 归属过滤；Owned=false 时恒等
	ownerScope := func(c *gin.Context, filter any) bool {
		if !cfg.Owned {
			return true
		}
		return writeStringField(filter, ownerFieldNames, c.GetString("userId"))
	}

	// Create
	if cfg.AllowCreate {
		cfg.Group.POST(cfg.Path, func(c *gin.Context) {
			m := cfg.New()
			if err := c.ShouldBindJSON(m); err != nil {
				c.JSON(http.StatusOK, response.Error(response.CodeBadRequest, err.Error()))
				return
			}
			scrubServerAssigned(m)
			// 自动生成 ID（若开启且为空）
			if cfg.AutoID {
				if id, ok := readStringField(m, idFieldNames); !ok {
					c.JSON(http.StatusOK, response.Error(response.CodeBadRequest, "id field not found"))
					return
				} else if strings.TrimSpace(id) == "" {
					_ = writeStringField(m, idFieldNames, cfg.IDGen())
				}
			}
			if cfg.Owned {
				uid := c.GetString("userId")
				if uid == "" {
					c.JSON(http.StatusOK, response.Error(response.CodeUnauthorized, "unauthorized"))
					return
				}
				if !writeStringField(m, ownerFieldNames, uid) {
					c.JSON(http.StatusOK, response.Error(response.CodeBadRequest, "owner field not found"))
					return
				}
			}

			if cfg.Hooks.BeforeCreate != nil {
				if err := cfg.Hooks.BeforeCreate(c, m); err != nil {
					WriteError(c, err)
					return
				}
			}
			if err := cfg.DB.WithContext(c).Create(m).Error; err != nil {
				c.JSON(http.StatusOK, response.Error(response.CodeBadRequest, err.Error()))
				return
			}
			if cfg.Hooks.AfterWrite != nil {
				cfg.Hooks.AfterWrite(c, m)
			}
			if cfg.Hooks.AfterGet != nil {
				cfg.Hooks.AfterGet(c, m)
			}
			c.JSON(http.StatusOK, response.OK(m))
		})
	}

	// List
	if cfg.AllowList {
		cfg.Group.GET(cfg.Path, func(c *gin.Context) {
			page := atoiDefault(c.Query("page"), 1)
			size := atoiDefault(c.Query("size"), 20)
			if size <= 0 || size > 100 {
				size = 20
			}
			offset := (page - 1) * size

			q := cfg.DB.WithContext(c).Model(cfg.New())
			if cfg.Owned {
				// 用结构体 Where 自动映射列名，避免手写 owner_id
				ownerFilter := cfg.New()
				if !ownerScope(c, ownerFilter) {
					c.JSON(http.StatusOK, response.Error(response.CodeBadRequest, "owner field not found"))
					return
				}
				q = q.Where(ownerFilter)
			}
			if cfg.Hooks.ScopeList != nil {
				q = cfg.Hooks.ScopeList(c, q)
			}

			var total int64
			if err := q.Count(&total).Error; err != nil {
				c.JSON(http.StatusOK, response.Error(response.CodeServerError, err.Error()))
				return
			}

			var items []T
			if cfg.OrderBy != "" {
				q = q.Order(cfg.OrderBy)
			} else {
				idCol := toSnake(idFieldNames[0])
				if idCol == "" {
					idCol = "id"
				}
				q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: idCol}, Desc: true})
			}
			if err := q.Limit(size).Offset(offset).Find(&items).Error; err != nil {
				c.JSON(http.StatusOK, response.Error(response.CodeServerError, err.Error()))
				return
			}
			if cfg.Hooks.AfterGet != nil {
				for i := range items {
					cfg.Hooks.AfterGet(c, &items[i])
				}
			}
			c.JSON(http.StatusOK, response.OK(gin.H{
				"list": items, "total": total, "page": page, "size": size,
			}))
		})
	}

	// Get
	if cfg.AllowGet {
		cfg.Group.GET(cfg.Path+"/:id", func(c *gin.Context) {
			id := c.Param("id")

			filter := cfg.New()
			_ = writeStringField(filter, idFieldNames, id)
			_ = ownerScope(c, filter)

			m := cfg.New()
			if err := cfg.DB.WithContext(c).Where(filter).First(m).Error; err != nil {
				c.JSON(http.StatusOK, response.Error(response.CodeNotFound, "not found"))
				return
			}
			if cfg.Hooks.AfterGet != nil {
				cfg.Hooks.AfterGet(c, m)
			}
			c.JSON(http.StatusOK, response.OK(m))
		})
	}

	// Update
	if cfg.AllowUpdate {
		cfg.Group.PUT(cfg.Path+"/:id", func(c *gin.Context) {
			id := c.Param("id")

			// 先确认存在（和归属，如果有），整行留作写前快照
			key := cfg.New()
			_ = writeStringField(key, idFieldNames, id)
			_ = ownerScope(c, key)
			before := cfg.New()
			if err := cfg.DB.WithContext(c).Where(key).First(before).Error; err != nil {
				c.JSON(http.StatusOK, response.Error(response.CodeNotFound, "not found"))
				return
			}

			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				c.JSON(http.StatusOK, response.Error(response.CodeBadRequest, err.Error()))
				return
			}
			in := cfg.New()
			if err := binding.JSON.BindBody(body, in); err != nil {
				c.JSON(http.StatusOK, response.Error(response.CodeBadRequest, err.Error()))
				return
			}
			var raw map[string]json.RawMessage
			if err := json.Unmarshal(body, &raw); err != nil {
				c.JSON(http.StatusOK, response.Error(response.CodeBadRequest, err.Error()))
				return
			}
			// 强制保持 ID/Owner
			_ = writeStringField(in, idFieldNames, id)
			_ = ownerScope(c, in)

			if cfg.Hooks.BeforeUpdate != nil {
				if err := cfg.Hooks.BeforeUpdate(c, in); err != nil {
					WriteError(c, err)
					return
				}
			}
			// 只写请求里出现的列，false/0/"" 也能落库
			cols := presentColumns(in, raw)
			if len(cols) == 0 {
				c.JSON(http.StatusOK, response.OK(gin.H{"id": id}))
				return
			}
			if err := cfg.DB.WithContext(c).Model(cfg.New()).Where(key).Select(cols).Updates(in).Error; err != nil {
				c.JSON(http.StatusOK, response.Error(response.CodeBadRequest, err.Error()))
				return
			}

			after := in
			if cfg.Hooks.AfterWrite != nil || cfg.Hooks.AfterGet != nil {
				fresh := cfg.New()
				if err := cfg.DB.WithContext(c).Where(key).First(fresh).Error; err == nil {
					after = fresh
				}
			}
			if cfg.Hooks.AfterWrite != nil {
				cfg.Hooks.AfterWrite(c, before) // 写前行
				cfg.Hooks.AfterWrite(c, after)  // 写后行
			}
			if cfg.Hooks.AfterGet != nil {
				cfg.Hooks.AfterGet(c, after)
			}
			c.JSON(http.StatusOK, response.OK(gin.H{"id": id}))
		})
	}

	// Delete
	if cfg.AllowDelete {
		cfg.Group.DELETE(cfg.Path+"/:id", func(c *gin.Context) {
			id := c.Param("id")

			// 先读出整行，失效键可能依赖 slug 等字段
			m := cfg.New()
			filter := cfg.New()
			_ = writeStringField(filter, idFieldNames, id)
			_ = ownerScope(c, filter)
			if err := cfg.DB.WithContext(c).Where(filter).First(m).Error; err != nil {
				c.JSON(http.StatusOK, response.Error(response.CodeNotFound, "not found"))
				return
			}

			res := cfg.DB.WithContext(c).Where(filter).Delete(cfg.New())
			if res.Error != nil {
				c.JSON(http.StatusOK, response.Error(response.CodeServerError, res.Error.Error()))
				return
			}
			if res.RowsAffected == 0 {
				c.JSON(http.StatusOK, response.Error(response.CodeNotFound, "not found"))
				return
			}
			if cfg.Hooks.AfterWrite != nil {
				cfg.Hooks.AfterWrite(c, m)
			}
			c.JSON(http.StatusOK, response.OK(gin.H{"id": id}))
		})
	}
}
