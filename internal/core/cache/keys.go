package cache

// 缓存键按 (资源, 作用域) 生成；失效关系集中在 Invalidations 表里，
// 每个变更操作声明它要删的键，而不是在各处散落 Del 调用。

const (
	KeyPartners = "partners:list"
	KeyServices = "services:list"
	KeyBlogs    = "blogs:list"
)

func KeyBlog(slug string) string { return "blogs:slug:" + slug }

func KeyProjectInvoices(projectID string) string { return "invoices:project:" + projectID }

func KeyUserProjects(userID string) string { return "projects:user:" + userID }

// Mutation 变更操作名；与路由层的 admin 写操作一一对应
type Mutation string

const (
	MutPartnerWrite   Mutation = "partner.write"
	MutServiceWrite   Mutation = "service.write"
	MutBlogWrite      Mutation = "blog.write"
	MutProjectWrite   Mutation = "project.write"
	MutInvoiceWrite   Mutation = "invoice.write"
	MutPaymentCreate  Mutation = "payment.create"
	MutInvoiceStatus  Mutation = "invoice.status"
)

// Invalidations 静态失效表。作用域键（按 project / user / slug 参数化）
// 用 KeysFor 在运行时补全。
var Invalidations = map[Mutation][]string{
	MutPartnerWrite:  {KeyPartners},
	MutServiceWrite:  {KeyServices},
	MutBlogWrite:     {KeyBlogs}, // slug 键由 KeysFor 追加
	MutProjectWrite:  {},         // 仅作用域键
	MutInvoiceWrite:  {},
	MutPaymentCreate: {},
	MutInvoiceStatus: {},
}

// Scope 变更涉及的作用域参数；为空的字段不生成键
type Scope struct {
	Slug      string
	ProjectID string
	UserID    string
}

// KeysFor 静态表 + 作用域键，得到本次变更要失效的完整键集
func KeysFor(m Mutation, sc Scope) []string {
	keys := append([]string(nil), Invalidations[m]...)
	if sc.Slug != "" {
		keys = append(keys, KeyBlog(sc.Slug))
	}
	if sc.ProjectID != "" {
		keys = append(keys, KeyProjectInvoices(sc.ProjectID))
	}
	if sc.UserID != "" {
		keys = append(keys, KeyUserProjects(sc.UserID))
	}
	return keys
}
