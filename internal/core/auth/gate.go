package auth

// Session 每次请求重新推导的会话能力值；缺失和过期同样落到匿名态
type Session struct {
	Authenticated bool
	IsAdmin       bool
	Username      string
}

// Anonymous 解析失败 / 无凭证时的会话
func Anonymous() Session { return Session{} }

func SessionFromClaims(c *Claims) Session {
	if c == nil {
		return Anonymous()
	}
	return Session{
		Authenticated: true,
		IsAdmin:       c.Role == "admin",
		Username:      c.Username,
	}
}

// Requirement 路由的最低会话要求
type Requirement int

const (
	RequireNone Requirement = iota
	RequireAuth
	RequireAdmin
)

const (
	LoginPath = "/auth"
	HomePath  = "/"
)

// Decision 终态：放行或重定向
type Decision struct {
	Allow      bool
	RedirectTo string
}

// Evaluate 每次导航都重新评估；登出后对已渲染的后台页立即失效
func Evaluate(s Session, req Requirement) Decision {
	switch req {
	case RequireNone:
		return Decision{Allow: true}
	case RequireAuth:
		if !s.Authenticated {
			return Decision{RedirectTo: LoginPath}
		}
		return Decision{Allow: true}
	case RequireAdmin:
		if !s.Authenticated {
			return Decision{RedirectTo: LoginPath}
		}
		if !s.IsAdmin {
			return Decision{RedirectTo: HomePath}
		}
		return Decision{Allow: true}
	}
	return Decision{RedirectTo: LoginPath}
}
